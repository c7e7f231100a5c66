package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pfrederiksen/nba-rank/internal/pipeline"
	"github.com/pfrederiksen/nba-rank/internal/player"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
)

const separator = "------------------------------------"

// RankedPlayer is one line of the ranking output.
type RankedPlayer struct {
	Rank   int      `json:"rank"`
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Team   string   `json:"team"`
	Salary *int64   `json:"salary"`
	Metric *float64 `json:"metric"`
}

func rankedPlayers(records []*player.Record) []RankedPlayer {
	out := make([]RankedPlayer, len(records))
	for i, r := range records {
		out[i] = RankedPlayer{
			Rank:   i + 1,
			ID:     r.ID,
			Name:   r.Name,
			Team:   r.Team,
			Salary: r.Salary,
			Metric: r.Metric,
		}
	}
	return out
}

// WriteOutput writes the ranking in the specified format
func WriteOutput(w io.Writer, ranked []*player.Record, top int, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, ranked)
	case FormatText:
		return writeText(w, ranked, top)
	case FormatTable:
		return writeTable(w, ranked)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, ranked []*player.Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rankedPlayers(ranked))
}

// writeText prints the names on one comma-separated line.
func writeText(w io.Writer, ranked []*player.Record, top int) error {
	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Name
	}

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Top %d players: \n", top)
	_, err := fmt.Fprintln(w, strings.Join(names, ", "))
	return err
}

func writeTable(w io.Writer, ranked []*player.Record) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Player", "Team", "Salary", "Metric"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	for _, p := range rankedPlayers(ranked) {
		salary, metric := "--", "--"
		if p.Salary != nil {
			salary = fmt.Sprintf("$%d", *p.Salary)
		}
		if p.Metric != nil {
			metric = fmt.Sprintf("%.2f", *p.Metric)
		}
		t.AppendRow(table.Row{p.Rank, p.Name, p.Team, salary, metric})
	}

	t.Render()
	return nil
}

// writeFailures lists players and rosters that could not be read.
func writeFailures(w io.Writer, result *pipeline.Result) {
	if len(result.Failures) == 0 && len(result.RosterFailures) == 0 {
		return
	}

	for _, f := range result.RosterFailures {
		fmt.Fprintf(w, "Skipped roster %s: %v\n", f.Team, f.Err)
	}
	if len(result.Failures) == 0 {
		return
	}

	ids := make([]string, len(result.Failures))
	for i, f := range result.Failures {
		ids[i] = f.PlayerID
	}
	fmt.Fprintf(w, "%d players without career stats: %s\n", len(result.Failures), strings.Join(ids, ", "))
}
