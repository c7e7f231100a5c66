package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pfrederiksen/nba-rank/internal/pipeline"
	"github.com/pfrederiksen/nba-rank/internal/player"
)

func sampleRanking() []*player.Record {
	return []*player.Record{
		{ID: "3202", Name: "Kevin Durant", Team: "brooklyn-nets", Salary: player.Int(40108950), Metric: player.Float(12.3456)},
		{ID: "4066261", Name: "Bam Adebayo", Team: "miami-heat", Metric: player.Float(3.5)},
	}
}

func TestWriteOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleRanking(), 10, FormatText); err != nil {
		t.Fatalf("WriteOutput() error: %v", err)
	}

	want := separator + "\nTop 10 players: \nKevin Durant, Bam Adebayo\n"
	if got := buf.String(); got != want {
		t.Errorf("text output = %q, want %q", got, want)
	}
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleRanking(), 10, FormatJSON); err != nil {
		t.Fatalf("WriteOutput() error: %v", err)
	}

	var got []RankedPlayer
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 2 {
		t.Fatalf("got %d players, want 2", len(got))
	}
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Errorf("ranks = %d, %d", got[0].Rank, got[1].Rank)
	}
	if got[1].Salary != nil {
		t.Errorf("undisclosed salary = %d, want null", *got[1].Salary)
	}
	if !strings.Contains(buf.String(), `"salary": null`) {
		t.Error("undisclosed salary should be encoded as null")
	}
}

func TestWriteOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleRanking(), 10, FormatTable); err != nil {
		t.Fatalf("WriteOutput() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Kevin Durant", "brooklyn-nets", "$40108950", "12.35", "Bam Adebayo", "--"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "╭") {
		t.Errorf("table output should use the rounded style:\n%s", out)
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	if err := WriteOutput(&bytes.Buffer{}, nil, 10, OutputFormat("csv")); err == nil {
		t.Error("WriteOutput(csv) expected error, got nil")
	}
}

func TestWriteFailures(t *testing.T) {
	var buf bytes.Buffer
	writeFailures(&buf, &pipeline.Result{
		Failures: []pipeline.Failure{
			{PlayerID: "11", Name: "A", Err: errors.New("boom")},
			{PlayerID: "12", Name: "B", Err: errors.New("boom")},
		},
		RosterFailures: []pipeline.RosterFailure{
			{Team: "utah-jazz", Err: errors.New("bad table")},
		},
	})

	out := buf.String()
	if !strings.Contains(out, "Skipped roster utah-jazz: bad table") {
		t.Errorf("missing roster failure:\n%s", out)
	}
	if !strings.Contains(out, "2 players without career stats: 11, 12") {
		t.Errorf("missing player failures:\n%s", out)
	}

	buf.Reset()
	writeFailures(&buf, &pipeline.Result{})
	if buf.Len() != 0 {
		t.Errorf("no failures should print nothing, got %q", buf.String())
	}
}
