package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/nba-rank/internal/logger"
	"github.com/pfrederiksen/nba-rank/internal/player"
	"github.com/pfrederiksen/nba-rank/internal/scraper/scrapertest"
	"github.com/pfrederiksen/nba-rank/internal/storage"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newLeague(t *testing.T) *scrapertest.Site {
	t.Helper()
	return scrapertest.NewSite(t,
		scrapertest.Team{Abbr: "bos", Slug: "boston-celtics", Players: []scrapertest.Player{
			{ID: "4065648", Name: "Jayson Tatum", Salary: "$28,103,500", Stats: scrapertest.Line(35.8, 26.4, 7.4, 4.3)},
			{ID: "2", Name: "Two Way", Salary: "--", Stats: scrapertest.Line(8.1, 2.2, 1.4, 0.6)},
		}},
		scrapertest.Team{Abbr: "mia", Slug: "miami-heat", Players: []scrapertest.Player{
			{ID: "6450", Name: "Jimmy Butler", Salary: "$36,016,200", Stats: scrapertest.Line(33.6, 21.5, 6.9, 7.1)},
			{ID: "9", Name: "Unavailable", Salary: "$1,000,000", Status: http.StatusInternalServerError},
		}},
	)
}

func TestRootCmd_UpdateThenReload(t *testing.T) {
	site := newLeague(t)
	dataDir := t.TempDir()

	stdout, stderr, err := runCmd(t, "--update", "--url", site.LeagueURL(), "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("update run error: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "Top 10 players: ") {
		t.Errorf("stdout missing header:\n%s", stdout)
	}
	for _, name := range []string{"Jayson Tatum", "Jimmy Butler", "Two Way"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("stdout missing %s:\n%s", name, stdout)
		}
	}
	if strings.Contains(stdout, "Unavailable") {
		t.Errorf("player without career stats ranked:\n%s", stdout)
	}
	if !strings.Contains(stderr, "1 players without career stats: 9") {
		t.Errorf("stderr missing failure summary:\n%s", stderr)
	}
	if _, err := os.Stat(filepath.Join(dataDir, storage.FileName)); err != nil {
		t.Errorf("player table not saved: %v", err)
	}

	requests := len(site.Requests())

	stdout, _, err = runCmd(t, "--metric", "salary", "--format", "json", "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("reload run error: %v", err)
	}
	if got := len(site.Requests()); got != requests {
		t.Errorf("reload made %d requests, want none", got-requests)
	}

	var ranked []RankedPlayer
	if err := json.Unmarshal([]byte(stdout), &ranked); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if len(ranked) != 2 {
		t.Fatalf("salary ranking has %d players, want 2 (undisclosed excluded)", len(ranked))
	}
	if ranked[0].Name != "Jimmy Butler" || ranked[1].Name != "Jayson Tatum" {
		t.Errorf("salary ranking = %s, %s", ranked[0].Name, ranked[1].Name)
	}
	if ranked[0].Salary == nil || *ranked[0].Salary != 36016200 {
		t.Errorf("top salary = %v, want 36016200", ranked[0].Salary)
	}
}

func TestRootCmd_SQLiteStore(t *testing.T) {
	site := newLeague(t)
	dataDir := t.TempDir()

	if _, stderr, err := runCmd(t, "--update", "--store", "sqlite", "--url", site.LeagueURL(), "--data-dir", dataDir); err != nil {
		t.Fatalf("update run error: %v\nstderr: %s", err, stderr)
	}

	stdout, _, err := runCmd(t, "--store", "sqlite", "--top", "1", "--format", "table", "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("reload run error: %v", err)
	}
	if strings.Count(stdout, "-heat")+strings.Count(stdout, "-celtics") != 1 {
		t.Errorf("--top 1 should print one row:\n%s", stdout)
	}
}

func TestRootCmd_InvalidMetric(t *testing.T) {
	site := newLeague(t)
	dataDir := filepath.Join(t.TempDir(), "data")

	_, _, err := runCmd(t, "--update", "--metric", "points", "--url", site.LeagueURL(), "--data-dir", dataDir)
	if !errors.Is(err, ErrInvalidMetric) {
		t.Fatalf("error = %v, want ErrInvalidMetric", err)
	}
	if n := len(site.Requests()); n != 0 {
		t.Errorf("invalid metric made %d requests, want 0", n)
	}
	if _, err := os.Stat(dataDir); !os.IsNotExist(err) {
		t.Errorf("invalid metric created the data directory")
	}
}

func TestRootCmd_Errors(t *testing.T) {
	dataDir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no saved data", []string{"--data-dir", dataDir}, "--update first"},
		{"bad format", []string{"--format", "xml", "--data-dir", dataDir}, "invalid format"},
		{"bad top", []string{"--top", "0", "--data-dir", dataDir}, "--top must be positive"},
		{"bad log level", []string{"--log-level", "loud", "--data-dir", dataDir}, "invalid --log-level"},
		{"bad store", []string{"--store", "csv", "--data-dir", dataDir}, "unknown store"},
		{"relative url", []string{"--update", "--url", "/nba/stats", "--data-dir", dataDir}, "invalid --url"},
		{"missing layout", []string{"--update", "--url", "http://127.0.0.1:1/x", "--layout", filepath.Join(dataDir, "none.json5"), "--data-dir", dataDir}, "reading layout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCmd(t, tt.args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, should contain %q", err, tt.want)
			}
		})
	}
}

func TestRootCmd_NoDataIsErrNoData(t *testing.T) {
	_, _, err := runCmd(t, "--data-dir", t.TempDir())
	if !errors.Is(err, storage.ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}
}

func saveTable(t *testing.T, dataDir string) {
	t.Helper()
	store := storage.NewFileStore(filepath.Join(dataDir, storage.FileName))
	table := &player.Table{Records: []*player.Record{
		{
			ID: "1", Name: "Starter", Team: "miami-heat", Salary: player.Int(9000000),
			Minutes: player.Float(34), Points: player.Float(22), Rebounds: player.Float(6), Assists: player.Float(5),
		},
		// no career line; dropped when the table is cleaned
		{ID: "2", Name: "Rookie", Team: "miami-heat"},
	}}
	if err := store.Save(context.Background(), table); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
}

func TestRootCmd_LogLevel(t *testing.T) {
	dataDir := t.TempDir()
	saveTable(t, dataDir)

	_, stderr, err := runCmd(t, "--log-level", "debug", "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !strings.Contains(stderr, `"message":"dropped players without statistics"`) {
		t.Errorf("debug level run should log INFO entries:\n%s", stderr)
	}

	_, stderr, err = runCmd(t, "--log-level", "error", "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if stderr != "" {
		t.Errorf("error level run should be quiet, got:\n%s", stderr)
	}
}

func TestRun_ExitCodes(t *testing.T) {
	var logs bytes.Buffer
	logger.SetDefault(logger.New(logger.LevelInfo, &logs))
	t.Cleanup(func() { logger.SetDefault(logger.New(logger.LevelInfo, os.Stderr)) })

	newCmd := func(args ...string) *cobra.Command {
		cmd := NewRootCmd()
		cmd.SetArgs(args)
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		return cmd
	}

	var stderr bytes.Buffer
	if code := run(context.Background(), newCmd("--metric", "points"), &stderr); code != ExitError {
		t.Errorf("run() with invalid metric = %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr.String(), "Error: invalid metric") {
		t.Errorf("stderr = %q, want Error: line", stderr.String())
	}
	if out := logs.String(); !strings.Contains(out, `"level":"ERROR"`) || !strings.Contains(out, `"message":"run failed"`) {
		t.Errorf("failure not logged at ERROR:\n%s", out)
	}

	dataDir := t.TempDir()
	saveTable(t, dataDir)
	stderr.Reset()
	if code := run(context.Background(), newCmd("--data-dir", dataDir), &stderr); code != ExitSuccess {
		t.Errorf("run() = %d, want %d (stderr %q)", code, ExitSuccess, stderr.String())
	}
}
