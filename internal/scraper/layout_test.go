package scraper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultLayout_Valid(t *testing.T) {
	if err := DefaultLayout().Validate(); err != nil {
		t.Errorf("DefaultLayout().Validate() = %v", err)
	}
}

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Layout)
		want   string
	}{
		{"zero stride", func(l *Layout) { l.RosterStride = 0 }, "roster_stride"},
		{"salary outside stride", func(l *Layout) { l.RosterSalaryCell = 8 }, "roster_salary_cell"},
		{"negative name cell", func(l *Layout) { l.RosterNameCell = -1 }, "roster_name_cell"},
		{"bad href pattern", func(l *Layout) { l.TeamHrefPattern = `([` }, "team_href_pattern"},
		{"one group", func(l *Layout) { l.TeamHrefPattern = `/name/(\w+)` }, "two groups"},
		{"roster template", func(l *Layout) { l.RosterURLTemplate = "%s/roster" }, "roster_url_template"},
		{"player template", func(l *Layout) { l.PlayerStatsURLTemplate = "%s" }, "player_stats_url_template"},
		{"empty selector", func(l *Layout) { l.TeamAnchorSelector = "" }, "team selectors"},
		{"negative table index", func(l *Layout) { l.CareerTableIndex = -1 }, "career_table_index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultLayout()
			tt.modify(&l)

			err := l.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %q, should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.json5")

	// JSON5: comments, unquoted keys and trailing commas
	content := `{
		// the site added a jersey column
		roster_stride: 9,
		roster_salary_cell: 8,
		career_columns: { minutes: 3, points: -1, rebounds: 12, assists: 13, },
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout() error: %v", err)
	}

	if l.RosterStride != 9 || l.RosterSalaryCell != 8 {
		t.Errorf("roster offsets = %d/%d, want 9/8", l.RosterStride, l.RosterSalaryCell)
	}
	if l.RosterNameCell != 1 {
		t.Errorf("RosterNameCell = %d, want default 1", l.RosterNameCell)
	}
	if l.CareerColumns.Minutes != 3 || l.CareerColumns.Assists != 13 {
		t.Errorf("CareerColumns = %+v", l.CareerColumns)
	}
	if l.TeamTableSelector != DefaultLayout().TeamTableSelector {
		t.Errorf("TeamTableSelector = %q, want default", l.TeamTableSelector)
	}
}

func TestLoadLayout_LocalOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.json5")
	local := filepath.Join(dir, "layout.local.json5")

	if err := os.WriteFile(path, []byte(`{roster_stride: 9, roster_salary_cell: 8}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(local, []byte(`{roster_url_template: "%s/roster/%s/%s"}`), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout() error: %v", err)
	}
	if l.RosterURLTemplate != "%s/roster/%s/%s" {
		t.Errorf("RosterURLTemplate = %q, want local override", l.RosterURLTemplate)
	}
	if l.RosterStride != 9 {
		t.Errorf("RosterStride = %d, want 9 from base file", l.RosterStride)
	}
}

func TestLoadLayout_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadLayout(filepath.Join(dir, "missing.json5")); err == nil {
		t.Error("LoadLayout(missing) expected error, got nil")
	}

	bad := filepath.Join(dir, "bad.json5")
	os.WriteFile(bad, []byte(`{roster_stride: `), 0644)
	if _, err := LoadLayout(bad); err == nil {
		t.Error("LoadLayout(malformed) expected error, got nil")
	}

	invalid := filepath.Join(dir, "invalid.json5")
	os.WriteFile(invalid, []byte(`{roster_stride: 4}`), 0644)
	if _, err := LoadLayout(invalid); err == nil {
		t.Error("LoadLayout(salary cell outside stride) expected error, got nil")
	}
}

func TestLocalVariant(t *testing.T) {
	tests := map[string]string{
		"layout.json5":         "layout.local.json5",
		"/etc/nba/layout.json": "/etc/nba/layout.local.json",
		"layout":               "layout.local",
	}
	for in, want := range tests {
		if got := localVariant(in); got != want {
			t.Errorf("localVariant(%q) = %q, want %q", in, got, want)
		}
	}
}
