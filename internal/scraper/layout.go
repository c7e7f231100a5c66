package scraper

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"

	"github.com/pfrederiksen/nba-rank/internal/logger"
)

// CareerColumns holds cell offsets in the career totals row.
// Negative offsets count from the end of the row (-1 is the last cell).
type CareerColumns struct {
	Minutes  int `json:"minutes"`
	Points   int `json:"points"`
	Rebounds int `json:"rebounds"`
	Assists  int `json:"assists"`
}

// Layout describes where data lives on the statistics site.
type Layout struct {
	// league team page
	TeamTableSelector  string `json:"team_table_selector"`
	TeamRowSelector    string `json:"team_row_selector"`
	TeamAnchorSelector string `json:"team_anchor_selector"`
	TeamHrefPattern    string `json:"team_href_pattern"`   // two groups: abbreviation, slug
	RosterURLTemplate  string `json:"roster_url_template"` // origin, abbreviation, slug

	// roster page
	RosterBodySelector string `json:"roster_body_selector"`
	RosterCellSelector string `json:"roster_cell_selector"`
	RosterStride       int    `json:"roster_stride"`
	RosterNameCell     int    `json:"roster_name_cell"`
	RosterSalaryCell   int    `json:"roster_salary_cell"`

	// player career page
	PlayerStatsURLTemplate string        `json:"player_stats_url_template"` // origin, player id
	CareerBodySelector     string        `json:"career_body_selector"`
	CareerTableIndex       int           `json:"career_table_index"`
	CareerColumns          CareerColumns `json:"career_columns"`
}

// DefaultLayout returns the layout of ESPN's NBA pages.
func DefaultLayout() Layout {
	return Layout{
		TeamTableSelector:  "table.Table--fixed-left",
		TeamRowSelector:    "tbody tr",
		TeamAnchorSelector: "a.AnchorLink",
		TeamHrefPattern:    `/name/([A-Za-z0-9]+)/([A-Za-z0-9-]+)/?$`,
		RosterURLTemplate:  "%s/nba/team/roster/_/name/%s/%s",

		RosterBodySelector: "tbody",
		RosterCellSelector: "td.Table__TD",
		RosterStride:       8,
		RosterNameCell:     1,
		RosterSalaryCell:   7,

		PlayerStatsURLTemplate: "%s/nba/player/stats/_/id/%s/type/nba/seasontype/3",
		CareerBodySelector:     "tbody",
		CareerTableIndex:       1,
		CareerColumns: CareerColumns{
			Minutes:  2,
			Rebounds: 11,
			Assists:  12,
			Points:   -1,
		},
	}
}

// Validate checks that the layout is internally consistent.
func (l Layout) Validate() error {
	var problems []string

	if l.TeamTableSelector == "" || l.TeamRowSelector == "" || l.TeamAnchorSelector == "" {
		problems = append(problems, "team selectors must be set")
	}
	if re, err := regexp.Compile(l.TeamHrefPattern); err != nil {
		problems = append(problems, fmt.Sprintf("team_href_pattern: %v", err))
	} else if re.NumSubexp() != 2 {
		problems = append(problems, "team_href_pattern must have two groups")
	}
	if strings.Count(l.RosterURLTemplate, "%s") != 3 {
		problems = append(problems, "roster_url_template needs three %s verbs")
	}
	if strings.Count(l.PlayerStatsURLTemplate, "%s") != 2 {
		problems = append(problems, "player_stats_url_template needs two %s verbs")
	}
	if l.RosterStride <= 0 {
		problems = append(problems, "roster_stride must be positive")
	}
	for _, cell := range []struct {
		name string
		off  int
	}{
		{"roster_name_cell", l.RosterNameCell},
		{"roster_salary_cell", l.RosterSalaryCell},
	} {
		if cell.off < 0 || cell.off >= l.RosterStride {
			problems = append(problems, fmt.Sprintf("%s %d outside stride %d", cell.name, cell.off, l.RosterStride))
		}
	}
	if l.CareerTableIndex < 0 {
		problems = append(problems, "career_table_index must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid layout: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LoadLayout reads a JSON5 layout file on top of DefaultLayout. Fields absent
// from the file keep their defaults. A sibling "<name>.local.<ext>" file, when
// present, is merged over the result; zero values in it are ignored.
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()

	data, err := os.ReadFile(path)
	if err != nil {
		return layout, fmt.Errorf("reading layout: %w", err)
	}
	if err := json5.Unmarshal(data, &layout); err != nil {
		return layout, fmt.Errorf("parsing layout %s: %w", path, err)
	}

	localPath := localVariant(path)
	local, err := os.ReadFile(localPath)
	switch {
	case err == nil:
		var override Layout
		if err := json5.Unmarshal(local, &override); err != nil {
			return layout, fmt.Errorf("parsing layout %s: %w", localPath, err)
		}
		if err := mergo.Merge(&layout, override, mergo.WithOverride); err != nil {
			return layout, fmt.Errorf("merging layout overrides: %w", err)
		}
		logger.Info("merged layout overrides", logger.Fields{"path": localPath})
	case !os.IsNotExist(err):
		return layout, fmt.Errorf("reading layout: %w", err)
	}

	if err := layout.Validate(); err != nil {
		return layout, err
	}
	return layout, nil
}

// localVariant maps "dir/layout.json5" to "dir/layout.local.json5".
func localVariant(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}
