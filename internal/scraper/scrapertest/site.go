// Package scrapertest serves fixture statistics pages shaped like the ESPN
// layout for tests of the scraper and pipeline packages.
package scrapertest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pfrederiksen/nba-rank/internal/player"
)

// LeaguePath is the path of the fixture league page.
const LeaguePath = "/nba/stats/team/_/season/2021/seasontype/3"

// Player is a fixture roster entry.
type Player struct {
	ID     string
	Name   string
	Salary string
	// Stats is nil for a player without a career table.
	Stats *player.Stats
	// Status, when non-zero, is returned instead of the career page.
	Status int
}

// Team is a fixture team with its roster.
type Team struct {
	Abbr    string
	Slug    string
	Players []Player
	// Roster, when set, replaces the generated roster page.
	Roster string
}

// Line returns a Stats pointer for fixture definitions.
func Line(min, pts, reb, ast float64) *player.Stats {
	return &player.Stats{Minutes: min, Points: pts, Rebounds: reb, Assists: ast}
}

// Site is an httptest server serving league, roster and career pages.
type Site struct {
	*httptest.Server

	// League, when set, replaces the generated league page.
	League string

	mu       sync.Mutex
	teams    []Team
	requests []string
}

// NewSite starts a fixture site; it is closed when the test ends.
func NewSite(t testing.TB, teams ...Team) *Site {
	t.Helper()

	s := &Site{teams: teams}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+LeaguePath, s.serveLeague)
	mux.HandleFunc("GET /nba/team/roster/_/name/{abbr}/{slug}", s.serveRoster)
	mux.HandleFunc("GET /nba/player/stats/_/id/{id}/type/nba/seasontype/3", s.serveCareer)

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// LeagueURL returns the absolute league page URL.
func (s *Site) LeagueURL() string {
	return s.URL + LeaguePath
}

// Requests returns the request paths served so far, in order.
func (s *Site) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Site) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Site) serveLeague(w http.ResponseWriter, _ *http.Request) {
	page := s.League
	if page == "" {
		page = LeaguePage(s.URL, s.teams)
	}
	writeHTML(w, page)
}

func (s *Site) serveRoster(w http.ResponseWriter, r *http.Request) {
	for _, team := range s.teams {
		if team.Abbr != r.PathValue("abbr") || team.Slug != r.PathValue("slug") {
			continue
		}
		page := team.Roster
		if page == "" {
			page = RosterPage(s.URL, team.Players)
		}
		writeHTML(w, page)
		return
	}
	http.NotFound(w, r)
}

func (s *Site) serveCareer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	for _, team := range s.teams {
		for _, p := range team.Players {
			if p.ID != id {
				continue
			}
			if p.Status != 0 {
				w.WriteHeader(p.Status)
				return
			}
			writeHTML(w, CareerPage(p.Stats))
			return
		}
	}
	http.NotFound(w, r)
}

func writeHTML(w http.ResponseWriter, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, page)
}

// LeaguePage renders a league team page with one fixed-left row per team.
func LeaguePage(base string, teams []Team) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="ResponsiveTable">`)
	b.WriteString(`<table class="Table Table--align-right Table--fixed Table--fixed-left"><thead><tr><th>Team</th></tr></thead><tbody>`)
	for i, t := range teams {
		fmt.Fprintf(&b, `<tr class="Table__TR"><td class="Table__TD"><span>%d</span>`+
			`<a class="AnchorLink" href="%s/nba/team/_/name/%s/%s"><img alt="%s"/></a>`+
			`<a class="AnchorLink" href="%s/nba/team/_/name/%s/%s">%s</a></td></tr>`,
			i+1, base, t.Abbr, t.Slug, t.Abbr, base, t.Abbr, t.Slug, t.Slug)
	}
	b.WriteString(`</tbody></table>`)
	b.WriteString(`<table class="Table Table--align-right"><tbody><tr><td>GP</td></tr></tbody></table>`)
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// RosterPage renders a roster table with eight cells per player.
func RosterPage(base string, players []Player) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="Table"><thead><tr>`)
	for _, h := range []string{"", "Name", "POS", "Age", "HT", "WT", "College", "Salary"} {
		fmt.Fprintf(&b, `<th class="Table__TH">%s</th>`, h)
	}
	b.WriteString(`</tr></thead><tbody class="Table__TBODY">`)
	for _, p := range players {
		slug := strings.ToLower(strings.ReplaceAll(p.Name, " ", "-"))
		fmt.Fprintf(&b, `<tr class="Table__TR">`+
			`<td class="Table__TD"><img alt="%[1]s"/></td>`+
			`<td class="Table__TD"><div><a class="AnchorLink" href="%[2]s/nba/player/_/id/%[3]s/%[4]s">%[1]s</a><span>0</span></div></td>`+
			`<td class="Table__TD"><div>F</div></td>`+
			`<td class="Table__TD"><div>24</div></td>`+
			`<td class="Table__TD"><div>6' 8"</div></td>`+
			`<td class="Table__TD"><div>210 lbs</div></td>`+
			`<td class="Table__TD"><div>Duke</div></td>`+
			`<td class="Table__TD"><div>%[5]s</div></td></tr>`,
			p.Name, base, p.ID, slug, p.Salary)
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

// CareerPage renders a player stats page. The second table body holds the
// per-season lines with the career line last. A nil line renders a page
// without a career table.
func CareerPage(line *player.Stats) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="ResponsiveTable">`)
	b.WriteString(`<table class="Table Table--fixed-left"><tbody><tr><td>2019-20</td></tr><tr><td>Career</td></tr></tbody></table>`)
	if line != nil {
		b.WriteString(`<table class="Table"><tbody class="Table__TBODY">`)
		b.WriteString(statRow(player.Stats{Minutes: 1, Points: 2, Rebounds: 3, Assists: 4}))
		b.WriteString(statRow(*line))
		b.WriteString(`</tbody></table>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// statRow renders GP GS MIN FG FG% 3PT 3P% FT FT% OR DR REB AST BLK STL PF TO PTS.
func statRow(s player.Stats) string {
	cells := []string{
		"72", "72", fmt.Sprint(s.Minutes), "9.4-19.3", "48.7", "2.9-7.6", "38.0", "5.1-5.9", "86.2",
		"0.9", "6.4", fmt.Sprint(s.Rebounds), fmt.Sprint(s.Assists), "0.6", "1.2", "2.1", "2.7", fmt.Sprint(s.Points),
	}
	var b strings.Builder
	b.WriteString(`<tr class="Table__TR">`)
	for _, c := range cells {
		fmt.Fprintf(&b, `<td class="Table__TD"><span>%s</span></td>`, c)
	}
	b.WriteString(`</tr>`)
	return b.String()
}
