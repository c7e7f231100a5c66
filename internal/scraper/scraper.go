package scraper

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/nba-rank/internal/player"
)

const (
	// LeagueStatsURL is the default league team statistics page.
	LeagueStatsURL = "https://www.espn.com/nba/stats/team/_/season/2021/seasontype/3"
	// BaseURL is the origin used to build roster and player URLs.
	BaseURL = "https://www.espn.com"
)

var playerIDPattern = regexp.MustCompile(`\d+`)

// ExtractError reports a page whose structure does not match the Layout.
type ExtractError struct {
	URL    string
	Reason string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extracting %s: %s", e.URL, e.Reason)
}

func extractErrorf(url, format string, args ...interface{}) *ExtractError {
	return &ExtractError{URL: url, Reason: fmt.Sprintf(format, args...)}
}

// Team is one entry of the league team page.
type Team struct {
	Name      string `json:"name"`
	RosterURL string `json:"roster_url"`
}

// PlayerInfo is one player row of a roster page.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Salary string `json:"salary"` // verbatim cell text
}

// Scraper extracts teams, rosters and career stats from the statistics site.
type Scraper struct {
	fetcher  Fetcher
	layout   Layout
	base     string
	teamHref *regexp.Regexp
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithFetcher sets the page fetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *Scraper) { s.fetcher = f }
}

// WithLayout sets the page layout.
func WithLayout(l Layout) Option {
	return func(s *Scraper) { s.layout = l }
}

// WithBaseURL sets the origin used for roster and player URLs.
func WithBaseURL(base string) Option {
	return func(s *Scraper) { s.base = strings.TrimRight(base, "/") }
}

// New creates a Scraper. Without options it fetches ESPN pages serially with
// no timeout and no retries.
func New(opts ...Option) (*Scraper, error) {
	s := &Scraper{
		layout: DefaultLayout(),
		base:   BaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = NewHTTPFetcher(FetchOptions{})
	}
	if err := s.layout.Validate(); err != nil {
		return nil, err
	}
	s.teamHref = regexp.MustCompile(s.layout.TeamHrefPattern)
	return s, nil
}

// Origin returns the scheme and host of rawURL.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// PlayerStatsURL returns the career stats page for a player id.
func (s *Scraper) PlayerStatsURL(id string) string {
	return fmt.Sprintf(s.layout.PlayerStatsURLTemplate, s.base, id)
}

// Teams extracts the team list from the league statistics page, in page order.
func (s *Scraper) Teams(ctx context.Context, leagueURL string) ([]Team, error) {
	doc, err := s.fetcher.Fetch(ctx, leagueURL)
	if err != nil {
		return nil, fmt.Errorf("fetching league page: %w", err)
	}
	return s.parseTeams(doc, leagueURL)
}

func (s *Scraper) parseTeams(doc *goquery.Document, sourceURL string) ([]Team, error) {
	tables := doc.Find(s.layout.TeamTableSelector)
	if tables.Length() != 1 {
		return nil, extractErrorf(sourceURL, "found %d tables matching %q, want 1",
			tables.Length(), s.layout.TeamTableSelector)
	}

	rows := tables.Find(s.layout.TeamRowSelector)
	if rows.Length() == 0 {
		return nil, extractErrorf(sourceURL, "team table has no rows")
	}

	teams := make([]Team, 0, rows.Length())
	seen := make(map[string]bool)
	var extractErr error

	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		anchors := row.Find(s.layout.TeamAnchorSelector)
		if anchors.Length() == 0 {
			extractErr = extractErrorf(sourceURL, "team row %d has no anchor", i)
			return false
		}

		// every team link in the row must be well formed; the first one names the team
		var m []string
		anchors.EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
			href := strings.TrimSpace(anchor.AttrOr("href", ""))
			match := s.teamHref.FindStringSubmatch(href)
			if match == nil {
				extractErr = extractErrorf(sourceURL, "team row %d: malformed href %q", i, href)
				return false
			}
			if m == nil {
				m = match
			}
			return true
		})
		if extractErr != nil {
			return false
		}

		abbr, slug := m[1], m[2]
		if seen[slug] {
			return true
		}
		seen[slug] = true
		teams = append(teams, Team{
			Name:      slug,
			RosterURL: fmt.Sprintf(s.layout.RosterURLTemplate, s.base, abbr, slug),
		})
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}

	return teams, nil
}

// Players extracts id, name and raw salary for every player on a roster page.
func (s *Scraper) Players(ctx context.Context, rosterURL string) ([]PlayerInfo, error) {
	doc, err := s.fetcher.Fetch(ctx, rosterURL)
	if err != nil {
		return nil, fmt.Errorf("fetching roster: %w", err)
	}
	return s.parsePlayers(doc, rosterURL)
}

func (s *Scraper) parsePlayers(doc *goquery.Document, sourceURL string) ([]PlayerInfo, error) {
	body := doc.Find(s.layout.RosterBodySelector).First()
	if body.Length() == 0 {
		return nil, extractErrorf(sourceURL, "no roster table body")
	}

	cells := body.Find(s.layout.RosterCellSelector)
	stride := s.layout.RosterStride
	if cells.Length()%stride != 0 {
		return nil, extractErrorf(sourceURL, "%d roster cells is not a multiple of %d", cells.Length(), stride)
	}

	players := make([]PlayerInfo, 0, cells.Length()/stride)
	for start := 0; start < cells.Length(); start += stride {
		row := start / stride

		anchor := cells.Eq(start + s.layout.RosterNameCell).Find("a").First()
		if anchor.Length() == 0 {
			return nil, extractErrorf(sourceURL, "player row %d has no name anchor", row)
		}

		href := anchor.AttrOr("href", "")
		id := playerID(href)
		if id == "" {
			return nil, extractErrorf(sourceURL, "player row %d: no id in href %q", row, href)
		}

		players = append(players, PlayerInfo{
			ID:     id,
			Name:   strings.TrimSpace(anchor.Text()),
			Salary: strings.TrimSpace(cells.Eq(start + s.layout.RosterSalaryCell).Text()),
		})
	}

	return players, nil
}

// playerID returns the first run of digits in the path of href, so digits in
// the host are never taken for an id.
func playerID(href string) string {
	if u, err := url.Parse(href); err == nil {
		return playerIDPattern.FindString(u.Path)
	}
	return playerIDPattern.FindString(href)
}

// CareerStats reads the career per-game line from a player's stats page.
func (s *Scraper) CareerStats(ctx context.Context, playerID string) (player.Stats, error) {
	pageURL := s.PlayerStatsURL(playerID)
	doc, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return player.Stats{}, fmt.Errorf("fetching career stats: %w", err)
	}
	return s.parseCareer(doc, pageURL)
}

func (s *Scraper) parseCareer(doc *goquery.Document, sourceURL string) (player.Stats, error) {
	bodies := doc.Find(s.layout.CareerBodySelector)
	if bodies.Length() <= s.layout.CareerTableIndex {
		return player.Stats{}, extractErrorf(sourceURL, "no career table (found %d tables)", bodies.Length())
	}

	last := bodies.Eq(s.layout.CareerTableIndex).Find("tr").Last()
	if last.Length() == 0 {
		return player.Stats{}, extractErrorf(sourceURL, "career table has no rows")
	}

	var cells []string
	last.Children().Each(func(_ int, c *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(c.Text()))
	})

	cols := s.layout.CareerColumns
	var stats player.Stats
	for _, f := range []struct {
		name   string
		offset int
		dst    *float64
	}{
		{"minutes", cols.Minutes, &stats.Minutes},
		{"points", cols.Points, &stats.Points},
		{"rebounds", cols.Rebounds, &stats.Rebounds},
		{"assists", cols.Assists, &stats.Assists},
	} {
		v, err := cellFloat(cells, f.offset)
		if err != nil {
			return player.Stats{}, extractErrorf(sourceURL, "%s: %v", f.name, err)
		}
		*f.dst = v
	}

	return stats, nil
}

// cellFloat parses cells[offset]; negative offsets count from the end.
func cellFloat(cells []string, offset int) (float64, error) {
	i := offset
	if i < 0 {
		i += len(cells)
	}
	if i < 0 || i >= len(cells) {
		return 0, fmt.Errorf("column %d out of range for %d cells", offset, len(cells))
	}

	text := strings.ReplaceAll(cells[i], ",", "")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("column %d: %q is not a number", offset, cells[i])
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("column %d: invalid value %q", offset, cells[i])
	}
	return v, nil
}
