package pipeline

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/nba-rank/internal/logger"
	"github.com/pfrederiksen/nba-rank/internal/player"
	"github.com/pfrederiksen/nba-rank/internal/scraper"
)

// Failure is a player whose career statistics could not be read.
type Failure struct {
	PlayerID string
	Name     string
	URL      string
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("player %s (%s): %v", f.PlayerID, f.Name, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// RosterFailure is a team whose roster page could not be read.
type RosterFailure struct {
	Team string
	URL  string
	Err  error
}

func (f RosterFailure) Error() string {
	return fmt.Sprintf("team %s: %v", f.Team, f.Err)
}

func (f RosterFailure) Unwrap() error {
	return f.Err
}

// Result is the outcome of one aggregation run.
type Result struct {
	Table          *player.Table
	Failures       []Failure
	RosterFailures []RosterFailure
}

// Options controls aggregation.
type Options struct {
	// SkipFailedRosters records a roster that cannot be read and continues
	// as if the team were empty. By default such a roster aborts the run.
	SkipFailedRosters bool
}

// Aggregator builds the unified player table.
type Aggregator struct {
	scraper *scraper.Scraper
	opts    Options
}

// NewAggregator returns an Aggregator reading pages through s.
func NewAggregator(s *scraper.Scraper, opts Options) *Aggregator {
	return &Aggregator{scraper: s, opts: opts}
}

// Aggregate reads the league page at leagueURL, every roster it links to and
// the career line of every rostered player. Rows keep page order: teams as
// listed on the league page, players as listed on each roster. A player id
// seen on more than one roster keeps its first row.
func (a *Aggregator) Aggregate(ctx context.Context, leagueURL string) (*Result, error) {
	teams, err := a.scraper.Teams(ctx, leagueURL)
	if err != nil {
		return nil, fmt.Errorf("locating rosters: %w", err)
	}
	logger.Info("located rosters", logger.Fields{"teams": len(teams)})

	result := &Result{}
	builder := player.NewBuilder()

	for _, team := range teams {
		infos, err := a.scraper.Players(ctx, team.RosterURL)
		if err != nil {
			if !a.opts.SkipFailedRosters || ctx.Err() != nil {
				return nil, fmt.Errorf("reading roster for %s: %w", team.Name, err)
			}
			logger.Warn("skipping roster", logger.Fields{
				"team":  team.Name,
				"url":   team.RosterURL,
				"error": err.Error(),
			})
			result.RosterFailures = append(result.RosterFailures, RosterFailure{
				Team: team.Name,
				URL:  team.RosterURL,
				Err:  err,
			})
			continue
		}

		for _, info := range infos {
			builder.Add(&player.Record{
				ID:         info.ID,
				Name:       info.Name,
				Team:       team.Name,
				SalaryText: info.Salary,
			})
		}
		logger.Debug("read roster", logger.Fields{"team": team.Name, "players": len(infos)})
	}

	stats := make(map[string]player.Stats, builder.Len())
	for _, r := range builder.Records() {
		line, err := a.scraper.CareerStats(ctx, r.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f := Failure{
				PlayerID: r.ID,
				Name:     r.Name,
				URL:      a.scraper.PlayerStatsURL(r.ID),
				Err:      err,
			}
			logger.Warn("career stats unavailable", logger.Fields{
				"player_id": f.PlayerID,
				"name":      f.Name,
				"url":       f.URL,
				"error":     err.Error(),
			})
			logger.IncrCounter("players.failed")
			result.Failures = append(result.Failures, f)
			continue
		}
		stats[r.ID] = line
	}

	matched := builder.JoinStats(stats)
	logger.Info("aggregated players", logger.Fields{
		"players": builder.Len(),
		"matched": matched,
		"failed":  len(result.Failures),
	})

	result.Table = builder.Table()
	return result, nil
}
