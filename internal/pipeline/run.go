package pipeline

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/nba-rank/internal/logger"
	"github.com/pfrederiksen/nba-rank/internal/player"
	"github.com/pfrederiksen/nba-rank/internal/storage"
)

// Update scrapes a fresh table, cleans and scores it, and saves it to store.
// Player failures are returned in the Result; they do not fail the run.
func Update(ctx context.Context, agg *Aggregator, leagueURL string, store storage.Store) (*Result, error) {
	result, err := agg.Aggregate(ctx, leagueURL)
	if err != nil {
		return nil, err
	}

	result.Table, err = finish(ctx, result.Table, store)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reload loads the saved table, cleans and scores it again, and saves it back.
func Reload(ctx context.Context, store storage.Store) (*player.Table, error) {
	table, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading players: %w", err)
	}
	return finish(ctx, table, store)
}

func finish(ctx context.Context, table *player.Table, store storage.Store) (*player.Table, error) {
	before := table.Len()
	table = player.Clean(table)
	if dropped := before - table.Len(); dropped > 0 {
		logger.Info("dropped players without statistics", logger.Fields{"count": dropped})
	}

	player.Score(table)
	logger.SetGauge("players.scored", float64(table.Len()))

	if err := store.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("saving players: %w", err)
	}
	return table, nil
}
