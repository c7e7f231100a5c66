package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/nba-rank/internal/config"
	"github.com/pfrederiksen/nba-rank/internal/logger"
	"github.com/pfrederiksen/nba-rank/internal/pipeline"
	"github.com/pfrederiksen/nba-rank/internal/player"
	"github.com/pfrederiksen/nba-rank/internal/scraper"
	"github.com/pfrederiksen/nba-rank/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

const defaultTop = 10

var (
	flagMetric         string
	flagURL            string
	flagUpdate         bool
	flagTop            int
	flagFormat         string
	flagDataDir        string
	flagStore          string
	flagLayout         string
	flagTimeout        time.Duration
	flagRetries        int
	flagInterval       time.Duration
	flagSkipBadRosters bool
	flagLogLevel       string
	flagVerbose        bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "nba-rank",
		Short: "Rank NBA players by a composite box-score metric or by salary",
		Long: `A CLI tool to rank NBA players.
With --update it scrapes every team roster and each player's career per-game
line, scores the players and saves the table. Without --update it ranks the
saved table.`,
		Args:          cobra.NoArgs,
		RunE:          runRank,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&flagMetric, "metric", string(MetricScore), "Ranking metric: metric or salary")
	cmd.Flags().StringVar(&flagURL, "url", cfg.URL, "League team statistics page")
	cmd.Flags().BoolVar(&flagUpdate, "update", false, "Scrape fresh data before ranking")
	cmd.Flags().IntVar(&flagTop, "top", defaultTop, "Number of players to show")
	cmd.Flags().StringVar(&flagFormat, "format", string(FormatText), "Output format: text, json or table")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", cfg.DataDir, "Data directory for the player table")
	cmd.Flags().StringVar(&flagStore, "store", cfg.Store, "Storage backend: json or sqlite")
	cmd.Flags().StringVar(&flagLayout, "layout", cfg.Layout, "JSON5 page layout file (default: built-in ESPN layout)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", cfg.Timeout, "Per-request timeout (0 waits indefinitely)")
	cmd.Flags().IntVar(&flagRetries, "retries", cfg.Retries, "Retries per failed request")
	cmd.Flags().DurationVar(&flagInterval, "interval", cfg.Interval, "Minimum delay between requests")
	cmd.Flags().BoolVar(&flagSkipBadRosters, "skip-bad-rosters", false, "Continue when a roster page cannot be read")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", string(cfg.LogLevel), "Log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging (same as --log-level debug)")

	return cmd
}

// runRank is the main command logic
func runRank(cmd *cobra.Command, args []string) error {
	metric, err := ParseMetric(flagMetric)
	if err != nil {
		return err
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON && format != FormatTable {
		return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'table')", flagFormat)
	}
	if flagTop <= 0 {
		return fmt.Errorf("--top must be positive, got %d", flagTop)
	}

	level, err := logger.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := storage.Open(storage.Kind(strings.ToLower(flagStore)), flagDataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	var table *player.Table
	if flagUpdate {
		table, err = update(ctx, cmd, store)
	} else {
		table, err = pipeline.Reload(ctx, store)
		if errors.Is(err, storage.ErrNoData) {
			err = fmt.Errorf("%w in %s (run with --update first)", err, flagDataDir)
		}
	}
	if err != nil {
		return err
	}

	ranked := Rank(table, metric, flagTop)
	if err := WriteOutput(cmd.OutOrStdout(), ranked, flagTop, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if flagVerbose {
		logger.LogMetrics()
	}
	return nil
}

func update(ctx context.Context, cmd *cobra.Command, store storage.Store) (*player.Table, error) {
	sc, err := newScraper()
	if err != nil {
		return nil, err
	}

	logger.Info("updating player table", logger.Fields{"url": flagURL})
	agg := pipeline.NewAggregator(sc, pipeline.Options{SkipFailedRosters: flagSkipBadRosters})
	result, err := pipeline.Update(ctx, agg, flagURL, store)
	if err != nil {
		return nil, fmt.Errorf("updating players: %w", err)
	}

	writeFailures(cmd.ErrOrStderr(), result)
	return result.Table, nil
}

// newScraper builds a scraper rooted at the origin of the league URL.
func newScraper() (*scraper.Scraper, error) {
	base, err := scraper.Origin(flagURL)
	if err != nil {
		return nil, fmt.Errorf("invalid --url: %w", err)
	}

	layout := scraper.DefaultLayout()
	if flagLayout != "" {
		if layout, err = scraper.LoadLayout(flagLayout); err != nil {
			return nil, err
		}
	}

	fetcher := scraper.NewHTTPFetcher(scraper.FetchOptions{
		Timeout:  flagTimeout,
		Retries:  flagRetries,
		Interval: flagInterval,
	})
	return scraper.New(
		scraper.WithFetcher(fetcher),
		scraper.WithLayout(layout),
		scraper.WithBaseURL(base),
	)
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, NewRootCmd(), os.Stderr)
	stop()
	os.Exit(code)
}

// run executes cmd and returns the process exit code. A failed run is logged
// at ERROR and reported on stderr.
func run(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("run failed", logger.Fields{"command": cmd.Name()}, err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
