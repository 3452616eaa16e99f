// Package pipeline drives the F1 ETL run: for each endpoint it plans the
// fetch (season, per-round, or global), pulls every page, flattens the
// pages, and hands the row-set to the configured sinks.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/f1-etl/pkg/ergast"
	"github.com/Sternrassler/f1-etl/pkg/sink"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// ErrUnsupportedEndpoint is returned for names without a path or flattener.
var ErrUnsupportedEndpoint = errors.New("unsupported endpoint")

// Config holds the per-run settings.
type Config struct {
	Season   string
	PageSize int
}

// EndpointResult describes one completed endpoint.
type EndpointResult struct {
	Endpoint     string
	Rows         int
	Pages        int
	Destinations []string
	Duration     time.Duration
}

// Summary describes a run. On failure it holds the endpoints completed
// before the error.
type Summary struct {
	RunID     string
	Season    string
	Endpoints []EndpointResult
	Duration  time.Duration
}

// Rows returns the total number of rows written across endpoints.
func (s Summary) Rows() int {
	return lo.SumBy(s.Endpoints, func(e EndpointResult) int { return e.Rows })
}

// Runner executes the pipeline. It is not safe for concurrent use.
type Runner struct {
	fetcher  PageFetcher
	sinks    []sink.Sink
	season   string
	pageSize int
	runID    string
	rounds   []string
	logger   zerolog.Logger
}

// NewRunner creates a runner writing to sinks in the given order.
func NewRunner(fetcher PageFetcher, sinks []sink.Sink, cfg Config) (*Runner, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if cfg.Season == "" {
		return nil, fmt.Errorf("season is required")
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("page size must be >= 1 (got %d)", cfg.PageSize)
	}

	runID := uuid.NewString()
	return &Runner{
		fetcher:  fetcher,
		sinks:    sinks,
		season:   cfg.Season,
		pageSize: cfg.PageSize,
		runID:    runID,
		logger: log.With().
			Str("component", "pipeline").
			Str("run_id", runID).
			Str("season", cfg.Season).
			Logger(),
	}, nil
}

// RunID identifies this runner's run in logs and pushed metrics.
func (r *Runner) RunID() string {
	return r.runID
}

// Run processes endpoints in canonical order. Duplicates are processed once.
// The first error aborts the run; sinks written by earlier endpoints stay.
func (r *Runner) Run(ctx context.Context, endpoints []string) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: r.runID, Season: r.season}

	for _, name := range endpoints {
		if !ergast.Supported(name) {
			runsTotal.WithLabelValues("error").Inc()
			return summary, fmt.Errorf("%w: %s", ErrUnsupportedEndpoint, name)
		}
	}
	ordered := lo.Filter(ergast.EndpointNames(), func(name string, _ int) bool {
		return lo.Contains(endpoints, name)
	})

	r.logger.Info().
		Strs("endpoints", ordered).
		Int("page_size", r.pageSize).
		Msg("Starting run")

	for _, name := range ordered {
		result, err := r.RunEndpoint(ctx, name)
		if err != nil {
			summary.Duration = time.Since(start)
			runsTotal.WithLabelValues("error").Inc()
			r.logger.Error().Err(err).Str("endpoint", name).Msg("Run aborted")
			return summary, err
		}
		summary.Endpoints = append(summary.Endpoints, result)
	}

	summary.Duration = time.Since(start)
	runsTotal.WithLabelValues("success").Inc()
	return summary, nil
}

// RunEndpoint fetches, flattens, and stores a single endpoint.
func (r *Runner) RunEndpoint(ctx context.Context, name string) (EndpointResult, error) {
	start := time.Now()

	endpoint, ok := ergast.LookupEndpoint(name)
	if !ok {
		return EndpointResult{}, fmt.Errorf("%w: %s", ErrUnsupportedEndpoint, name)
	}
	flattener, ok := ergast.Lookup(name)
	if !ok {
		return EndpointResult{}, fmt.Errorf("%w: %s", ErrUnsupportedEndpoint, name)
	}

	paths, err := r.plan(ctx, endpoint)
	if err != nil {
		return EndpointResult{}, fmt.Errorf("%s: %w", name, err)
	}

	var pages []ergast.Page
	for _, path := range paths {
		fetched, err := r.fetcher.FetchAll(ctx, path, r.pageSize)
		if err != nil {
			return EndpointResult{}, fmt.Errorf("%s: %w", name, err)
		}
		pages = append(pages, fetched...)
	}
	pagesFetchedTotal.WithLabelValues(name).Add(float64(len(pages)))

	rows, err := ergast.Flatten(name, pages)
	if err != nil {
		return EndpointResult{}, fmt.Errorf("%s: %w", name, err)
	}

	table := sink.Table{
		Name:    name,
		Season:  r.season,
		Scope:   endpoint.Scope,
		Columns: flattener.Columns,
		Rows:    rows,
	}

	result := EndpointResult{Endpoint: name, Rows: len(rows), Pages: len(pages)}
	for _, s := range r.sinks {
		dest, err := s.Write(ctx, table)
		if err != nil {
			return EndpointResult{}, fmt.Errorf("%s: write %s: %w", name, s.Kind(), err)
		}
		rowsWrittenTotal.WithLabelValues(name, s.Kind()).Add(float64(len(rows)))
		result.Destinations = append(result.Destinations, dest)

		r.logger.Info().
			Str("endpoint", name).
			Int("rows", len(rows)).
			Str("destination", dest).
			Msg("Endpoint stored")
	}

	result.Duration = time.Since(start)
	endpointDuration.WithLabelValues(name).Observe(result.Duration.Seconds())

	if len(r.sinks) == 0 {
		r.logger.Info().
			Str("endpoint", name).
			Int("rows", len(rows)).
			Msg("Endpoint flattened, no sinks configured")
	}

	return result, nil
}

// plan returns the resource paths to fetch for an endpoint, in order.
func (r *Runner) plan(ctx context.Context, endpoint ergast.Endpoint) ([]string, error) {
	switch endpoint.Scope {
	case ergast.ScopeRound:
		rounds, err := r.Rounds(ctx)
		if err != nil {
			return nil, fmt.Errorf("discover rounds: %w", err)
		}
		return lo.Map(rounds, func(round string, _ int) string {
			return endpoint.Resolve(r.season, round)
		}), nil
	case ergast.ScopeGlobal:
		return []string{endpoint.Path}, nil
	default:
		return []string{endpoint.Resolve(r.season, "")}, nil
	}
}

// Rounds returns the season's rounds, fetching the calendar at most once
// per runner.
func (r *Runner) Rounds(ctx context.Context) ([]string, error) {
	if r.rounds != nil {
		return r.rounds, nil
	}

	rounds, err := RoundsForSeason(ctx, r.fetcher, r.season)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().Strs("rounds", rounds).Msg("Discovered rounds")
	r.rounds = rounds
	return rounds, nil
}
