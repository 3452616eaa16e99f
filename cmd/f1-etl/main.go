package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Sternrassler/f1-etl/pkg/cache"
	"github.com/Sternrassler/f1-etl/pkg/client"
	"github.com/Sternrassler/f1-etl/pkg/config"
	"github.com/Sternrassler/f1-etl/pkg/discovery"
	"github.com/Sternrassler/f1-etl/pkg/logging"
	"github.com/Sternrassler/f1-etl/pkg/metrics"
	"github.com/Sternrassler/f1-etl/pkg/pagination"
	"github.com/Sternrassler/f1-etl/pkg/pipeline"
	"github.com/Sternrassler/f1-etl/pkg/sink"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("F1 ETL failed")
		stop()
		os.Exit(1)
	}
}

// run executes one ETL run configured by file, environment, and args.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("f1-etl", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("F1_CONFIG"), "path to YAML config file")
	season := fs.String("season", "", "season to extract (overrides config)")
	endpoints := fs.String("endpoints", "", "comma-separated endpoint names (overrides config)")
	docsDir := fs.String("docs-dir", "", "directory of <endpoint>.md files selecting the endpoints")
	pageSize := fs.Int("page-size", 0, "pagination page size (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *season != "" {
		cfg.Season = *season
	}
	if *pageSize != 0 {
		cfg.PageSize = *pageSize
	}
	if *docsDir != "" {
		cfg.DocsDir = *docsDir
		cfg.Endpoints = nil
	}
	if *endpoints != "" {
		cfg.Endpoints = discovery.ParseList(*endpoints)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Setup(cfg.LoggingConfig())
	logger := logging.NewLogger("f1-etl")

	names, err := discovery.Resolve(discovery.Options{Names: cfg.Endpoints, DocsDir: cfg.DocsDir})
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no endpoints selected")
	}

	clientCfg := cfg.ClientConfig()
	if cfg.Cache.RedisURL != "" {
		manager, err := cache.NewManagerFromURL(cfg.Cache.RedisURL)
		if err != nil {
			return err
		}
		defer manager.Close()
		if err := manager.Ping(ctx); err != nil {
			return err
		}
		clientCfg.Cache = manager
		logger.Info().Dur("ttl", cfg.Cache.TTL).Msg("Page cache enabled")
	}

	f1Client, err := client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer f1Client.Close()

	sinks, locations, err := openSinks(ctx, cfg)
	defer func() {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				logger.Warn().Err(err).Str("sink", s.Kind()).Msg("Failed to close sink")
			}
		}
	}()
	if err != nil {
		return err
	}

	runner, err := pipeline.NewRunner(pagination.NewClientFetcher(f1Client), sinks, pipeline.Config{
		Season:   cfg.Season,
		PageSize: cfg.PageSize,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("run_id", runner.RunID()).
		Str("season", cfg.Season).
		Strs("endpoints", names).
		Str("base_url", cfg.API.BaseURL).
		Msg("Starting F1 ETL")

	summary, runErr := runner.Run(ctx, names)

	pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metrics.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, runner.RunID()); err != nil {
		logger.Warn().Err(err).Msg("Failed to push metrics")
	}

	if runErr != nil {
		return runErr
	}

	logger.Info().
		Str("run_id", summary.RunID).
		Int("endpoints", len(summary.Endpoints)).
		Int("rows", summary.Rows()).
		Dur("duration", summary.Duration).
		Str("destinations", strings.Join(locations, " | ")).
		Msg("Done")

	return nil
}

// openSinks opens the configured sinks in write order: table, CSV, Mongo.
// On error it returns the sinks opened so far so the caller can close them.
func openSinks(ctx context.Context, cfg *config.Config) ([]sink.Sink, []string, error) {
	var (
		sinks     []sink.Sink
		locations []string
	)

	if cfg.Database.Driver != "" {
		s, err := sink.OpenSQL(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return sinks, locations, err
		}
		sinks = append(sinks, s)
		if err := s.Ping(ctx); err != nil {
			return sinks, locations, fmt.Errorf("connect %s: %w", cfg.Database.Driver, err)
		}
		locations = append(locations, "database: "+s.Location())
	}

	if cfg.CSV.Dir != "" {
		s, err := sink.NewCSVSink(cfg.CSV.Dir)
		if err != nil {
			return sinks, locations, err
		}
		sinks = append(sinks, s)
		locations = append(locations, "CSVs in: "+s.Dir())
	}

	if cfg.Mongo.URI != "" {
		s, err := sink.OpenMongo(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return sinks, locations, err
		}
		sinks = append(sinks, s)
		if err := s.Ping(ctx); err != nil {
			return sinks, locations, fmt.Errorf("connect mongo: %w", err)
		}
		locations = append(locations, "mongo database: "+cfg.Mongo.Database)
	}

	return sinks, locations, nil
}
