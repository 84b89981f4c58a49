package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tickwire/dukas-data/internal/config"
	"github.com/tickwire/dukas-data/internal/database"
	"github.com/tickwire/dukas-data/internal/export"
	"github.com/tickwire/dukas-data/internal/feed"
	"github.com/tickwire/dukas-data/internal/fetch"
	"github.com/tickwire/dukas-data/internal/instrument"
	"github.com/tickwire/dukas-data/internal/model"
	"github.com/tickwire/dukas-data/internal/segment"
	"github.com/tickwire/dukas-data/internal/version"
	"github.com/tickwire/dukas-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	symbol := flag.String("symbol", "", "instrument symbol, e.g. EURUSD")
	from := flag.String("from", "", "range start (RFC3339, 2006-01-02T15:04, or 2006-01-02)")
	to := flag.String("to", "", "range end (same layouts as -from)")
	concurrency := flag.Int("concurrency", 0, "parallel segment fetches (0 = config default)")
	failFast := flag.Bool("fail-fast", false, "abort on the first failed hour")
	format := flag.String("format", "", "output format: jsonl, csv, parquet, or archive")
	out := flag.String("out", "", "output file path (default derived from symbol and range)")
	overlay := flag.String("instruments", "", "instrument overlay file (optional)")
	verbose := flag.Bool("v", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting tickfetch",
		"version", version.Version,
		"commit", version.Commit,
	)

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *symbol == "" {
		logger.Error("missing required flag -symbol")
		flag.Usage()
		os.Exit(2)
	}
	timeRange, err := parseRange(*from, *to)
	if err != nil {
		logger.Error("invalid time range", "error", err)
		os.Exit(2)
	}

	outputFormat := cfg.Export.Format
	if *format != "" {
		outputFormat = *format
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Build the instrument table, with the overlay when one is configured
	overlayPath := cfg.Instruments.OverlayPath
	if *overlay != "" {
		overlayPath = *overlay
	}
	table, err := loadInstruments(overlayPath)
	if err != nil {
		logger.Error("failed to load instruments", "error", err)
		os.Exit(1)
	}

	// Assemble the collection pipeline
	fetcher := fetch.New(
		fetch.WithTransport(&fetch.HTTPTransport{Client: &http.Client{}}),
		fetch.WithPolicy(fetch.Policy{
			MaxAttempts: cfg.Fetch.MaxAttempts,
			BaseDelay:   cfg.Fetch.BaseDelay,
			MaxDelay:    cfg.Fetch.MaxDelay,
		}),
		fetch.WithAttemptTimeout(cfg.Fetch.AttemptTimeout),
		fetch.WithLogger(logger),
	)
	svc := feed.New(
		feed.WithAddresser(segment.NewAddresser(cfg.Fetch.BaseURL, table)),
		feed.WithFetcher(fetcher),
		feed.WithLogger(logger),
		feed.WithConcurrency(cfg.Feed.Concurrency),
	)

	series, err := svc.Collect(ctx, feed.Request{
		Symbol:      *symbol,
		Range:       timeRange,
		Concurrency: *concurrency,
		FailFast:    *failFast || cfg.Feed.FailFast,
	})
	if err != nil {
		logger.Error("collection failed", "error", err)
		os.Exit(1)
	}

	if failed := series.FailedGaps(); len(failed) > 0 {
		logger.Warn("series has failed hours", "count", len(failed))
	}

	if outputFormat == "archive" {
		if err := archiveSeries(ctx, cfg, series, logger); err != nil {
			logger.Error("archive failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sink, err := export.NewSink(outputFormat)
	if err != nil {
		logger.Error("invalid output format", "error", err)
		os.Exit(2)
	}
	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(cfg.Export.OutDir, export.FileName(series, sink.Extension()))
	}
	if err := sink.Write(series, outPath); err != nil {
		logger.Error("export failed", "error", err, "path", outPath)
		os.Exit(1)
	}

	logger.Info("export complete",
		"path", outPath,
		"format", sink.Extension(),
		"ticks", series.Len(),
		"gaps", len(series.Gaps),
	)
}

// loadConfig reads the config file, or falls back to defaults when no path
// was given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadAndValidate(path)
}

// loadInstruments builds the instrument table, merging an overlay file over
// the built-in list when a path is set.
func loadInstruments(overlayPath string) (*instrument.Table, error) {
	if overlayPath == "" {
		return instrument.Builtin(), nil
	}
	return instrument.Load(overlayPath)
}

// parseRange parses the -from and -to flags. Both are required.
func parseRange(from, to string) (model.TimeRange, error) {
	if from == "" || to == "" {
		return model.TimeRange{}, fmt.Errorf("both -from and -to are required")
	}
	start, err := parseTime(from)
	if err != nil {
		return model.TimeRange{}, fmt.Errorf("parse -from: %w", err)
	}
	end, err := parseTime(to)
	if err != nil {
		return model.TimeRange{}, fmt.Errorf("parse -to: %w", err)
	}
	r := model.TimeRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return model.TimeRange{}, err
	}
	return r, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// archiveSeries writes the collected ticks to the archive database.
func archiveSeries(ctx context.Context, cfg *config.Config, series *model.TickSeries, logger *slog.Logger) error {
	if cfg.Database.Archive.Host == "" {
		return fmt.Errorf("archive output requires database.archive in the config")
	}

	logger.Info("connecting to archive",
		"host", cfg.Database.Archive.Host,
		"port", cfg.Database.Archive.Port,
		"database", cfg.Database.Archive.Name,
	)
	archive, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer archive.Close()

	if err := archive.EnsureSchema(ctx); err != nil {
		return err
	}

	w := writer.NewTickWriter(writer.Config{
		BatchSize:     cfg.Writer.BatchSize,
		FlushInterval: cfg.Writer.FlushInterval,
		BufferSize:    cfg.Writer.BufferSize,
	}, archive.Pool, logger)

	if err := w.Start(ctx); err != nil {
		return err
	}
	if _, err := w.Enqueue(ctx, series.Symbol, series.Ticks); err != nil {
		return err
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := w.Stop(stopCtx); err != nil {
		return err
	}

	stats := w.Stats()
	logger.Info("archive complete",
		"inserts", stats.Inserts,
		"conflicts", stats.Conflicts,
		"flushes", stats.Flushes,
	)
	if stats.Errors > 0 {
		return fmt.Errorf("archive finished with %d failed batches", stats.Errors)
	}
	return nil
}
