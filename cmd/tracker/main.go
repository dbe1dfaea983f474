package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aydink/quake-data/internal/config"
	"github.com/aydink/quake-data/internal/export"
	"github.com/aydink/quake-data/internal/model"
	"github.com/aydink/quake-data/internal/observability"
	"github.com/aydink/quake-data/internal/scraper"
	"github.com/aydink/quake-data/internal/version"
	"github.com/aydink/quake-data/internal/warehouse"
)

func main() {
	configPath := flag.String("config", "configs/tracker.local.yaml", "path to config file")
	showLatest := flag.Int("show-latest", 0, "print the latest N bronze and silver records and exit")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if err := run(logger, *configPath, *showLatest); err != nil {
		logger.Error("tracker failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath string, showLatest int) error {
	logger.Info("starting tracker",
		"version", version.String(),
		"config", configPath,
	)

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"source_url", cfg.Scraper.BaseURL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()

	if showLatest == 0 {
		// Metrics server runs for the lifetime of the process so a scrape
		// during a long ingest still lands.
		metricsServer := startMetricsServer(cfg.Metrics, logger)
		defer shutdownMetricsServer(metricsServer, logger)
	}

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	wh, err := warehouse.New(ctx, cfg.Database,
		warehouse.WithLogger(logger),
		warehouse.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("open warehouse: %w", err)
	}
	defer wh.Close()

	logger.Info("database connected")

	if showLatest > 0 {
		return showLatestRecords(ctx, wh, showLatest)
	}

	client := scraper.NewClient(cfg.Scraper.BaseURL,
		scraper.WithTimeout(cfg.Scraper.Timeout),
		scraper.WithRetries(cfg.Scraper.MaxRetries, cfg.Scraper.RetryDelay),
		scraper.WithUserAgent(cfg.Scraper.UserAgent),
		scraper.WithLogger(logger),
	)

	page, err := client.Fetch(ctx)
	if err != nil {
		metrics.ScrapeFailures.Inc()
		return fmt.Errorf("fetch earthquake list: %w", err)
	}

	observations := scraper.NewParser(logger).Parse(page)
	metrics.ObservationsScraped.Add(float64(len(observations)))
	if len(observations) == 0 {
		logger.Warn("no observations parsed, nothing to ingest")
		return nil
	}

	stats, err := wh.Ingest(ctx, observations)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	logger.Info("ingestion summary",
		"bronze_inserted", stats.Bronze.Inserted,
		"bronze_duplicates", stats.Bronze.Duplicates,
		"silver_new", stats.Silver.New,
		"silver_updated", stats.Silver.Updated,
	)

	if err := exportSnapshots(cfg.Export, observations, logger); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	return nil
}

// showLatestRecords prints both layers' most recent records, the manual
// check used after pointing the tracker at a database.
func showLatestRecords(ctx context.Context, wh *warehouse.Warehouse, limit int) error {
	if err := wh.Ping(ctx); err != nil {
		return err
	}

	raw, err := wh.LatestRaw(ctx, limit)
	if err != nil {
		return fmt.Errorf("latest raw: %w", err)
	}
	fmt.Printf("bronze.earthquakes: %d most recent rows\n", len(raw))
	for _, rec := range raw {
		fmt.Printf("  %s %s  ML %s  %-40s  inserted %s\n",
			rec.Date, rec.Time, displayMagnitude(rec.MagnitudeML),
			rec.Location, rec.InsertedAt.Format(time.RFC3339))
	}

	current, err := wh.LatestEarthquakes(ctx, limit)
	if err != nil {
		return fmt.Errorf("latest earthquakes: %w", err)
	}
	fmt.Printf("silver.earthquakes: %d current records\n", len(current))
	for _, rec := range current {
		fmt.Printf("  %s %s  ML %s  %-40s  last revised %s\n",
			rec.Date, rec.Time, displayMagnitude(rec.MagnitudeML),
			rec.Location, rec.LatestInsertedAt.Format(time.RFC3339))
	}
	return nil
}

// displayMagnitude renders an absent magnitude the way the source list does.
func displayMagnitude(v *float64) string {
	if v == nil {
		return "-.-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

// startMetricsServer serves Prometheus metrics and a liveness endpoint.
func startMetricsServer(cfg config.MetricsConfig, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	go func() {
		logger.Info("starting metrics server", "port", cfg.Port, "path", cfg.Path)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()

	return srv
}

func shutdownMetricsServer(srv *http.Server, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown timed out", "error", err)
	}
}

// exportSnapshots writes the scraped observations to the configured formats.
func exportSnapshots(cfg config.ExportConfig, observations []model.Observation, logger *slog.Logger) error {
	if slices.Contains(cfg.Formats, "csv") {
		path := filepath.Join(cfg.OutputDir, "earthquakes.csv")
		if err := export.WriteCSV(path, observations); err != nil {
			return err
		}
		logger.Info("exported csv snapshot", "path", path, "observations", len(observations))
	}

	if slices.Contains(cfg.Formats, "json") {
		path := filepath.Join(cfg.OutputDir, "earthquakes.json")
		if err := export.WriteJSON(path, observations); err != nil {
			return err
		}
		logger.Info("exported json snapshot", "path", path, "observations", len(observations))
	}

	return nil
}
