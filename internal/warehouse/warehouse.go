package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/aydink/quake-data/internal/config"
	"github.com/aydink/quake-data/internal/database"
	"github.com/aydink/quake-data/internal/model"
	"github.com/aydink/quake-data/internal/observability"
)

// Warehouse composes the bronze and silver layers into a single ingestion
// call and owns the connection pool's lifetime.
type Warehouse struct {
	db      *pgxpool.Pool
	bronze  *Bronze
	silver  *Silver
	logger  *slog.Logger
	clock   clockwork.Clock
	metrics *observability.Metrics
	closed  atomic.Bool
}

// Option configures a Warehouse.
type Option func(*Warehouse)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Warehouse) {
		w.logger = logger
	}
}

// WithClock sets the time source used for ingestion timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(w *Warehouse) {
		w.clock = clock
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(w *Warehouse) {
		w.metrics = m
	}
}

// New connects the pool, ensures the backing schemas and tables exist, and
// constructs both layers. The returned Warehouse owns the pool; layers never
// outlive it.
func New(ctx context.Context, cfg config.DBConfig, opts ...Option) (*Warehouse, error) {
	w := &Warehouse{
		logger:  slog.Default(),
		clock:   clockwork.NewRealClock(),
		metrics: observability.NewUnregisteredMetrics(),
	}
	for _, opt := range opts {
		opt(w)
	}

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("warehouse: %w: %w", ErrConnection, err)
	}

	if err := createSchemas(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("warehouse: %w", err)
	}
	w.logger.Info("database schemas and tables ready")

	w.db = pool
	w.bronze = NewBronze(pool, w.logger, w.clock, w.metrics)
	w.silver = NewSilver(pool, w.logger, w.metrics)
	return w, nil
}

// Ingest runs the full pipeline: bronze dedup insert, then the silver
// regroup-and-merge pass. An empty input returns zeroed stats without
// touching storage. Failures carry the layer and stage that produced them;
// partial success in one layer is never reported as overall success.
func (w *Warehouse) Ingest(ctx context.Context, observations []model.Observation) (model.IngestStats, error) {
	var stats model.IngestStats
	if w.closed.Load() {
		return stats, fmt.Errorf("ingest: %w", ErrClosed)
	}
	if len(observations) == 0 {
		w.logger.Warn("no observations to ingest")
		return stats, nil
	}

	runID := uuid.NewString()
	logger := w.logger.With("run_id", runID)
	start := w.clock.Now()

	logger.Info("starting ingestion", "observations", len(observations))

	bronzeStats, err := w.bronze.Insert(ctx, observations)
	if err != nil {
		return model.IngestStats{}, fmt.Errorf("ingest %s: bronze layer: %w", runID, err)
	}
	stats.Bronze = bronzeStats

	silverStats, err := w.silver.ProcessFromBronze(ctx)
	if err != nil {
		return model.IngestStats{}, fmt.Errorf("ingest %s: silver layer: %w", runID, err)
	}
	stats.Silver = silverStats

	w.metrics.IngestDuration.Observe(w.clock.Since(start).Seconds())
	logger.Info("ingestion completed",
		"bronze_inserted", stats.Bronze.Inserted,
		"bronze_duplicates", stats.Bronze.Duplicates,
		"silver_processed", stats.Silver.Processed,
		"silver_new", stats.Silver.New,
		"silver_updated", stats.Silver.Updated,
	)
	return stats, nil
}

// LatestEarthquakes returns the current silver records, most recent event
// first. A limit <= 0 returns all rows.
func (w *Warehouse) LatestEarthquakes(ctx context.Context, limit int) ([]model.SilverRecord, error) {
	if w.closed.Load() {
		return nil, fmt.Errorf("latest earthquakes: %w", ErrClosed)
	}
	return w.silver.Latest(ctx, limit)
}

// LatestRaw returns the most recently ingested bronze records. A limit <= 0
// returns all rows.
func (w *Warehouse) LatestRaw(ctx context.Context, limit int) ([]model.BronzeRecord, error) {
	if w.closed.Load() {
		return nil, fmt.Errorf("latest raw: %w", ErrClosed)
	}
	return w.bronze.Latest(ctx, limit)
}

// Ping verifies the pool is healthy.
func (w *Warehouse) Ping(ctx context.Context) error {
	if w.closed.Load() {
		return fmt.Errorf("ping: %w", ErrClosed)
	}
	if err := w.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w: %w", ErrConnection, err)
	}
	return nil
}

// Close releases every pooled connection. Safe to call more than once;
// operations after Close fail with ErrClosed.
func (w *Warehouse) Close() {
	if w.closed.CompareAndSwap(false, true) {
		w.db.Close()
		w.logger.Info("all database connections closed")
	}
}
