package warehouse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/aydink/quake-data/internal/model"
	"github.com/aydink/quake-data/internal/observability"
)

// Bronze is the raw layer: observations deduplicated by content hash,
// never updated, never deleted.
type Bronze struct {
	db      *pgxpool.Pool
	logger  *slog.Logger
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewBronze creates the bronze layer over a shared pool. Nil collaborators
// fall back to working defaults.
func NewBronze(db *pgxpool.Pool, logger *slog.Logger, clock clockwork.Clock, metrics *observability.Metrics) *Bronze {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if metrics == nil {
		metrics = observability.NewUnregisteredMetrics()
	}
	return &Bronze{
		db:      db,
		logger:  logger,
		clock:   clock,
		metrics: metrics,
	}
}

const bronzeInsertSQL = `
	INSERT INTO bronze.earthquakes
		(date, time, latitude, longitude, depth, magnitude_md, magnitude_ml, magnitude_mw,
		 location, quality, datetime_utc, inserted_at, row_hash)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

// Insert writes a batch of observations, skipping any whose content hash is
// already stored. The whole batch runs in one transaction: the dedup check
// sees rows committed by prior calls plus earlier rows of this call, and any
// failure rolls back every pending row. The UNIQUE constraint on row_hash is
// the authoritative guard against a concurrent insert racing on the same
// hash; such a race surfaces as ErrConstraint.
func (b *Bronze) Insert(ctx context.Context, observations []model.Observation) (model.BronzeStats, error) {
	var stats model.BronzeStats
	if len(observations) == 0 {
		b.logger.Warn("no observations to insert")
		return stats, nil
	}

	tx, err := b.db.Begin(ctx)
	if err != nil {
		return model.BronzeStats{}, fmt.Errorf("bronze insert: begin: %w: %w", ErrConnection, err)
	}
	defer tx.Rollback(ctx)

	// One ingestion timestamp per batch, matching per-call atomicity.
	insertedAt := b.clock.Now().UTC()

	for _, obs := range observations {
		rowHash := obs.RowHash()

		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM bronze.earthquakes WHERE row_hash = $1)`,
			rowHash,
		).Scan(&exists)
		if err != nil {
			return model.BronzeStats{}, classify("bronze insert: dedup check", err)
		}

		if exists {
			b.logger.Debug("duplicate observation skipped",
				"location", obs.Location,
				"datetime_utc", obs.DateTimeUTC,
			)
			stats.Duplicates++
			continue
		}

		_, err = tx.Exec(ctx, bronzeInsertSQL,
			obs.Date, obs.Time, obs.Latitude, obs.Longitude, obs.Depth,
			obs.MagnitudeMD, obs.MagnitudeML, obs.MagnitudeMW,
			obs.Location, obs.Quality, obs.DateTimeUTC,
			insertedAt, rowHash,
		)
		if err != nil {
			return model.BronzeStats{}, classify("bronze insert", err)
		}
		stats.Inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return model.BronzeStats{}, classify("bronze insert: commit", err)
	}

	b.metrics.BronzeInserted.Add(float64(stats.Inserted))
	b.metrics.BronzeDuplicates.Add(float64(stats.Duplicates))
	b.logger.Info("bronze layer insert complete",
		"inserted", stats.Inserted,
		"duplicates", stats.Duplicates,
	)
	return stats, nil
}

// Latest returns bronze records ordered by insertion time, most recent
// first. A limit <= 0 returns all rows.
func (b *Bronze) Latest(ctx context.Context, limit int) ([]model.BronzeRecord, error) {
	sql := `
		SELECT date, time, latitude, longitude, depth,
		       magnitude_md, magnitude_ml, magnitude_mw,
		       location, quality, datetime_utc, inserted_at, row_hash
		FROM bronze.earthquakes
		ORDER BY inserted_at DESC`

	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = b.db.Query(ctx, sql+" LIMIT $1", limit)
	} else {
		rows, err = b.db.Query(ctx, sql)
	}
	if err != nil {
		return nil, classify("bronze latest", err)
	}

	return scanBronzeRecords(rows)
}

func scanBronzeRecords(rows pgx.Rows) ([]model.BronzeRecord, error) {
	defer rows.Close()

	var records []model.BronzeRecord
	for rows.Next() {
		var rec model.BronzeRecord
		err := rows.Scan(
			&rec.Date, &rec.Time, &rec.Latitude, &rec.Longitude, &rec.Depth,
			&rec.MagnitudeMD, &rec.MagnitudeML, &rec.MagnitudeMW,
			&rec.Location, &rec.Quality, &rec.DateTimeUTC,
			&rec.InsertedAt, &rec.RowHash,
		)
		if err != nil {
			return nil, classify("bronze scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("bronze scan", err)
	}
	return records, nil
}
