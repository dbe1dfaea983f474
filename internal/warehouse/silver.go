package warehouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aydink/quake-data/internal/model"
	"github.com/aydink/quake-data/internal/observability"
)

// revisionThreshold is the minimum absolute ml-magnitude change treated as a
// real correction rather than floating-point noise or formatting jitter.
const revisionThreshold = 0.05

// Silver is the derived layer: one current record per physical event,
// rebuilt from the full bronze history on every merge pass.
type Silver struct {
	db      *pgxpool.Pool
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSilver creates the silver layer over a shared pool. Nil collaborators
// fall back to working defaults.
func NewSilver(db *pgxpool.Pool, logger *slog.Logger, metrics *observability.Metrics) *Silver {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewUnregisteredMetrics()
	}
	return &Silver{
		db:      db,
		logger:  logger,
		metrics: metrics,
	}
}

const (
	silverSelectSQL = `
		SELECT id, latest_inserted_at, magnitude_ml
		FROM silver.earthquakes
		WHERE date = $1 AND time = $2 AND latitude = $3 AND longitude = $4
		  AND depth = $5 AND location = $6`

	silverInsertSQL = `
		INSERT INTO silver.earthquakes
			(date, time, latitude, longitude, depth, magnitude_md, magnitude_ml, magnitude_mw,
			 location, quality, datetime_utc, latest_inserted_at, is_latest_revision)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE)`

	silverUpdateSQL = `
		UPDATE silver.earthquakes
		SET magnitude_md = $1, magnitude_ml = $2, magnitude_mw = $3,
		    quality = $4, latest_inserted_at = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6`
)

// ProcessFromBronze recomputes the silver layer from the full bronze
// history: records are grouped by event identity, each group's most recently
// inserted record becomes the candidate, and the stored row is overwritten
// when the candidate is strictly newer or carries a meaningful ml-magnitude
// change. The pass is idempotent over unchanged bronze data and runs in one
// transaction. It is not safe to run two passes concurrently: both would
// read, decide, and write the same silver rows without row-level locking.
func (s *Silver) ProcessFromBronze(ctx context.Context) (model.SilverStats, error) {
	var stats model.SilverStats

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return model.SilverStats{}, fmt.Errorf("silver process: begin: %w: %w", ErrConnection, err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT date, time, latitude, longitude, depth,
		       magnitude_md, magnitude_ml, magnitude_mw,
		       location, quality, datetime_utc, inserted_at, row_hash
		FROM bronze.earthquakes
		ORDER BY datetime_utc, inserted_at`)
	if err != nil {
		return model.SilverStats{}, classify("silver process: load bronze", err)
	}
	records, err := scanBronzeRecords(rows)
	if err != nil {
		return model.SilverStats{}, err
	}

	for _, group := range groupByEvent(records) {
		candidate := pickCandidate(group.records)

		if err := s.mergeCandidate(ctx, tx, candidate, &stats); err != nil {
			return model.SilverStats{}, err
		}
		stats.Processed++
	}

	if err := tx.Commit(ctx); err != nil {
		return model.SilverStats{}, classify("silver process: commit", err)
	}

	s.metrics.SilverNew.Add(float64(stats.New))
	s.metrics.SilverUpdated.Add(float64(stats.Updated))
	s.logger.Info("silver layer processing complete",
		"processed", stats.Processed,
		"new", stats.New,
		"updated", stats.Updated,
	)
	return stats, nil
}

// mergeCandidate applies one event group's candidate to the silver table.
func (s *Silver) mergeCandidate(ctx context.Context, tx pgx.Tx, candidate model.BronzeRecord, stats *model.SilverStats) error {
	key := candidate.Key()

	var (
		id               int64
		latestInsertedAt time.Time
		existingML       *float64
	)
	err := tx.QueryRow(ctx, silverSelectSQL,
		key.Date, key.Time, key.Latitude, key.Longitude, key.Depth, key.Location,
	).Scan(&id, &latestInsertedAt, &existingML)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err := tx.Exec(ctx, silverInsertSQL,
			candidate.Date, candidate.Time, candidate.Latitude, candidate.Longitude, candidate.Depth,
			candidate.MagnitudeMD, candidate.MagnitudeML, candidate.MagnitudeMW,
			candidate.Location, candidate.Quality, candidate.DateTimeUTC,
			candidate.InsertedAt,
		)
		if err != nil {
			return classify("silver insert", err)
		}
		stats.New++

	case err != nil:
		return classify("silver process: lookup", err)

	default:
		isNewer := candidate.InsertedAt.After(latestInsertedAt)
		isRevision := isMagnitudeRevision(existingML, candidate.MagnitudeML)
		if !isNewer && !isRevision {
			return nil
		}

		_, err := tx.Exec(ctx, silverUpdateSQL,
			candidate.MagnitudeMD, candidate.MagnitudeML, candidate.MagnitudeMW,
			candidate.Quality, candidate.InsertedAt, id,
		)
		if err != nil {
			return classify("silver update", err)
		}
		stats.Updated++

		if isRevision {
			// Operationally significant: a magnitude was corrected after the
			// initial report.
			s.metrics.RevisionsFlagged.Inc()
			s.logger.Info("magnitude revision detected",
				"location", candidate.Location,
				"datetime_utc", candidate.DateTimeUTC,
				"old_ml", magnitudeString(existingML),
				"new_ml", magnitudeString(candidate.MagnitudeML),
			)
		} else {
			s.logger.Debug("updated earthquake revision",
				"location", candidate.Location,
				"datetime_utc", candidate.DateTimeUTC,
			)
		}
	}
	return nil
}

// Latest returns current silver records ordered by event time, most recent
// first. A limit <= 0 returns all rows.
func (s *Silver) Latest(ctx context.Context, limit int) ([]model.SilverRecord, error) {
	sql := `
		SELECT date, time, latitude, longitude, depth,
		       magnitude_md, magnitude_ml, magnitude_mw,
		       location, quality, datetime_utc,
		       latest_inserted_at, is_latest_revision, created_at, updated_at
		FROM silver.earthquakes
		WHERE is_latest_revision = TRUE
		ORDER BY datetime_utc DESC`

	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.Query(ctx, sql+" LIMIT $1", limit)
	} else {
		rows, err = s.db.Query(ctx, sql)
	}
	if err != nil {
		return nil, classify("silver latest", err)
	}
	defer rows.Close()

	var records []model.SilverRecord
	for rows.Next() {
		var rec model.SilverRecord
		err := rows.Scan(
			&rec.Date, &rec.Time, &rec.Latitude, &rec.Longitude, &rec.Depth,
			&rec.MagnitudeMD, &rec.MagnitudeML, &rec.MagnitudeMW,
			&rec.Location, &rec.Quality, &rec.DateTimeUTC,
			&rec.LatestInsertedAt, &rec.IsLatestRevision, &rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, classify("silver scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("silver scan", err)
	}
	return records, nil
}

// eventGroup collects the bronze records of one physical event.
type eventGroup struct {
	key     model.EventKey
	records []model.BronzeRecord
}

// groupByEvent groups bronze records by event identity, preserving the
// first-seen order of keys so merge passes are deterministic.
func groupByEvent(records []model.BronzeRecord) []eventGroup {
	index := make(map[model.EventKey]int, len(records))
	groups := make([]eventGroup, 0, len(records))

	for _, rec := range records {
		key := rec.Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, eventGroup{key: key})
		}
		groups[i].records = append(groups[i].records, rec)
	}
	return groups
}

// pickCandidate returns the group's most recently inserted record. Records
// inserted in the same batch share a timestamp; ties keep the record seen
// last in load order.
func pickCandidate(records []model.BronzeRecord) model.BronzeRecord {
	candidate := records[0]
	for _, rec := range records[1:] {
		if !rec.InsertedAt.Before(candidate.InsertedAt) {
			candidate = rec
		}
	}
	return candidate
}

// isMagnitudeRevision reports whether two ml readings differ meaningfully:
// one present and the other absent, or both present with an absolute
// difference above the threshold. Smaller deltas are treated as noise.
func isMagnitudeRevision(existing, candidate *float64) bool {
	if existing == nil && candidate == nil {
		return false
	}
	if existing == nil || candidate == nil {
		return true
	}
	return math.Abs(*existing-*candidate) > revisionThreshold
}

func magnitudeString(v *float64) string {
	if v == nil {
		return "none"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
