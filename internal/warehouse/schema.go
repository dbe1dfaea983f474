package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements creates both layers' schemas, tables, and indexes.
// Every statement is idempotent, so construction is safe to repeat.
var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS bronze`,
	`CREATE SCHEMA IF NOT EXISTS silver`,

	`CREATE TABLE IF NOT EXISTS bronze.earthquakes (
		id SERIAL PRIMARY KEY,
		date VARCHAR(20) NOT NULL,
		time VARCHAR(20) NOT NULL,
		latitude DECIMAL(10,6) NOT NULL,
		longitude DECIMAL(10,6) NOT NULL,
		depth DECIMAL(8,3) NOT NULL,
		magnitude_md DECIMAL(4,2),
		magnitude_ml DECIMAL(4,2),
		magnitude_mw DECIMAL(4,2),
		location TEXT NOT NULL,
		quality VARCHAR(50) NOT NULL,
		datetime_utc TIMESTAMP NOT NULL,
		inserted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		row_hash VARCHAR(64) NOT NULL UNIQUE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bronze_datetime_utc
		ON bronze.earthquakes (datetime_utc)`,
	`CREATE INDEX IF NOT EXISTS idx_bronze_inserted_at
		ON bronze.earthquakes (inserted_at)`,

	`CREATE TABLE IF NOT EXISTS silver.earthquakes (
		id SERIAL PRIMARY KEY,
		date VARCHAR(20) NOT NULL,
		time VARCHAR(20) NOT NULL,
		latitude DECIMAL(10,6) NOT NULL,
		longitude DECIMAL(10,6) NOT NULL,
		depth DECIMAL(8,3) NOT NULL,
		magnitude_md DECIMAL(4,2),
		magnitude_ml DECIMAL(4,2),
		magnitude_mw DECIMAL(4,2),
		location TEXT NOT NULL,
		quality VARCHAR(50) NOT NULL,
		datetime_utc TIMESTAMP NOT NULL,
		latest_inserted_at TIMESTAMP NOT NULL,
		is_latest_revision BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_silver_earthquake_unique
		ON silver.earthquakes (date, time, latitude, longitude, depth, location)`,
}

// createSchemas ensures the backing schemas, tables, and indexes exist.
// Runs in one transaction so a partial layout is never left behind.
func createSchemas(ctx context.Context, db *pgxpool.Pool) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create schemas: begin: %w: %w", ErrConnection, err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return classify("create schemas", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return classify("create schemas: commit", err)
	}
	return nil
}
