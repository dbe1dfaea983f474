package warehouse

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds surfaced by the warehouse. Callers match with errors.Is.
// The warehouse never retries internally; retry policy belongs to the caller.
var (
	// ErrConnection means the pool could not produce a usable connection.
	ErrConnection = errors.New("connection error")

	// ErrTransaction means a batch failed and was rolled back in full.
	ErrTransaction = errors.New("transaction error")

	// ErrConstraint means a uniqueness constraint fired unexpectedly: either
	// a fingerprint collision or a dedup check raced a concurrent writer.
	ErrConstraint = errors.New("constraint violation")

	// ErrClosed means the warehouse was already shut down.
	ErrClosed = errors.New("warehouse is closed")
)

// PostgreSQL error code for unique_violation.
const uniqueViolationCode = "23505"

// classify wraps a database error with its kind and the stage it occurred in.
// Unique violations are surfaced as ErrConstraint rather than swallowed.
func classify(stage string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%s: %w: %w", stage, ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w: %w", stage, ErrTransaction, err)
}
