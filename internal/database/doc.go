// Package database provides connection pool management for PostgreSQL.
//
// The warehouse keeps two relational schemas in one database:
//   - bronze: raw observations deduplicated by content hash
//   - silver: one current record per physical earthquake
//
// A single pgxpool.Pool is shared by both layers.
package database
