// Package model defines shared data types for the earthquake warehouse.
//
// All types mirror the database schema: bronze.earthquakes holds raw
// observations deduplicated by content hash, silver.earthquakes holds one
// current record per physical event.
//
// Conventions:
//   - Magnitudes: *float64, nil when the source reported no reading
//   - Timestamps: time.Time in UTC
//   - Observations are immutable values; updates construct new values
package model
