// Package warehouse implements the two-tier earthquake store.
//
// Layers:
//   - Bronze: append-mostly raw observations, deduplicated by a SHA-256
//     content hash with a UNIQUE constraint as the authoritative guard
//   - Silver: one current record per physical event, grouped by the
//     (date, time, latitude, longitude, depth, location) identity tuple
//     and overwritten when a newer or materially revised reading arrives
//
// The Warehouse orchestrator owns the connection pool and both layers,
// creates the backing schemas on construction, and exposes the combined
// ingest call. All operations run one transaction per call: any failure
// rolls back the call's pending writes in full.
package warehouse
