package model

import "time"

// Observation is a single validated earthquake reading as reported by the
// KOERI list page. It carries no identity beyond its field values.
type Observation struct {
	Date        string     // source date string (e.g. "2025.01.15")
	Time        string     // source time string (e.g. "14:30:25")
	Latitude    float64
	Longitude   float64
	Depth       float64    // km
	MagnitudeMD *float64   // duration magnitude, nil if not reported
	MagnitudeML *float64   // local magnitude, nil if not reported
	MagnitudeMW *float64   // moment magnitude, nil if not reported
	Location    string
	Quality     string     // solution quality (e.g. "İlksel", "REVIZE01")
	DateTimeUTC time.Time  // derived from Date + Time
}

// EventKey identifies a physical earthquake. Two observations sharing a key
// are revisions of the same event.
type EventKey struct {
	Date      string
	Time      string
	Latitude  float64
	Longitude float64
	Depth     float64
	Location  string
}

// Key returns the observation's event identity.
func (o Observation) Key() EventKey {
	return EventKey{
		Date:      o.Date,
		Time:      o.Time,
		Latitude:  o.Latitude,
		Longitude: o.Longitude,
		Depth:     o.Depth,
		Location:  o.Location,
	}
}

// BronzeRecord is a raw-layer row: an observation plus ingestion metadata.
// Bronze rows are never updated or deleted.
type BronzeRecord struct {
	Observation

	InsertedAt time.Time
	RowHash    string
}

// SilverRecord is the current state of one physical event.
type SilverRecord struct {
	Observation

	LatestInsertedAt time.Time
	IsLatestRevision bool // always true: the table holds no history
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BronzeStats reports the outcome of one bronze insert call.
type BronzeStats struct {
	Inserted   int
	Duplicates int
}

// SilverStats reports the outcome of one silver merge pass.
type SilverStats struct {
	Processed int // event groups seen
	New       int
	Updated   int
}

// IngestStats combines both layers' stats for one ingestion run.
type IngestStats struct {
	Bronze BronzeStats
	Silver SilverStats
}
