package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func sampleObservation() Observation {
	return Observation{
		Date:        "2025.01.15",
		Time:        "14:30:25",
		Latitude:    38.4237,
		Longitude:   27.1428,
		Depth:       7.2,
		MagnitudeMD: nil,
		MagnitudeML: ptr(4.1),
		MagnitudeMW: nil,
		Location:    "IZMIR KORFEZI (EGE DENIZI)",
		Quality:     "İlksel",
		DateTimeUTC: time.Date(2025, 1, 15, 14, 30, 25, 0, time.UTC),
	}
}

func TestRowHash_Deterministic(t *testing.T) {
	obs := sampleObservation()

	first := obs.RowHash()
	second := obs.RowHash()

	require.Len(t, first, 64)
	assert.Equal(t, first, second)

	// A structurally independent copy with the same field values must hash
	// identically: the fingerprint depends on content only.
	copied := sampleObservation()
	assert.Equal(t, first, copied.RowHash())
}

func TestRowHash_KnownValue(t *testing.T) {
	// Pins the canonical serialization. If this test breaks, previously
	// stored bronze rows will no longer deduplicate against new ingests.
	obs := sampleObservation()
	assert.Equal(t,
		"0cac302bbeac3d5a6ae39278a67a75aef8307250ab08516eaab452043ac39fb7",
		obs.RowHash())
}

func TestRowHash_SensitiveToEveryField(t *testing.T) {
	base := sampleObservation()
	baseHash := base.RowHash()

	mutations := map[string]func(o Observation) Observation{
		"date":         func(o Observation) Observation { o.Date = "2025.01.16"; return o },
		"time":         func(o Observation) Observation { o.Time = "14:30:26"; return o },
		"latitude":     func(o Observation) Observation { o.Latitude = 38.4238; return o },
		"longitude":    func(o Observation) Observation { o.Longitude = 27.1429; return o },
		"depth":        func(o Observation) Observation { o.Depth = 7.3; return o },
		"magnitude_md": func(o Observation) Observation { o.MagnitudeMD = ptr(3.9); return o },
		"magnitude_ml": func(o Observation) Observation { o.MagnitudeML = ptr(4.2); return o },
		"magnitude_mw": func(o Observation) Observation { o.MagnitudeMW = ptr(4.0); return o },
		"location":     func(o Observation) Observation { o.Location = "ANKARA"; return o },
		"quality":      func(o Observation) Observation { o.Quality = "REVIZE01"; return o },
		"datetime_utc": func(o Observation) Observation {
			o.DateTimeUTC = o.DateTimeUTC.Add(time.Second)
			return o
		},
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			assert.NotEqual(t, baseHash, mutate(base).RowHash())
		})
	}
}

func TestRowHash_AbsentVersusZeroMagnitude(t *testing.T) {
	withNil := sampleObservation()
	withNil.MagnitudeMD = nil

	withZero := sampleObservation()
	withZero.MagnitudeMD = ptr(0)

	assert.NotEqual(t, withNil.RowHash(), withZero.RowHash())
}

func TestRowHash_TimezoneNormalized(t *testing.T) {
	utc := sampleObservation()

	shifted := sampleObservation()
	shifted.DateTimeUTC = utc.DateTimeUTC.In(time.FixedZone("TRT", 3*60*60))

	// Same instant, different zone representation: the canonical form is UTC.
	assert.Equal(t, utc.RowHash(), shifted.RowHash())
}

func TestObservationKey(t *testing.T) {
	obs := sampleObservation()
	key := obs.Key()

	assert.Equal(t, obs.Date, key.Date)
	assert.Equal(t, obs.Time, key.Time)
	assert.Equal(t, obs.Latitude, key.Latitude)
	assert.Equal(t, obs.Longitude, key.Longitude)
	assert.Equal(t, obs.Depth, key.Depth)
	assert.Equal(t, obs.Location, key.Location)

	// Magnitude revisions of the same event share a key.
	revised := sampleObservation()
	revised.MagnitudeML = ptr(4.2)
	revised.Quality = "REVIZE01"
	assert.Equal(t, key, revised.Key())
}
