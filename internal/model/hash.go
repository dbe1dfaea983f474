package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// absentMagnitude marks a nil magnitude in the canonical form, matching the
// source format's "-.-" placeholder semantics.
const absentMagnitude = "-"

// RowHash returns the observation's content fingerprint: the SHA-256 of a
// canonical serialization covering every field, including the derived UTC
// timestamp. The canonical form fixes field order (lexicographic by column
// name), float formatting (shortest exact decimal), and timestamp formatting
// (RFC 3339 UTC), so identical content always yields identical hashes
// regardless of process, machine, or insertion order.
func (o Observation) RowHash() string {
	pairs := []string{
		"date=" + o.Date,
		"datetime_utc=" + o.DateTimeUTC.UTC().Format(time.RFC3339),
		"depth=" + formatFloat(o.Depth),
		"latitude=" + formatFloat(o.Latitude),
		"location=" + o.Location,
		"longitude=" + formatFloat(o.Longitude),
		"magnitude_md=" + formatMagnitude(o.MagnitudeMD),
		"magnitude_ml=" + formatMagnitude(o.MagnitudeML),
		"magnitude_mw=" + formatMagnitude(o.MagnitudeMW),
		"quality=" + o.Quality,
		"time=" + o.Time,
	}

	sum := sha256.Sum256([]byte(strings.Join(pairs, "|")))
	return hex.EncodeToString(sum[:])
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatMagnitude(v *float64) string {
	if v == nil {
		return absentMagnitude
	}
	return formatFloat(*v)
}
