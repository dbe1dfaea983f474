// Package export writes observation snapshots to CSV and JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aydink/quake-data/internal/model"
)

// csvHeader matches the warehouse column set, minus ingestion metadata.
var csvHeader = []string{
	"date", "time", "latitude", "longitude", "depth",
	"magnitude_md", "magnitude_ml", "magnitude_mw",
	"location", "quality", "datetime_utc",
}

// WriteCSV writes observations to a CSV file, creating parent directories as
// needed. Absent magnitudes become empty cells.
func WriteCSV(path string, observations []model.Observation) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, obs := range observations {
		record := []string{
			obs.Date,
			obs.Time,
			formatFloat(obs.Latitude),
			formatFloat(obs.Longitude),
			formatFloat(obs.Depth),
			formatMagnitude(obs.MagnitudeMD),
			formatMagnitude(obs.MagnitudeML),
			formatMagnitude(obs.MagnitudeMW),
			obs.Location,
			obs.Quality,
			obs.DateTimeUTC.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}

// jsonObservation is the export shape; absent magnitudes become nulls.
type jsonObservation struct {
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Depth       float64   `json:"depth"`
	MagnitudeMD *float64  `json:"magnitude_md"`
	MagnitudeML *float64  `json:"magnitude_ml"`
	MagnitudeMW *float64  `json:"magnitude_mw"`
	Location    string    `json:"location"`
	Quality     string    `json:"quality"`
	DateTimeUTC time.Time `json:"datetime_utc"`
}

// WriteJSON writes observations to a pretty-printed JSON file, creating
// parent directories as needed.
func WriteJSON(path string, observations []model.Observation) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	out := make([]jsonObservation, 0, len(observations))
	for _, obs := range observations {
		out = append(out, jsonObservation{
			Date:        obs.Date,
			Time:        obs.Time,
			Latitude:    obs.Latitude,
			Longitude:   obs.Longitude,
			Depth:       obs.Depth,
			MagnitudeMD: obs.MagnitudeMD,
			MagnitudeML: obs.MagnitudeML,
			MagnitudeMW: obs.MagnitudeMW,
			Location:    obs.Location,
			Quality:     obs.Quality,
			DateTimeUTC: obs.DateTimeUTC.UTC(),
		})
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return f.Close()
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMagnitude(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
