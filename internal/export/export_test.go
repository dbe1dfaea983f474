package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aydink/quake-data/internal/model"
)

func ptr(v float64) *float64 { return &v }

func sampleObservations() []model.Observation {
	return []model.Observation{
		{
			Date:        "2025.01.15",
			Time:        "14:30:25",
			Latitude:    38.4237,
			Longitude:   27.1428,
			Depth:       7.2,
			MagnitudeML: ptr(4.1),
			Location:    "IZMIR KORFEZI (EGE DENIZI)",
			Quality:     "İlksel",
			DateTimeUTC: time.Date(2025, 1, 15, 14, 30, 25, 0, time.UTC),
		},
		{
			Date:        "2025.01.15",
			Time:        "15:45:12",
			Latitude:    39.9208,
			Longitude:   32.8541,
			Depth:       10,
			MagnitudeMD: ptr(3.5),
			MagnitudeML: ptr(3.7),
			Location:    "ANKARA",
			Quality:     "İlksel",
			DateTimeUTC: time.Date(2025, 1, 15, 15, 45, 12, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "earthquakes.csv")

	require.NoError(t, WriteCSV(path, sampleObservations()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])

	izmir := rows[1]
	assert.Equal(t, "2025.01.15", izmir[0])
	assert.Equal(t, "38.4237", izmir[2])
	assert.Equal(t, "", izmir[5], "absent md magnitude is an empty cell")
	assert.Equal(t, "4.1", izmir[6])
	assert.Equal(t, "IZMIR KORFEZI (EGE DENIZI)", izmir[8])
	assert.Equal(t, "2025-01-15T14:30:25Z", izmir[10])

	ankara := rows[2]
	assert.Equal(t, "3.5", ankara[5])
	assert.Equal(t, "ANKARA", ankara[8])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earthquakes.json")

	require.NoError(t, WriteJSON(path, sampleObservations()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "IZMIR KORFEZI (EGE DENIZI)", decoded[0]["location"])
	assert.Nil(t, decoded[0]["magnitude_md"], "absent magnitude is null")
	assert.Equal(t, 4.1, decoded[0]["magnitude_ml"])
	assert.Equal(t, "2025-01-15T14:30:25Z", decoded[0]["datetime_utc"])
}

func TestWriteCSV_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	require.NoError(t, WriteCSV(path, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
