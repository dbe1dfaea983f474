package scraper

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aydink/quake-data/internal/model"
)

// datetimeLayout matches the list page's "2025.01.15 14:30:25" format.
const datetimeLayout = "2006.01.02 15:04:05"

// minLineFields is the smallest field count a data line can have: date,
// time, three coordinates, three magnitudes, location, quality.
const minLineFields = 10

// Parser extracts observations from the list page's fixed-column text.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a Parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse scans the page text for the data section between the column header
// and the copyright footer and parses each line. Malformed lines are logged
// and skipped; only fully valid observations are returned.
func (p *Parser) Parse(content string) []model.Observation {
	var observations []model.Observation
	inDataSection := false

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "Tarih") && strings.Contains(line, "Saat") && strings.Contains(line, "Enlem") {
			inDataSection = true
			continue
		}
		if !inDataSection {
			continue
		}

		lower := strings.ToLower(line)
		if strings.Contains(lower, "telif hakları") || strings.Contains(lower, "sitemizde yayımlanan") {
			break
		}

		obs, ok := p.parseLine(line)
		if ok {
			observations = append(observations, obs)
		}
	}

	p.logger.Info("parsed earthquake list", "observations", len(observations))
	return observations
}

// parseLine parses one data line:
//
//	2025.01.15 14:30:25  38.4237   27.1428      7.2  -.- 4.1  -.-   IZMIR KORFEZI (EGE DENIZI)  İlksel
func (p *Parser) parseLine(line string) (model.Observation, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.Contains(trimmed, "-----") {
		return model.Observation{}, false
	}

	parts := strings.Fields(trimmed)
	if len(parts) < minLineFields {
		return model.Observation{}, false
	}

	latitude, err := parseCoordinate(parts[2])
	if err != nil {
		p.logger.Warn("invalid latitude, skipping line", "value", parts[2], "line", trimmed)
		return model.Observation{}, false
	}
	longitude, err := parseCoordinate(parts[3])
	if err != nil {
		p.logger.Warn("invalid longitude, skipping line", "value", parts[3], "line", trimmed)
		return model.Observation{}, false
	}
	depth, err := parseCoordinate(parts[4])
	if err != nil {
		p.logger.Warn("invalid depth, skipping line", "value", parts[4], "line", trimmed)
		return model.Observation{}, false
	}

	dateStr, timeStr := parts[0], parts[1]
	datetimeUTC, err := time.Parse(datetimeLayout, dateStr+" "+timeStr)
	if err != nil {
		p.logger.Warn("invalid timestamp, skipping line", "date", dateStr, "time", timeStr)
		return model.Observation{}, false
	}

	// Location is every field between the magnitudes and the trailing
	// quality column; place names contain spaces.
	location := strings.Join(parts[8:len(parts)-1], " ")
	quality := parts[len(parts)-1]

	return model.Observation{
		Date:        dateStr,
		Time:        timeStr,
		Latitude:    latitude,
		Longitude:   longitude,
		Depth:       depth,
		MagnitudeMD: parseMagnitude(parts[5]),
		MagnitudeML: parseMagnitude(parts[6]),
		MagnitudeMW: parseMagnitude(parts[7]),
		Location:    location,
		Quality:     quality,
		DateTimeUTC: datetimeUTC,
	}, true
}

// parseMagnitude parses a magnitude column, mapping the page's "-.-"
// placeholder (and anything unparseable) to an absent reading.
func parseMagnitude(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "-.-" {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseCoordinate(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}
