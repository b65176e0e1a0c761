package parse

import (
	"strings"

	"github.com/samber/lo"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
)

// canonical columns every accepted export must provide
const (
	colSessionDate = "session_date"
	colTrackName   = "track_name"
	colDriverName  = "driver_name"
	colLapNumber   = "lap_number"
	colLapTimeMs   = "lap_time_ms"
	colTimestamp   = "timestamp"
	colSource      = "source"
)

//nolint:gochecknoglobals // lookup tables
var (
	requiredColumns = []string{
		colSessionDate, colTrackName, colDriverName, colLapNumber, colLapTimeMs,
	}

	// signature columns a timing tool adds on top of the canonical set
	dialectSignatures = map[model.Dialect][]string{
		model.DialectRaceChrono:  {"lap_start_utc", "gps_source"},
		model.DialectAiM:         {"beacon_marker", "segment_times"},
		model.DialectTrackAddict: {"obd_speed", "gps_quality"},
	}

	// deterministic detection order
	dialectOrder = []model.Dialect{
		model.DialectRaceChrono, model.DialectAiM, model.DialectTrackAddict,
	}
)

// NormalizeHeader trims and lowercases all header cells.
func NormalizeHeader(header []string) []string {
	return lo.Map(header, func(cell string, _ int) string {
		return strings.ToLower(strings.TrimSpace(cell))
	})
}

// MissingColumns reports which canonical columns a normalized header lacks.
func MissingColumns(header []string) []string {
	return lo.Without(requiredColumns, header...)
}

// DetectDialect classifies a normalized header row. Stateless; headers that
// carry the canonical columns but match no known tool count as Generic so
// imports succeed rather than get rejected.
func DetectDialect(header []string) model.Dialect {
	for _, dialect := range dialectOrder {
		if lo.Every(header, dialectSignatures[dialect]) {
			return dialect
		}
	}
	return model.DialectGeneric
}
