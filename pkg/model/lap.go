package model

import "time"

// Dialect identifies the timing tool a CSV export originated from.
type Dialect string

const (
	DialectRaceChrono  Dialect = "RaceChrono"
	DialectAiM         Dialect = "AiM"
	DialectTrackAddict Dialect = "TrackAddict"
	DialectGeneric     Dialect = "Generic"
)

// ParseDialect maps a source tag to a known dialect, empty result for unknown tags.
func ParseDialect(tag string) (Dialect, bool) {
	switch Dialect(tag) {
	case DialectRaceChrono, DialectAiM, DialectTrackAddict, DialectGeneric:
		return Dialect(tag), true
	}
	return "", false
}

// Lap is one timed lap. Timestamp is nil when the export carries no
// per-lap wall clock.
type Lap struct {
	LapNo     int        `json:"lapNo"`
	LapTimeMs int        `json:"lapTimeMs"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// LapRecord is a canonical row produced by the normalizer, before grouping.
type LapRecord struct {
	SessionKey string     `json:"sessionKey"` // driver|track|date
	DriverName string     `json:"driverName"`
	TrackName  string     `json:"trackName"`
	Date       time.Time  `json:"date"`
	LapNo      int        `json:"lapNo"`
	LapTimeMs  int        `json:"lapTimeMs"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	Source     Dialect    `json:"source"`
}

// ParsedSession groups the lap records sharing (driver, track, date) of one
// import file. Laps are ordered by lap number; duplicates were dropped by the
// normalizer.
type ParsedSession struct {
	DriverName  string    `json:"driverName"`
	TrackName   string    `json:"trackName"`
	Date        time.Time `json:"date"`
	Source      Dialect   `json:"source"`
	Laps        []Lap     `json:"laps"`
	BestLapMs   int       `json:"bestLapMs"`
	TotalTimeMs int64     `json:"totalTimeMs"`
}

// ParseResult is the outcome of normalizing one uploaded file. Row level
// issues are collected as warnings, fatal conditions as errors.
type ParseResult struct {
	Success  bool             `json:"success"`
	Sessions []*ParsedSession `json:"sessions"`
	Warnings []string         `json:"warnings"`
	Errors   []string         `json:"errors"`
}
