package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Session is one continuous timing run by one driver at one track on one
// date. Immutable once built; re-importing a file creates a new session.
type Session struct {
	ID          uuid.UUID `json:"id"`
	DriverName  string    `json:"driverName"`
	TrackID     int       `json:"trackId"`
	TrackName   string    `json:"trackName"`
	Date        time.Time `json:"date"`
	TotalTimeMs int64     `json:"totalTimeMs"`
	BestLapMs   *int      `json:"bestLapMs"`
	LapCount    int       `json:"lapCount"`
	Source      Dialect   `json:"source"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Track is an entry of the track registry.
type Track struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	ShortName    string  `json:"shortName"`
	LengthMeters float64 `json:"lengthMeters"`
}

// SessionFilter narrows down session queries. Nil fields match everything.
type SessionFilter struct {
	TrackID  *int       `json:"trackId,omitempty"`
	DriverID *string    `json:"driverId,omitempty"`
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
}
