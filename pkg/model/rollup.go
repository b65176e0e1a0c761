package model

import "time"

// DriverTrackRollupRow is the aggregated summary of all sessions for one
// driver at one track. A view over the session store, not a ledger.
type DriverTrackRollupRow struct {
	DriverID     string    `json:"driverId"`
	DriverName   string    `json:"driverName"`
	TrackID      int       `json:"trackId"`
	TrackName    string    `json:"trackName"`
	SessionCount int       `json:"sessionCount"`
	BestLapMs    *int      `json:"bestLapMs"`
	AvgBestLapMs *float64  `json:"avgBestLapMs"`
	TotalLaps    int       `json:"totalLaps"`
	LastSession  time.Time `json:"lastSessionDate"`
}
