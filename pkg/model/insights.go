package model

// PaceTrendLabel classifies how lap times developed over a session.
type PaceTrendLabel string

const (
	PaceImproving     PaceTrendLabel = "Improving"
	PaceFading        PaceTrendLabel = "Fading"
	PaceConsistent    PaceTrendLabel = "Consistent"
	PaceNotEnoughData PaceTrendLabel = "NotEnoughData"
)

// SessionInsights are derived from a session's ordered lap times. Never
// authoritative, safe to recompute at any time.
type SessionInsights struct {
	ConsistencyScore     *int           `json:"consistencyScore"`
	DrivingBehaviorScore *int           `json:"drivingBehaviorScore"`
	PaceTrendLabel       PaceTrendLabel `json:"paceTrendLabel"`
	PaceTrendDetail      string         `json:"paceTrendDetail"`
}
