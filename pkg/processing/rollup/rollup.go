// Package rollup folds sessions into per-(driver, track) summary rows.
// All combinators are order independent: count, sum, min and max are
// associative/commutative, and the average best lap is recomputed from the
// complete group instead of being maintained incrementally, so any
// permutation of the same session list yields identical rows.
package rollup

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
)

// classification thresholds for ClassifyImproving
const (
	improvingMinSessions = 3
	improvingMinGainPct  = 0.02
)

// DriverID derives the group key from a driver name. There is no driver
// registry; identity is the normalized name.
func DriverID(driverName string) string {
	return strings.ToLower(strings.TrimSpace(driverName))
}

// Compute folds an arbitrarily ordered, pre-filtered session slice into one
// row per (driver, track). Filtering is the caller's concern: rollups are a
// view over whatever session set the query produced, never a ledger.
func Compute(sessions []*model.Session) []*model.DriverTrackRollupRow {
	groups := lo.GroupBy(sessions, func(s *model.Session) string {
		return fmt.Sprintf("%s|%d", DriverID(s.DriverName), s.TrackID)
	})

	rows := make([]*model.DriverTrackRollupRow, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, computeGroup(group))
	}
	// deterministic output order regardless of map iteration
	slices.SortFunc(rows, func(a, b *model.DriverTrackRollupRow) int {
		if c := strings.Compare(a.DriverID, b.DriverID); c != 0 {
			return c
		}
		return a.TrackID - b.TrackID
	})
	return rows
}

func computeGroup(group []*model.Session) *model.DriverTrackRollupRow {
	row := &model.DriverTrackRollupRow{
		DriverID:   DriverID(group[0].DriverName),
		DriverName: group[0].DriverName,
		TrackID:    group[0].TrackID,
		TrackName:  group[0].TrackName,
	}
	bests := make([]decimal.Decimal, 0, len(group))
	for _, s := range group {
		row.SessionCount++
		row.TotalLaps += s.LapCount
		if s.Date.After(row.LastSession) {
			row.LastSession = s.Date
		}
		if s.BestLapMs == nil {
			continue
		}
		bests = append(bests, decimal.NewFromInt(int64(*s.BestLapMs)))
		if row.BestLapMs == nil || *s.BestLapMs < *row.BestLapMs {
			best := *s.BestLapMs
			row.BestLapMs = &best
		}
	}
	// groups without a single timed lap still appear, with nil best laps
	if len(bests) > 0 {
		avg := decimal.Avg(bests[0], bests[1:]...).InexactFloat64()
		row.AvgBestLapMs = &avg
	}
	return row
}

// ClassifyImproving is the dashboard-level improvement classification for one
// (driver, track) session group: at least three sessions, and the most recent
// session's best lap at least 2% faster than the mean best lap of all earlier
// sessions. Sessions may arrive in any order.
func ClassifyImproving(group []*model.Session) bool {
	timed := lo.Filter(group, func(s *model.Session, _ int) bool {
		return s.BestLapMs != nil
	})
	if len(timed) < improvingMinSessions {
		return false
	}
	sorted := make([]*model.Session, len(timed))
	copy(sorted, timed)
	slices.SortStableFunc(sorted, func(a, b *model.Session) int {
		return a.Date.Compare(b.Date)
	})

	latest := sorted[len(sorted)-1]
	baseline := make([]decimal.Decimal, 0, len(sorted)-1)
	for _, s := range sorted[:len(sorted)-1] {
		baseline = append(baseline, decimal.NewFromInt(int64(*s.BestLapMs)))
	}
	baselineAvg := decimal.Avg(baseline[0], baseline[1:]...).InexactFloat64()
	gain := (baselineAvg - float64(*latest.BestLapMs)) / baselineAvg
	return gain >= improvingMinGainPct
}
