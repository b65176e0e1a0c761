//nolint:whitespace // can't make both editor and linter happy
package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	"github.com/trackapp/laptelemetry-service-go/pkg/processing/insights"
	"github.com/trackapp/laptelemetry-service-go/pkg/processing/rollup"
	"github.com/trackapp/laptelemetry-service-go/pkg/repository/lap"
	"github.com/trackapp/laptelemetry-service-go/pkg/repository/session"
)

// QueryService is the read side: session lists, per-session insights and
// driver/track rollups. It never mutates anything.
type QueryService struct {
	pool *pgxpool.Pool
}

var queryService QueryService

func InitQueryService(pool *pgxpool.Pool) *QueryService {
	queryService = QueryService{pool: pool}
	return &queryService
}

func (s *QueryService) ListSessions(
	ctx context.Context, filter *model.SessionFilter,
) ([]*model.Session, error) {
	return session.LoadByFilter(ctx, s.pool, filter)
}

// SessionInsights loads the session's lap sequence and computes the scores
// and pace trend on the fly. Insights are derived data and never stored.
func (s *QueryService) SessionInsights(
	ctx context.Context, id uuid.UUID,
) (*model.Session, *model.SessionInsights, error) {
	sess, err := session.LoadByID(ctx, s.pool, id)
	if err != nil {
		return nil, nil, err
	}
	laps, err := lap.LoadBySessionID(ctx, s.pool, id)
	if err != nil {
		return nil, nil, err
	}
	lapTimes := lo.Map(laps, func(item model.Lap, _ int) int {
		return item.LapTimeMs
	})
	result := insights.Compute(lapTimes)
	return sess, &result, nil
}

// Rollup folds the filtered sessions into per-(driver, track) rows.
func (s *QueryService) Rollup(
	ctx context.Context, filter *model.SessionFilter,
) ([]*model.DriverTrackRollupRow, error) {
	sessions, err := session.LoadByFilter(ctx, s.pool, filter)
	if err != nil {
		return nil, err
	}
	return rollup.Compute(sessions), nil
}

// ImprovingDrivers returns the rollup rows whose (driver, track) group
// qualifies as improving.
func (s *QueryService) ImprovingDrivers(
	ctx context.Context, filter *model.SessionFilter,
) ([]*model.DriverTrackRollupRow, error) {
	sessions, err := session.LoadByFilter(ctx, s.pool, filter)
	if err != nil {
		return nil, err
	}
	groups := lo.GroupBy(sessions, func(sess *model.Session) string {
		return rollup.DriverID(sess.DriverName)
	})
	rows := rollup.Compute(sessions)
	return lo.Filter(rows, func(row *model.DriverTrackRollupRow, _ int) bool {
		group := lo.Filter(groups[row.DriverID],
			func(sess *model.Session, _ int) bool {
				return sess.TrackID == row.TrackID
			})
		return rollup.ClassifyImproving(group)
	}), nil
}
