package lap

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	"github.com/trackapp/laptelemetry-service-go/pkg/repository"
)

// CreateBulk inserts all laps of one session within the given transaction.
// CopyFrom keeps large sessions cheap; the transaction keeps session+laps
// atomic.
func CreateBulk(
	ctx context.Context, tx pgx.Tx, sessionID uuid.UUID, laps []model.Lap,
) (int, error) {
	rows := make([][]any, 0, len(laps))
	for i := range laps {
		rows = append(rows, []any{
			sessionID, laps[i].LapNo, laps[i].LapTimeMs, laps[i].Timestamp,
		})
	}
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"lap"},
		[]string{"session_id", "lap_no", "lap_time_ms", "ts"},
		pgx.CopyFromRows(rows))
	return int(n), err
}

// LoadBySessionID returns the laps of a session ordered by lap number.
func LoadBySessionID(
	ctx context.Context, conn repository.Querier, sessionID uuid.UUID,
) ([]model.Lap, error) {
	rows, err := conn.Query(ctx, `
	select lap_no, lap_time_ms, ts from lap
	where session_id=$1 order by lap_no asc
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]model.Lap, 0)
	for rows.Next() {
		var item model.Lap
		if err := rows.Scan(&item.LapNo, &item.LapTimeMs, &item.Timestamp); err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// deletes all laps of a session, returns number of rows deleted.
func DeleteBySessionID(
	ctx context.Context, conn repository.Querier, sessionID uuid.UUID,
) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from lap where session_id=$1", sessionID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
