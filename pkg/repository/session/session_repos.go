//nolint:whitespace // can't make both editor and linter happy
package session

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	"github.com/trackapp/laptelemetry-service-go/pkg/repository"
)

var selector = `select s.id, s.driver_name, s.track_id, t.name, s.session_date,
	s.total_time_ms, s.best_lap_ms, s.lap_count, s.source, s.created_at
	from session s join track t on t.id = s.track_id`

// Create inserts a session. The id must be assigned by the caller; a new
// import always creates a new session instead of mutating an existing one.
func Create(
	ctx context.Context, conn repository.Querier, sess *model.Session,
) error {
	_, err := conn.Exec(ctx, `
	insert into session (
		id, driver_name, track_id, session_date, total_time_ms,
		best_lap_ms, lap_count, source
	) values ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
		sess.ID, sess.DriverName, sess.TrackID, sess.Date, sess.TotalTimeMs,
		sess.BestLapMs, sess.LapCount, string(sess.Source),
	)
	return err
}

func LoadByID(
	ctx context.Context, conn repository.Querier, id uuid.UUID,
) (*model.Session, error) {
	row := conn.QueryRow(ctx, selector+" where s.id=$1", id)
	return readData(row)
}

// LoadByFilter returns sessions matching the filter, ordered by date. Nil
// filter fields match everything; the driver filter matches the normalized
// driver id.
func LoadByFilter(
	ctx context.Context, conn repository.Querier, filter *model.SessionFilter,
) ([]*model.Session, error) {
	query := selector
	args := []any{}
	clauses := []string{}
	addClause := func(cond string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(cond, len(args)))
	}
	if filter != nil {
		if filter.TrackID != nil {
			addClause("s.track_id=$%d", *filter.TrackID)
		}
		if filter.DriverID != nil {
			addClause("lower(trim(s.driver_name))=$%d", *filter.DriverID)
		}
		if filter.From != nil {
			addClause("s.session_date >= $%d", *filter.From)
		}
		if filter.To != nil {
			addClause("s.session_date <= $%d", *filter.To)
		}
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " where " + clause
		} else {
			query += " and " + clause
		}
	}
	query += " order by s.session_date asc, s.created_at asc"

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Session, 0)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// deletes an entry from the database, returns number of rows deleted.
// Laps are removed by the cascade.
func DeleteByID(
	ctx context.Context, conn repository.Querier, id uuid.UUID,
) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from session where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row interface{ Scan(dest ...any) error }) (*model.Session, error) {
	var item model.Session
	var source string
	if err := row.Scan(
		&item.ID, &item.DriverName, &item.TrackID, &item.TrackName, &item.Date,
		&item.TotalTimeMs, &item.BestLapMs, &item.LapCount, &source,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	item.Source = model.Dialect(source)
	return &item, nil
}
