package track

import (
	"context"
	"strings"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	"github.com/trackapp/laptelemetry-service-go/pkg/repository"
)

var selector = `select id, name, short_name, length_meters from track`

// Create inserts a track and assigns the generated id.
func Create(ctx context.Context, conn repository.Querier, track *model.Track) error {
	row := conn.QueryRow(ctx, `
	insert into track (name, short_name, length_meters)
	values ($1,$2,$3)
	returning id
		`,
		track.Name, track.ShortName, track.LengthMeters,
	)
	return row.Scan(&track.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Track, error,
) {
	row := conn.QueryRow(ctx, selector+" where id=$1", id)
	return readData(row)
}

// LoadByName resolves a track by case-insensitive name.
func LoadByName(ctx context.Context, conn repository.Querier, name string) (
	*model.Track, error,
) {
	row := conn.QueryRow(ctx, selector+" where lower(name)=$1",
		strings.ToLower(strings.TrimSpace(name)))
	return readData(row)
}

func LoadAll(ctx context.Context, conn repository.Querier) ([]*model.Track, error) {
	rows, err := conn.Query(ctx, selector+" order by name asc")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Track, 0)
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
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from track where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row interface{ Scan(dest ...any) error }) (*model.Track, error) {
	var item model.Track
	if err := row.Scan(
		&item.ID, &item.Name, &item.ShortName, &item.LengthMeters,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
