//nolint:dupl,funlen,errcheck //ok for this test code
package session

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gotest.tools/v3/assert"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	trackrepos "github.com/trackapp/laptelemetry-service-go/pkg/repository/track"
	"github.com/trackapp/laptelemetry-service-go/testsupport/testdb"
)

func testDate(arg string) time.Time {
	t, _ := time.Parse(time.DateOnly, arg)
	return t
}

func createTrack(db *pgxpool.Pool) *model.Track {
	entry := &model.Track{Name: "Brands Hatch Indy", ShortName: "BHI"}
	if err := trackrepos.Create(context.Background(), db, entry); err != nil {
		log.Fatalf("createTrack: %v\n", err)
	}
	return entry
}

//nolint:unparam // test data builder
func sampleSession(trackID int, driver, date string, bestLapMs *int) *model.Session {
	return &model.Session{
		ID:          uuid.Must(uuid.NewV7()),
		DriverName:  driver,
		TrackID:     trackID,
		Date:        testDate(date),
		TotalTimeMs: 308400,
		BestLapMs:   bestLapMs,
		LapCount:    5,
		Source:      model.DialectRaceChrono,
	}
}

func intPtr(v int) *int { return &v }

func TestCreateLoad(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	trackEntry := createTrack(pool)

	sess := sampleSession(trackEntry.ID, "Sam Driver", "2026-04-12", intPtr(61200))
	assert.NilError(t, Create(ctx, pool, sess))

	got, err := LoadByID(ctx, pool, sess.ID)
	assert.NilError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "Sam Driver", got.DriverName)
	// the track name is joined in
	assert.Equal(t, "Brands Hatch Indy", got.TrackName)
	assert.Equal(t, model.DialectRaceChrono, got.Source)
	assert.Equal(t, 61200, *got.BestLapMs)
	assert.Assert(t, !got.CreatedAt.IsZero())

	// unknown id
	_, err = LoadByID(ctx, pool, uuid.Must(uuid.NewV7()))
	assert.Assert(t, err != nil)
}

func TestCreateUnknownTrack(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	sess := sampleSession(99999, "Sam Driver", "2026-04-12", intPtr(61200))
	err := Create(ctx, pool, sess)
	assert.Assert(t, err != nil)
}

func TestLoadByFilter(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	trackEntry := createTrack(pool)
	other := &model.Track{Name: "Oulton Park"}
	assert.NilError(t, trackrepos.Create(ctx, pool, other))

	seed := []*model.Session{
		sampleSession(trackEntry.ID, "Sam Driver", "2026-04-10", intPtr(62000)),
		sampleSession(trackEntry.ID, "Sam Driver", "2026-04-12", intPtr(61000)),
		sampleSession(trackEntry.ID, "Alex Racer", "2026-04-11", intPtr(60000)),
		sampleSession(other.ID, "Sam Driver", "2026-04-13", intPtr(90000)),
	}
	for _, s := range seed {
		assert.NilError(t, Create(ctx, pool, s))
	}

	driverID := "sam driver"
	from := testDate("2026-04-11")
	to := testDate("2026-04-12")

	tests := []struct {
		name   string
		filter *model.SessionFilter
		want   int
	}{
		{name: "nil filter", filter: nil, want: 4},
		{name: "empty filter", filter: &model.SessionFilter{}, want: 4},
		{
			name:   "by track",
			filter: &model.SessionFilter{TrackID: &trackEntry.ID},
			want:   3,
		},
		{
			name:   "by driver normalized",
			filter: &model.SessionFilter{DriverID: &driverID},
			want:   3,
		},
		{
			name:   "by date range",
			filter: &model.SessionFilter{From: &from, To: &to},
			want:   2,
		},
		{
			name: "combined",
			filter: &model.SessionFilter{
				TrackID: &trackEntry.ID, DriverID: &driverID, From: &from,
			},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadByFilter(ctx, pool, tt.filter)
			assert.NilError(t, err)
			assert.Equal(t, tt.want, len(got))
			// ordered by session date
			for i := 1; i < len(got); i++ {
				assert.Assert(t, !got[i].Date.Before(got[i-1].Date))
			}
		})
	}
}

func TestDeleteById(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	trackEntry := createTrack(pool)
	sess := sampleSession(trackEntry.ID, "Sam Driver", "2026-04-12", nil)
	assert.NilError(t, Create(ctx, pool, sess))

	num, err := DeleteByID(ctx, pool, sess.ID)
	assert.NilError(t, err)
	assert.Equal(t, 1, num)

	num, err = DeleteByID(ctx, pool, sess.ID)
	assert.NilError(t, err)
	assert.Equal(t, 0, num)
}
