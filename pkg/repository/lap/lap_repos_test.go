//nolint:funlen,errcheck //ok for this test code
package lap

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gotest.tools/v3/assert"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	sessionrepos "github.com/trackapp/laptelemetry-service-go/pkg/repository/session"
	trackrepos "github.com/trackapp/laptelemetry-service-go/pkg/repository/track"
	"github.com/trackapp/laptelemetry-service-go/testsupport/testdb"
)

func createSession(db *pgxpool.Pool) *model.Session {
	ctx := context.Background()
	trackEntry := &model.Track{Name: "Brands Hatch Indy"}
	if err := trackrepos.Create(ctx, db, trackEntry); err != nil {
		log.Fatalf("createSession: %v\n", err)
	}
	date, _ := time.Parse(time.DateOnly, "2026-04-12")
	sess := &model.Session{
		ID:         uuid.Must(uuid.NewV7()),
		DriverName: "Sam Driver",
		TrackID:    trackEntry.ID,
		Date:       date,
		LapCount:   3,
		Source:     model.DialectGeneric,
	}
	if err := sessionrepos.Create(ctx, db, sess); err != nil {
		log.Fatalf("createSession: %v\n", err)
	}
	return sess
}

func sampleLaps() []model.Lap {
	ts, _ := time.Parse(time.RFC3339, "2026-04-12T10:00:00Z")
	return []model.Lap{
		{LapNo: 1, LapTimeMs: 62000, Timestamp: &ts},
		{LapNo: 2, LapTimeMs: 61500},
		{LapNo: 3, LapTimeMs: 61800},
	}
}

func TestCreateBulkLoad(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	sess := createSession(pool)

	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		num, err := CreateBulk(ctx, tx, sess.ID, sampleLaps())
		assert.Equal(t, 3, num)
		return err
	})
	assert.NilError(t, err)

	got, err := LoadBySessionID(ctx, pool, sess.ID)
	assert.NilError(t, err)
	assert.Equal(t, 3, len(got))
	// ordered by lap number
	assert.Equal(t, 1, got[0].LapNo)
	assert.Equal(t, 62000, got[0].LapTimeMs)
	assert.Assert(t, got[0].Timestamp != nil)
	assert.Assert(t, got[1].Timestamp == nil)
}

func TestCreateBulkRollsBack(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	sess := createSession(pool)

	laps := sampleLaps()
	// duplicate lap number violates the primary key
	laps[2].LapNo = 1
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		_, err := CreateBulk(ctx, tx, sess.ID, laps)
		return err
	})
	assert.Assert(t, err != nil)

	got, err := LoadBySessionID(ctx, pool, sess.ID)
	assert.NilError(t, err)
	assert.Equal(t, 0, len(got))
}

func TestCascadeDelete(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	sess := createSession(pool)

	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		_, err := CreateBulk(ctx, tx, sess.ID, sampleLaps())
		return err
	})
	assert.NilError(t, err)

	num, err := sessionrepos.DeleteByID(ctx, pool, sess.ID)
	assert.NilError(t, err)
	assert.Equal(t, 1, num)

	got, err := LoadBySessionID(ctx, pool, sess.ID)
	assert.NilError(t, err)
	assert.Equal(t, 0, len(got))
}
