package basedata

import (
	"context"
	"log"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	laprepos "github.com/trackapp/laptelemetry-service-go/pkg/repository/lap"
	sessionrepos "github.com/trackapp/laptelemetry-service-go/pkg/repository/session"
	trackrepos "github.com/trackapp/laptelemetry-service-go/pkg/repository/track"
)

func TestDate() time.Time {
	t, _ := time.Parse(time.DateOnly, "2026-04-12")
	return t
}

func SampleTrack() *model.Track {
	return &model.Track{
		Name:         "Brands Hatch Indy",
		ShortName:    "BHI",
		LengthMeters: 1944,
	}
}

func SampleLaps() []model.Lap {
	return []model.Lap{
		{LapNo: 1, LapTimeMs: 62000},
		{LapNo: 2, LapTimeMs: 61500},
		{LapNo: 3, LapTimeMs: 61800},
		{LapNo: 4, LapTimeMs: 61200},
		{LapNo: 5, LapTimeMs: 61900},
	}
}

func SampleSession(trackID int) *model.Session {
	best := 61200
	return &model.Session{
		ID:          uuid.Must(uuid.NewV7()),
		DriverName:  "Sam Driver",
		TrackID:     trackID,
		Date:        TestDate(),
		TotalTimeMs: 308400,
		BestLapMs:   &best,
		LapCount:    5,
		Source:      model.DialectRaceChrono,
	}
}

func CreateSampleTrack(db *pgxpool.Pool) *model.Track {
	entry := SampleTrack()
	if err := trackrepos.Create(context.Background(), db, entry); err != nil {
		log.Fatalf("createSampleTrack: %v\n", err)
	}
	return entry
}

func CreateSampleSession(db *pgxpool.Pool, trackID int) *model.Session {
	ctx := context.Background()
	sess := SampleSession(trackID)
	if err := sessionrepos.Create(ctx, db, sess); err != nil {
		log.Fatalf("createSampleSession: %v\n", err)
	}
	tx, err := db.Begin(ctx)
	if err != nil {
		log.Fatalf("createSampleSession: %v\n", err)
	}
	if _, err := laprepos.CreateBulk(ctx, tx, sess.ID, SampleLaps()); err != nil {
		log.Fatalf("createSampleSession: %v\n", err)
	}
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("createSampleSession: %v\n", err)
	}
	return sess
}
