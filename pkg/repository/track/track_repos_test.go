//nolint:dupl,funlen,errcheck //ok for this test code
package track

import (
	"context"
	"log"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"gotest.tools/v3/assert"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	"github.com/trackapp/laptelemetry-service-go/testsupport/testdb"
)

func sampleTrack() *model.Track {
	return &model.Track{
		Name:         "Brands Hatch Indy",
		ShortName:    "BHI",
		LengthMeters: 1944,
	}
}

func createSampleEntry(db *pgxpool.Pool) *model.Track {
	entry := sampleTrack()
	if err := Create(context.Background(), db, entry); err != nil {
		log.Fatalf("createSampleEntry: %v\n", err)
	}
	return entry
}

func TestCreate(t *testing.T) {
	pool := testdb.InitTestDb()
	type args struct {
		track *model.Track
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "new entry",
			args: args{track: &model.Track{
				Name: "Oulton Park", ShortName: "OP", LengthMeters: 4307,
			}},
		},
		{
			name: "duplicate name",
			args: args{track: &model.Track{
				Name: "Brands Hatch Indy", ShortName: "BHI",
			}},
			wantErr: true,
		},
		{
			name: "duplicate name different case",
			args: args{track: &model.Track{
				Name: "BRANDS HATCH INDY",
			}},
			wantErr: true,
		},
	}
	createSampleEntry(pool)
	for _, tt := range tests {
		ctx := context.Background()
		t.Run(tt.name, func(t *testing.T) {
			err := Create(ctx, pool, tt.args.track)
			if (err != nil) != tt.wantErr {
				t.Errorf("Create error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.args.track.ID == 0 {
				t.Error("Create did not assign an id")
			}
		})
	}
}

func TestLoadByName(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)
	ctx := context.Background()

	tests := []struct {
		name    string
		arg     string
		wantErr bool
	}{
		{name: "exact", arg: "Brands Hatch Indy"},
		{name: "case insensitive", arg: "brands hatch INDY"},
		{name: "padded", arg: "  Brands Hatch Indy  "},
		{name: "unknown", arg: "No Such Track", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadByName(ctx, pool, tt.arg)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadByName error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil {
				assert.Equal(t, sample.ID, got.ID)
			}
		})
	}
}

func TestLoadAll(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	createSampleEntry(pool)
	assert.NilError(t, Create(ctx, pool, &model.Track{Name: "Anglesey"}))

	got, err := LoadAll(ctx, pool)
	assert.NilError(t, err)
	assert.Equal(t, 2, len(got))
	// ordered by name
	assert.Equal(t, "Anglesey", got[0].Name)
	assert.Equal(t, "Brands Hatch Indy", got[1].Name)
}

func TestDeleteById(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	sample := createSampleEntry(pool)

	num, err := DeleteByID(ctx, pool, sample.ID)
	assert.NilError(t, err)
	assert.Equal(t, 1, num)

	num, err = DeleteByID(ctx, pool, sample.ID)
	assert.NilError(t, err)
	assert.Equal(t, 0, num)
}
