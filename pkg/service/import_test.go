//nolint:funlen //ok for this test code
package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/trackapp/laptelemetry-service-go/pkg/repository/lap"
	"github.com/trackapp/laptelemetry-service-go/testsupport/basedata"
	"github.com/trackapp/laptelemetry-service-go/testsupport/testdb"
)

const csvHeader = "session_date,track_name,driver_name,lap_number,lap_time_ms\n"

func TestProcessStoresSessions(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	basedata.CreateSampleTrack(pool)

	data := csvHeader +
		`2026-04-12,Brands Hatch Indy,Sam Driver,1,62000
2026-04-12,Brands Hatch Indy,Sam Driver,2,61500
2026-04-12,Brands Hatch Indy,Alex Racer,1,63000
`
	svc := InitImportService(pool)
	res, err := svc.Process(ctx, strings.NewReader(data))
	assert.NilError(t, err)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 0, res.FailedCount)
	assert.Equal(t, 2, len(res.Sessions))

	// session and laps are persisted
	sess := res.Sessions[0]
	assert.Equal(t, "Sam Driver", sess.DriverName)
	assert.Equal(t, 61500, *sess.BestLapMs)
	laps, err := lap.LoadBySessionID(ctx, pool, sess.ID)
	assert.NilError(t, err)
	assert.Equal(t, 2, len(laps))
}

func TestProcessUnknownTrack(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	basedata.CreateSampleTrack(pool)

	data := csvHeader +
		`2026-04-12,Brands Hatch Indy,Sam Driver,1,62000
2026-04-12,Nowhere Raceway,Sam Driver,1,63000
`
	svc := InitImportService(pool)
	res, err := svc.Process(ctx, strings.NewReader(data))
	assert.NilError(t, err)
	// one session lands, the other is reported, nothing rolls back
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.FailedCount)
	assert.Equal(t, 1, len(res.FailedDetails))
	assert.Assert(t, strings.Contains(res.FailedDetails[0], "track not found"))

	qsvc := InitQueryService(pool)
	sessions, err := qsvc.ListSessions(ctx, nil)
	assert.NilError(t, err)
	assert.Equal(t, 1, len(sessions))
}

func TestProcessInvalidFile(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	svc := InitImportService(pool)
	_, err := svc.Process(ctx, strings.NewReader("no,usable,header\n"))
	assert.Assert(t, err != nil)
	assert.Assert(t, strings.Contains(err.Error(), "InvalidFormat"))
}

func TestProcessConcurrentWorkers(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	basedata.CreateSampleTrack(pool)

	var sb strings.Builder
	sb.WriteString(csvHeader)
	for i := range 20 {
		fmt.Fprintf(&sb, "2026-04-12,Brands Hatch Indy,Driver %02d,1,62000\n", i)
		fmt.Fprintf(&sb, "2026-04-12,Brands Hatch Indy,Driver %02d,2,61500\n", i)
	}

	svc := InitImportService(pool, WithImportWorkers(4))
	res, err := svc.Process(ctx, strings.NewReader(sb.String()))
	assert.NilError(t, err)
	assert.Equal(t, 20, res.SuccessCount)
	assert.Equal(t, 0, res.FailedCount)

	qsvc := InitQueryService(pool)
	sessions, err := qsvc.ListSessions(ctx, nil)
	assert.NilError(t, err)
	assert.Equal(t, 20, len(sessions))
}
