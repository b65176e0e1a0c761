//nolint:whitespace // can't make both editor and linter happy
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gofrs/uuid/v5"
	googleuuid "github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/trackapp/laptelemetry-service-go/log"
	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	"github.com/trackapp/laptelemetry-service-go/pkg/notify"
	"github.com/trackapp/laptelemetry-service-go/pkg/parse"
	"github.com/trackapp/laptelemetry-service-go/pkg/repository/lap"
	"github.com/trackapp/laptelemetry-service-go/pkg/repository/session"
)

var meter = otel.Meter("import-service")

// ErrTrackNotFound is returned when a session references a track that is not
// in the registry. The session is skipped, the rest of the import continues.
var ErrTrackNotFound = errors.New("track not found in registry")

type (
	ImportOption  func(*ImportService)
	ImportService struct {
		pool     *pgxpool.Pool
		resolver *TrackResolver
		notifier notify.Notifier
		workers  int
		l        *log.Logger

		importedCounter metric.Int64Counter
		failedCounter   metric.Int64Counter
	}
)

// ImportResult summarizes one processed file. Failed sessions never roll
// back the succeeded ones.
type ImportResult struct {
	BatchID       googleuuid.UUID  `json:"batchId"`
	SuccessCount  int              `json:"successCount"`
	FailedCount   int              `json:"failedCount"`
	FailedDetails []string         `json:"failedDetails,omitempty"`
	Warnings      []string         `json:"warnings,omitempty"`
	Sessions      []*model.Session `json:"sessions"`
}

func WithNotifier(arg notify.Notifier) ImportOption {
	return func(s *ImportService) {
		s.notifier = arg
	}
}

// WithImportWorkers sets the number of concurrent session writers. Values
// below 2 keep the import sequential.
func WithImportWorkers(arg int) ImportOption {
	return func(s *ImportService) {
		if arg > 1 {
			s.workers = arg
		}
	}
}

func WithImportLogger(arg *log.Logger) ImportOption {
	return func(s *ImportService) {
		s.l = arg
	}
}

var importService ImportService

func InitImportService(pool *pgxpool.Pool, opts ...ImportOption) *ImportService {
	importService = ImportService{
		pool:     pool,
		resolver: NewTrackResolver(pool),
		notifier: notify.NewNoop(),
		workers:  1,
		l:        log.Default().Named("import"),
	}
	for _, opt := range opts {
		opt(&importService)
	}
	importService.importedCounter, _ = meter.Int64Counter("imported_sessions",
		metric.WithDescription("sessions stored by imports"))
	importService.failedCounter, _ = meter.Int64Counter("failed_sessions",
		metric.WithDescription("sessions rejected during imports"))
	return &importService
}

// Process normalizes one CSV upload and stores each contained session in its
// own transaction. A file level problem (unreadable, missing columns, no
// rows) fails the whole call; a session level problem only fails that
// session.
func (s *ImportService) Process(ctx context.Context, r io.Reader) (
	*ImportResult, error,
) {
	parseRes := parse.NewNormalizer().Parse(r)
	if !parseRes.Success {
		return nil, fmt.Errorf("%s", strings.Join(parseRes.Errors, "; "))
	}
	ret := &ImportResult{
		BatchID:  googleuuid.New(),
		Warnings: parseRes.Warnings,
		Sessions: make([]*model.Session, 0, len(parseRes.Sessions)),
	}
	s.l.Info("processing import",
		log.String("batchId", ret.BatchID.String()),
		log.Int("sessions", len(parseRes.Sessions)))

	if s.workers > 1 && len(parseRes.Sessions) > 1 {
		s.storeConcurrent(ctx, parseRes.Sessions, ret)
	} else {
		for _, ps := range parseRes.Sessions {
			s.storeAndRecord(ctx, ps, ret, nil)
		}
	}
	return ret, nil
}

func (s *ImportService) storeConcurrent(
	ctx context.Context, sessions []*model.ParsedSession, ret *ImportResult,
) {
	var mu sync.Mutex
	var wg sync.WaitGroup
	work := make(chan *model.ParsedSession)
	for range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ps := range work {
				s.storeAndRecord(ctx, ps, ret, &mu)
			}
		}()
	}
	for _, ps := range sessions {
		work <- ps
	}
	close(work)
	wg.Wait()
}

func (s *ImportService) storeAndRecord(
	ctx context.Context, ps *model.ParsedSession, ret *ImportResult,
	mu *sync.Mutex,
) {
	stored, err := s.storeSession(ctx, ps)
	if mu != nil {
		mu.Lock()
		defer mu.Unlock()
	}
	if err != nil {
		ret.FailedCount++
		ret.FailedDetails = append(ret.FailedDetails,
			fmt.Sprintf("%s at %s on %s: %v",
				ps.DriverName, ps.TrackName, ps.Date.Format("2006-01-02"), err))
		s.failedCounter.Add(ctx, 1)
		s.l.Warn("session rejected",
			log.String("driver", ps.DriverName),
			log.String("track", ps.TrackName),
			log.ErrorField(err))
		return
	}
	ret.SuccessCount++
	ret.Sessions = append(ret.Sessions, stored)
	s.importedCounter.Add(ctx, 1)
	if err := s.notifier.SessionImported(stored); err != nil {
		s.l.Warn("notify failed", log.ErrorField(err))
	}
}

// storeSession writes session and laps in one transaction. Either both land
// or neither does.
func (s *ImportService) storeSession(
	ctx context.Context, ps *model.ParsedSession,
) (*model.Session, error) {
	trackEntry, err := s.resolver.ByName(ctx, ps.TrackName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrTrackNotFound, ps.TrackName)
		}
		return nil, err
	}

	sess := &model.Session{
		ID:          uuid.Must(uuid.NewV7()),
		DriverName:  ps.DriverName,
		TrackID:     trackEntry.ID,
		TrackName:   trackEntry.Name,
		Date:        ps.Date,
		TotalTimeMs: ps.TotalTimeMs,
		LapCount:    len(ps.Laps),
		Source:      ps.Source,
	}
	if ps.BestLapMs > 0 {
		best := ps.BestLapMs
		sess.BestLapMs = &best
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := session.Create(ctx, tx, sess); err != nil {
			return err
		}
		if _, err := lap.CreateBulk(ctx, tx, sess.ID, ps.Laps); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}
