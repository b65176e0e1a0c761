//nolint:whitespace // can't make both editor and linter happy
package importer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/trackapp/laptelemetry-service-go/log"
	"github.com/trackapp/laptelemetry-service-go/pkg/config"
	"github.com/trackapp/laptelemetry-service-go/pkg/db/postgres"
	"github.com/trackapp/laptelemetry-service-go/pkg/notify"
	"github.com/trackapp/laptelemetry-service-go/pkg/service"
	"github.com/trackapp/laptelemetry-service-go/pkg/utils"
)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import file...",
		Short: "imports lap telemetry CSV files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args)
		},
	}
	cmd.PersistentFlags().IntVar(&config.ImportWorkers,
		"workers",
		1,
		"number of concurrent session writers")
	cmd.PersistentFlags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"if set, imported sessions are published to this NATS endpoint")
	cmd.AddCommand(newWatchCmd())
	return cmd
}

func runImport(ctx context.Context, files []string) error {
	pool, svc, teardown, err := initImport()
	if err != nil {
		return err
	}
	defer teardown()
	defer pool.Close()

	var failedFiles int
	for _, file := range files {
		if err := importFile(ctx, svc, file); err != nil {
			failedFiles++
			log.Error("import failed",
				log.String("file", file), log.ErrorField(err))
		}
	}
	if failedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) could not be imported",
			failedFiles, len(files))
	}
	return nil
}

func importFile(ctx context.Context, svc *service.ImportService, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := svc.Process(ctx, f)
	if err != nil {
		return err
	}
	log.Info("import finished",
		log.String("file", file),
		log.String("batchId", res.BatchID.String()),
		log.Int("success", res.SuccessCount),
		log.Int("failed", res.FailedCount),
		log.Int("warnings", len(res.Warnings)))
	for _, w := range res.Warnings {
		log.Warn(w, log.String("file", file))
	}
	for _, d := range res.FailedDetails {
		log.Warn("session not stored", log.String("detail", d))
	}
	return nil
}

//nolint:whitespace // can't make the linters happy
func initImport() (
	pool *pgxpool.Pool, svc *service.ImportService, teardown func(), err error,
) {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err := utils.WaitForTCP(postgresAddr, timeout); err != nil {
		return nil, nil, nil, fmt.Errorf("database not ready: %w", err)
	}

	poolOpts := []postgres.PoolConfigOption{}
	if lvl, err := log.ParseLevel(config.SQLLogLevel); err == nil &&
		lvl == log.DebugLevel {
		poolOpts = append(poolOpts, postgres.WithTracer(log.Default().Named("sql")))
	}
	pool = postgres.InitWithURL(config.DB, poolOpts...)

	notifier := notify.NewNoop()
	if config.NatsURL != "" {
		notifier, err = notify.NewNats(config.NatsURL)
		if err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("could not connect messaging: %w", err)
		}
	}
	svc = service.InitImportService(pool,
		service.WithNotifier(notifier),
		service.WithImportWorkers(config.ImportWorkers))
	return pool, svc, notifier.Close, nil
}
