//nolint:whitespace // can't make both editor and linter happy
package report

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/trackapp/laptelemetry-service-go/log"
	"github.com/trackapp/laptelemetry-service-go/pkg/config"
	"github.com/trackapp/laptelemetry-service-go/pkg/db/postgres"
	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	"github.com/trackapp/laptelemetry-service-go/pkg/processing/rollup"
	"github.com/trackapp/laptelemetry-service-go/pkg/utils"
)

// filter flags shared by the report subcommands
var (
	trackID  int
	driver   string
	fromDate string
	toDate   string
)

func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "reports on imported sessions",
	}
	cmd.PersistentFlags().IntVar(&trackID, "track-id", 0,
		"restrict to this track")
	cmd.PersistentFlags().StringVar(&driver, "driver", "",
		"restrict to this driver (case insensitive)")
	cmd.PersistentFlags().StringVar(&fromDate, "from", "",
		"restrict to sessions on or after this date (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&toDate, "to", "",
		"restrict to sessions on or before this date (YYYY-MM-DD)")
	cmd.AddCommand(newRollupCmd())
	cmd.AddCommand(newInsightsCmd())
	cmd.AddCommand(newSessionsCmd())
	return cmd
}

func setupPool() (*pgxpool.Pool, error) {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err := utils.WaitForTCP(postgresAddr, timeout); err != nil {
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	return postgres.InitWithURL(config.DB), nil
}

func buildFilter() (*model.SessionFilter, error) {
	filter := &model.SessionFilter{}
	if trackID > 0 {
		filter.TrackID = &trackID
	}
	if driver != "" {
		id := rollup.DriverID(driver)
		filter.DriverID = &id
	}
	if fromDate != "" {
		t, err := time.Parse(time.DateOnly, fromDate)
		if err != nil {
			return nil, fmt.Errorf("invalid from date %q: %w", fromDate, err)
		}
		filter.From = &t
	}
	if toDate != "" {
		t, err := time.Parse(time.DateOnly, toDate)
		if err != nil {
			return nil, fmt.Errorf("invalid to date %q: %w", toDate, err)
		}
		filter.To = &t
	}
	return filter, nil
}

// formatLapTime renders milliseconds as m:ss.mmm for the report output.
func formatLapTime(ms int) string {
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%d:%02d.%03d", minutes, seconds, millis)
}

func formatOptLapTime(ms *int) string {
	if ms == nil {
		return "-"
	}
	return formatLapTime(*ms)
}
