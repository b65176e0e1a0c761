package track

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/trackapp/laptelemetry-service-go/log"
	"github.com/trackapp/laptelemetry-service-go/pkg/config"
	"github.com/trackapp/laptelemetry-service-go/pkg/db/postgres"
	"github.com/trackapp/laptelemetry-service-go/pkg/utils"
)

func NewTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "manages the track registry",
	}
	cmd.AddCommand(newTrackAddCmd())
	cmd.AddCommand(newTrackListCmd())
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
