package track

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/trackapp/laptelemetry-service-go/log"
	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	trackrepos "github.com/trackapp/laptelemetry-service-go/pkg/repository/track"
)

var (
	shortName    string
	lengthMeters float64
)

func newTrackAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add name",
		Short: "registers a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return addTrack(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&shortName, "short-name", "", "abbreviated track name")
	cmd.Flags().Float64Var(&lengthMeters, "length-meters", 0, "track length in meters")
	return cmd
}

func addTrack(ctx context.Context, name string) error {
	pool, err := setupPool()
	if err != nil {
		return err
	}
	defer pool.Close()

	entry := &model.Track{
		Name:         name,
		ShortName:    shortName,
		LengthMeters: lengthMeters,
	}
	if err := trackrepos.Create(ctx, pool, entry); err != nil {
		return err
	}
	log.Info("track registered",
		log.Int("id", entry.ID), log.String("name", entry.Name))
	return nil
}
