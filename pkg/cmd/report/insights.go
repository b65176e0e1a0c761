package report

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/trackapp/laptelemetry-service-go/pkg/processing/insights"
	"github.com/trackapp/laptelemetry-service-go/pkg/service"
)

func newInsightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights session-id",
		Short: "shows performance insights for one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsights(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runInsights(ctx context.Context, arg string) error {
	id, err := uuid.FromString(arg)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", arg, err)
	}
	pool, err := setupPool()
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := service.InitQueryService(pool)
	sess, data, err := svc.SessionInsights(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Session %s\n", sess.ID)
	fmt.Printf("  %s at %s on %s (%d laps, source %s)\n",
		sess.DriverName, sess.TrackName, sess.Date.Format("2006-01-02"),
		sess.LapCount, sess.Source)
	fmt.Printf("  Best lap:       %s\n", formatOptLapTime(sess.BestLapMs))

	consistencyLabel, _ := insights.ScoreLabel(data.ConsistencyScore)
	behaviorLabel, _ := insights.ScoreLabel(data.DrivingBehaviorScore)
	fmt.Printf("  Consistency:    %s (%s)\n",
		formatScore(data.ConsistencyScore), consistencyLabel)
	fmt.Printf("  Behavior:       %s (%s)\n",
		formatScore(data.DrivingBehaviorScore), behaviorLabel)
	fmt.Printf("  Pace trend:     %s\n", data.PaceTrendLabel)
	fmt.Printf("                  %s\n", data.PaceTrendDetail)
	return nil
}

func formatScore(score *int) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%d/100", *score)
}
