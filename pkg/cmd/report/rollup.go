package report

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	"github.com/trackapp/laptelemetry-service-go/pkg/service"
)

var improvingOnly bool

func newRollupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollup",
		Short: "shows per driver/track summary rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRollup(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&improvingOnly, "improving", false,
		"only show driver/track groups with an improving trend")
	return cmd
}

func runRollup(ctx context.Context) error {
	pool, err := setupPool()
	if err != nil {
		return err
	}
	defer pool.Close()

	filter, err := buildFilter()
	if err != nil {
		return err
	}
	svc := service.InitQueryService(pool)
	var rows []*model.DriverTrackRollupRow
	if improvingOnly {
		rows, err = svc.ImprovingDrivers(ctx, filter)
	} else {
		rows, err = svc.Rollup(ctx, filter)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w,
		"DRIVER\tTRACK\tSESSIONS\tLAPS\tBEST\tAVG BEST\tLAST SESSION")
	for _, row := range rows {
		avgBest := "-"
		if row.AvgBestLapMs != nil {
			avgBest = formatLapTime(int(*row.AvgBestLapMs))
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			row.DriverName, row.TrackName, row.SessionCount, row.TotalLaps,
			formatOptLapTime(row.BestLapMs), avgBest,
			row.LastSession.Format("2006-01-02"))
	}
	return w.Flush()
}
