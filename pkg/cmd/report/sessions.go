package report

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trackapp/laptelemetry-service-go/pkg/service"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "lists imported sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(cmd.Context())
		},
	}
	return cmd
}

func runSessions(ctx context.Context) error {
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
	sessions, err := svc.ListSessions(ctx, filter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tDRIVER\tTRACK\tLAPS\tBEST\tSOURCE")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			s.ID, s.Date.Format("2006-01-02"), s.DriverName, s.TrackName,
			s.LapCount, formatOptLapTime(s.BestLapMs), s.Source)
	}
	return w.Flush()
}
