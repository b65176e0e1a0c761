package track

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	trackrepos "github.com/trackapp/laptelemetry-service-go/pkg/repository/track"
)

func newTrackListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "lists the registered tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTracks(cmd.Context())
		},
	}
	return cmd
}

func listTracks(ctx context.Context) error {
	pool, err := setupPool()
	if err != nil {
		return err
	}
	defer pool.Close()

	tracks, err := trackrepos.LoadAll(ctx, pool)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSHORT\tLENGTH (m)")
	for _, t := range tracks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\n",
			t.ID, t.Name, t.ShortName, t.LengthMeters)
	}
	return w.Flush()
}
