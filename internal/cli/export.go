package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/report"
	"github.com/sandeepkv93/habitgrid/internal/tracker"
)

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write a PDF report of all habits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := app.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			list := rt.Store.List()
			trackers := make([]*tracker.Tracker, 0, len(list))
			for _, h := range list {
				tr, err := rt.Tracker(ctx, h, app.Clock, nil)
				if err != nil {
					return err
				}
				trackers = append(trackers, tr)
			}
			path, err := report.WriteFile(args[0], trackers, grid.Today(app.Clock))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", path)
			return nil
		},
	}
}
