package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/habitgrid/internal/commands"
	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/persist"
	"github.com/sandeepkv93/habitgrid/internal/tracker"
)

func newMarkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <title> [today|yesterday|YYYY-MM-DD]",
		Short: "Toggle a habit's completion for a date",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := app.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			h, err := rt.Store.FindByTitle(args[0])
			if err != nil {
				return err
			}
			when := "today"
			if len(args) == 2 {
				when = args[1]
			}
			today := grid.Today(app.Clock)
			date, err := commands.ResolveDate(when, today)
			if err != nil {
				return err
			}

			saver := &recordingPersister{sync: persist.Sync{Store: rt.KV}}
			tr, err := rt.Tracker(ctx, h, app.Clock, saver)
			if err != nil {
				return err
			}
			var res tracker.Transition
			if date.Equal(today) {
				res = tr.ToggleToday()
			} else if res, err = tr.ToggleDate(date); err != nil {
				return err
			}
			if saver.err != nil {
				return fmt.Errorf("save %s for %s: %w", res.Key, h.Title, saver.err)
			}
			state := "unmarked"
			if res.Marked {
				state = "marked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", h.Title, res.Key, state)
			return nil
		},
	}
}

// recordingPersister writes through and keeps the first failure. The
// tracker only logs persist errors, but a one-shot command must report them.
type recordingPersister struct {
	sync persist.Sync
	err  error
}

func (p *recordingPersister) Persist(key, value string) error {
	err := p.sync.Persist(key, value)
	if err != nil && p.err == nil {
		p.err = err
	}
	return err
}
