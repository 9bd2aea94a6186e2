package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/habitgrid/internal/model"
)

func newHabitsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habits",
		Short: "Inspect habits",
	}
	cmd.AddCommand(newHabitsAddCmd(app))
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List habits with their streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := app.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			list := rt.Store.List()
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no habits")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tDAYS\tREMINDER\tSTREAK\tBEST\tTOTAL")
			for _, h := range list {
				tr, err := rt.Tracker(ctx, h, app.Clock, nil)
				if err != nil {
					return err
				}
				st := tr.Stats()
				reminder := "-"
				if h.Reminder != nil {
					reminder = h.Reminder.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n", h.Title, h.Days, reminder, st.CurrentStreak, st.LongestStreak, st.Total)
			}
			return w.Flush()
		},
	})
	return cmd
}

func newHabitsAddCmd(app *App) *cobra.Command {
	var (
		days        string
		color       string
		reminder    string
		description string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := model.ParseWeekdays(days)
			if err != nil {
				return err
			}
			at, err := model.ParseTimeOfDay(reminder)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rt, err := app.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			if !rt.Config.PersistHabits {
				return errors.New("habits add needs persist_habits enabled")
			}

			c := model.Color(color)
			if color == "" {
				c = model.Palette[rt.Store.Len()%len(model.Palette)]
			} else if parsed, ok := model.ParseColor(color); ok {
				c = parsed
			}
			h, err := rt.Store.Create(ctx, model.Draft{
				Title:       args[0],
				Description: description,
				Color:       c,
				Reminder:    &at,
				Days:        set,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", h.Title, h.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&days, "days", "daily", "Scheduled weekdays, e.g. mon,wed,fri or weekdays")
	cmd.Flags().StringVar(&color, "color", "", "Palette color, e.g. #32cd32")
	cmd.Flags().StringVar(&reminder, "at", "08:00", "Reminder time of day (HH:MM)")
	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	return cmd
}
