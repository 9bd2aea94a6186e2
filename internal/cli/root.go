package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sandeepkv93/habitgrid/internal/config"
	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/persist"
	"github.com/sandeepkv93/habitgrid/internal/update"
	"github.com/sandeepkv93/habitgrid/internal/views"
)

var ErrNotTerminal = errors.New("habitgrid: the interactive view needs a terminal")

type App struct {
	ConfigPath string
	Clock      grid.Clock
	// IsTerminal reports whether the TUI can take over stdout.
	IsTerminal func() bool
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{
		Clock:      grid.SystemClock{},
		IsTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "habitgrid",
		Short:        "Habit tracker with a contribution-style grid",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive view
  habitgrid

  # Scriptable commands
  habitgrid habits list
  habitgrid mark Gym yesterday
  habitgrid export report.pdf
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("HABITGRID_CONFIG", "habitgrid.yaml"), "Path to YAML config file")

	cmd.AddCommand(newHabitsCmd(app))
	cmd.AddCommand(newMarkCmd(app))
	cmd.AddCommand(newExportCmd(app))
	return cmd
}

func (app *App) open(ctx context.Context) (*Runtime, error) {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return openRuntime(ctx, cfg, app.Clock)
}

func runTUI(ctx context.Context, app *App) error {
	if app.IsTerminal != nil && !app.IsTerminal() {
		return ErrNotTerminal
	}
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	writer := persist.NewWriter(rt.KV, rt.Config.WriterBuffer)
	writer.Start()
	defer writer.Stop()

	m := update.NewModel(update.Deps{
		Config: rt.Config,
		Clock:  app.Clock,
		Store:  rt.Store,
		Reader: rt.KV,
		Writer: writer,
		Logger: rt.Logger,
	})
	_ = m.Load(ctx)

	views.ApplyColorProfile()
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("habitgrid failed: %w", err)
	}
	return nil
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}
