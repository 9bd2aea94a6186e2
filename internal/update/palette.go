package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitgrid/internal/commands"
	"github.com/sandeepkv93/habitgrid/internal/report"
	"github.com/sandeepkv93/habitgrid/internal/tracker"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) openPalette() {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.Focus()
	m.commandInput.SetValue("")
	m.Status = StatusBar{Text: "command palette active", IsError: false}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m.openAddForm(a.Title)
			return commands.Result{Message: fmt.Sprintf("new habit: %s", a.Title)}, nil
		},
		Mark: func(a commands.MarkArgs) (commands.Result, error) {
			h, ok := m.selectedHabit()
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no habit selected"}
			}
			date, err := a.Date(m.today())
			if err != nil {
				return commands.Result{}, err
			}
			t := m.trackerFor(h)
			var tr tracker.Transition
			if date.Equal(m.today()) {
				tr = t.ToggleToday()
			} else {
				tr, err = t.ToggleDate(date)
				if err != nil {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
				}
			}
			verb := "unmarked"
			if tr.Marked {
				verb = "marked"
			}
			return commands.Result{Message: fmt.Sprintf("%s %s for %s", tr.Key, verb, h.Title)}, nil
		},
		Goto: func(a commands.GotoArgs) (commands.Result, error) {
			m.openCalendar(a.Year, a.Month)
			if m.CurrentView != ViewCalendar {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no habit selected"}
			}
			return commands.Result{Message: fmt.Sprintf("calendar: %s %d", a.Month, a.Year)}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			h, err := m.store.FindByTitle(a.Title)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			for i, item := range m.store.List() {
				if item.ID == h.ID {
					m.Cursor = i
				}
			}
			m.CurrentView = ViewHabits
			return commands.Result{Message: fmt.Sprintf("selected %s", h.Title)}, nil
		},
		Export: func(a commands.ExportArgs) (commands.Result, error) {
			path, err := report.WriteFile(a.Path, m.Trackers(), m.today())
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "report written to " + path}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	return m
}
