package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForCelebrationCmd(m.celebrator.C()),
		minuteTickCmd(),
	}
	if m.writer != nil {
		cmds = append(cmds, waitForPersistCmd(m.writer.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = typed.Width
		_, right := views.PaneWidths(m.Width)
		m.detailView.Width = right
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Confirm.Active {
			return m.handleConfirmKey(typed), nil
		}
		if m.Form.Active {
			return m.handleFormKey(typed), nil
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}

		switch typed.String() {
		case m.Keys.Palette:
			m.openPalette()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case m.Keys.Quit:
			if m.CurrentView == ViewHabits {
				m.Quitting = true
				return m, tea.Quit
			}
		}
		if m.CurrentView == ViewCalendar {
			return m.handleCalendarKey(typed), nil
		}
		return m.handleHabitsKey(typed), nil
	case CelebrationMsg:
		return m.onCelebration(typed.Celebration)
	case ConfettiDoneMsg:
		return m.onConfettiDone(typed.Seq), nil
	case PersistResultMsg:
		return m.onPersistResult(typed.Result)
	case MinuteTickMsg:
		return m.onMinuteTick()
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.logger.Error("app error", zap.Error(typed.Err))
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	left := ""
	switch m.CurrentView {
	case ViewCalendar:
		left = m.renderCalendarView()
	default:
		left = m.renderHabitsView()
	}

	overlay := ""
	switch {
	case m.Confirm.Active:
		overlay = views.RenderConfirm(views.ConfirmData{Title: m.Confirm.Title})
	case m.Form.Active:
		overlay = m.renderForm()
	case m.Palette.Active:
		overlay = views.RenderCommandPalette(true, m.commandInput.View())
	case m.HelpVisible:
		overlay = m.renderHelpView()
	}

	banner := ""
	if m.Celebration.Active {
		banner = views.RenderConfetti(m.Celebration.Seq, m.Celebration.Title, m.Width)
	}

	selected := "-"
	if h, ok := m.selectedHabit(); ok {
		selected = h.Title
	}
	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("habitgrid | view: %s | selected: %s | %s", m.CurrentView, selected, grid.Key(m.today())),
		Banner:     banner,
		LeftPane:   left,
		RightPane:  m.renderDetailPane(),
		Overlay:    overlay,
		StatusLine: status,
		IsError:    m.Status.IsError,
		Footer:     m.footer(),
		Width:      m.Width,
	})
}

func (m Model) footer() string {
	parts := make([]string, 0, 8)
	for _, kb := range m.viewBindings() {
		parts = append(parts, kb.Key+" "+kb.Action)
	}
	for _, kb := range m.globalBindings() {
		parts = append(parts, kb.Key+" "+kb.Action)
	}
	return "keys: " + strings.Join(parts, " | ")
}
