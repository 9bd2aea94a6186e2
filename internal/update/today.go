package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitgrid/internal/habits"
)

func (m Model) handleHabitsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < m.store.Len()-1 {
			m.Cursor++
		}
	case m.Keys.Toggle, "t":
		m.toggleToday()
	case m.Keys.Calendar:
		m.openCalendar(0, 0)
	case m.Keys.Add:
		m.openAddForm("")
	case m.Keys.Edit:
		m.openEditForm()
	case m.Keys.Delete:
		m.requestDelete()
	}
	return m
}

func (m *Model) toggleToday() {
	h, ok := m.selectedHabit()
	if !ok {
		m.Status = StatusBar{Text: "no habit selected", IsError: true}
		return
	}
	tr := m.trackerFor(h).ToggleToday()
	if tr.Marked {
		m.Status = StatusBar{Text: fmt.Sprintf("%s done today", h.Title)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("%s unmarked for today", h.Title)}
	}
}

func (m *Model) requestDelete() {
	h, ok := m.selectedHabit()
	if !ok {
		m.Status = StatusBar{Text: "no habit selected", IsError: true}
		return
	}
	if _, err := m.store.RequestDelete(h.ID); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.Confirm = ConfirmState{Active: true, HabitID: h.ID, Title: h.Title}
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y", "Y":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h, err := m.store.ConfirmDelete(ctx)
		m.Confirm = ConfirmState{}
		if err != nil && !errors.Is(err, habits.ErrWriteThrough) {
			if errors.Is(err, habits.ErrNoPendingDelete) {
				m.Status = StatusBar{Text: "nothing to delete", IsError: true}
			} else {
				m.Status = StatusBar{Text: err.Error(), IsError: true}
			}
			return m
		}
		delete(m.trackers, h.ID)
		m.clampCursor()
		m.Status = StatusBar{Text: fmt.Sprintf("deleted %s", h.Title)}
		if err != nil {
			m.Status = StatusBar{Text: fmt.Sprintf("deleted %s for this session only: %v", h.Title, err), IsError: true}
		}
	case "n", "N", "esc":
		m.store.CancelDelete()
		m.Confirm = ConfirmState{}
		m.Status = StatusBar{Text: "delete cancelled"}
	}
	return m
}
