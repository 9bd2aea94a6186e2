package update

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/model"
	"github.com/sandeepkv93/habitgrid/internal/tracker"
	"github.com/sandeepkv93/habitgrid/internal/views"
)

func (m Model) renderHabitsView() string {
	left, _ := views.PaneWidths(m.Width)
	visible := (left - 10) / 2
	list := m.store.List()
	cards := make([]views.HabitCardData, 0, len(list))
	for i, h := range list {
		t := m.trackerFor(h)
		g := t.Grid()
		cards = append(cards, views.HabitCardData{
			Title:       h.Title,
			Color:       string(h.Color),
			Selected:    i == m.Cursor,
			TodayMarked: t.IsMarked(t.Today()),
			Streak:      t.Stats().CurrentStreak,
			NextDue:     nextDue(h, m.clock.Now()),
			Grid:        gridData(t, visible),
			Width:       left - 4,
			// The card checkbox still shows today's state.
			TodayOffGrid: g.Columns > 0 && !g.CoversToday(),
		})
	}
	return views.RenderHabitsPanel(views.HabitsPanelData{Cards: cards, Today: grid.Key(m.today())})
}

// gridData projects the tracker onto the visible trailing columns.
func gridData(t *tracker.Tracker, visible int) views.GridData {
	g := t.Grid()
	if g.Columns == 0 {
		return views.GridData{Color: string(t.Habit().Color)}
	}
	first := g.FirstVisible(visible)
	data := views.GridData{
		RowLabels: make([]string, grid.Rows),
		Cells:     make([][]grid.CellState, grid.Rows),
		Color:     string(t.Habit().Color),
	}
	for row := 0; row < grid.Rows; row++ {
		data.RowLabels[row] = g.RowLabel(row)
		cells := make([]grid.CellState, 0, g.Columns-first)
		for col := first; col < g.Columns; col++ {
			cells = append(cells, g.State(row, col, t))
		}
		data.Cells[row] = cells
	}
	return data
}

func nextDue(h model.Habit, now time.Time) string {
	next, err := h.Schedule().NextAfter(now)
	if err != nil {
		return "-"
	}
	return next.Format("Mon Jan 2 15:04")
}

func (m Model) renderDetailPane() string {
	h, ok := m.selectedHabit()
	if !ok {
		return ""
	}
	t := m.trackerFor(h)
	st := t.Stats()
	reminder := "-"
	if h.Reminder != nil {
		reminder = h.Reminder.String()
	}
	_, width := views.PaneWidths(m.Width)
	m.detailView.SetContent(views.RenderMarkdown(h.Description, width-4))
	return views.RenderDetail(views.DetailData{
		Title:    h.Title,
		Schedule: h.Days.String(),
		Reminder: reminder,
		Stats: fmt.Sprintf("streak %d | best %d | total %d | rate %.0f%%",
			st.CurrentStreak, st.LongestStreak, st.Total, st.Rate*100),
		MarkdownView: m.detailView.View(),
	})
}
