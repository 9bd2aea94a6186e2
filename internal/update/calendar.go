package update

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/tracker"
	"github.com/sandeepkv93/habitgrid/internal/views"
)

// openCalendar shows the month picker for the selected habit. A zero year
// opens on the current month with the cursor on today.
func (m *Model) openCalendar(year int, month time.Month) {
	if _, ok := m.selectedHabit(); !ok {
		m.Status = StatusBar{Text: "no habit selected", IsError: true}
		return
	}
	today := m.today()
	m.Calendar = CalendarState{Year: today.Year(), Month: today.Month(), Cursor: today}
	if year != 0 {
		m.Calendar.Year, m.Calendar.Month = year, month
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		if first.After(today) {
			first = today
		}
		m.Calendar.Cursor = first
	}
	m.CurrentView = ViewCalendar
}

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc", "q":
		m.CurrentView = ViewHabits
		m.Status = StatusBar{Text: "calendar closed"}
	case "h", "left":
		m.moveCalendarCursor(-1)
	case "l", "right":
		m.moveCalendarCursor(1)
	case "k", "up":
		m.moveCalendarCursor(-7)
	case "j", "down":
		m.moveCalendarCursor(7)
	case "[":
		m.shiftCalendarMonth(-1)
	case "]":
		m.shiftCalendarMonth(1)
	case "enter", " ":
		m.toggleCalendarCursor()
	}
	return m
}

func (m *Model) moveCalendarCursor(days int) {
	next := grid.AddDays(m.Calendar.Cursor, days)
	m.Calendar.Cursor = next
	m.Calendar.Year, m.Calendar.Month = next.Year(), next.Month()
}

func (m *Model) shiftCalendarMonth(delta int) {
	m.Calendar.Year, m.Calendar.Month = grid.ShiftMonth(m.Calendar.Year, m.Calendar.Month, delta)
	day := m.Calendar.Cursor.Day()
	last := time.Date(m.Calendar.Year, m.Calendar.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	m.Calendar.Cursor = time.Date(m.Calendar.Year, m.Calendar.Month, day, 0, 0, 0, 0, time.UTC)
	m.Status = StatusBar{Text: fmt.Sprintf("calendar: %s %d", m.Calendar.Month, m.Calendar.Year)}
}

func (m *Model) toggleCalendarCursor() {
	h, ok := m.selectedHabit()
	if !ok {
		return
	}
	tr, err := m.trackerFor(h).ToggleDate(m.Calendar.Cursor)
	if err != nil {
		if errors.Is(err, tracker.ErrFutureDate) {
			m.Status = StatusBar{Text: fmt.Sprintf("%s is in the future", tr.Key), IsError: true}
			return
		}
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	verb := "unmarked"
	if tr.Marked {
		verb = "marked"
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s %s for %s", tr.Key, verb, h.Title)}
}

func (m Model) renderCalendarView() string {
	h, ok := m.selectedHabit()
	if !ok {
		return "(no habit selected)"
	}
	t := m.trackerFor(h)
	page := t.Month(m.Calendar.Year, m.Calendar.Month)
	cursorKey := grid.Key(m.Calendar.Cursor)
	weeks := make([][]views.MonthDayData, 0, len(page.Weeks))
	for _, week := range page.Weeks {
		row := make([]views.MonthDayData, 0, len(week))
		for _, c := range week {
			row = append(row, views.MonthDayData{
				Key:        c.Key,
				Label:      strconv.Itoa(c.Date.Day()),
				InMonth:    c.InMonth,
				Selectable: c.Selectable,
				IsToday:    c.IsToday,
				Cursor:     c.Key == cursorKey,
			})
		}
		weeks = append(weeks, row)
	}
	decorations := make(map[string]string)
	for key, color := range t.Decorations() {
		decorations[key] = string(color)
	}
	return views.RenderMonthPicker(views.MonthPickerData{
		HabitTitle:  h.Title,
		Heading:     fmt.Sprintf("%s %d", page.Month, page.Year),
		Weeks:       weeks,
		UpperBound:  t.UpperBound(),
		Decorations: decorations,
	})
}
