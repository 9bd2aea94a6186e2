package model

import (
	"fmt"
	"strings"
	"time"
)

// Draft is the editable state behind the habit form.
type Draft struct {
	Title       string
	Description string
	Color       Color
	Reminder    *TimeOfDay
	Days        WeekdaySet
}

func DraftOf(h Habit) Draft {
	d := Draft{
		Title:       h.Title,
		Description: h.Description,
		Color:       h.Color,
		Days:        h.Days,
	}
	if h.Reminder != nil {
		r := *h.Reminder
		d.Reminder = &r
	}
	return d
}

// Missing names the required fields that are still unset, in form order.
func (d Draft) Missing() []string {
	out := make([]string, 0, 4)
	if strings.TrimSpace(d.Title) == "" {
		out = append(out, "title")
	}
	if d.Days.Len() == 0 {
		out = append(out, "days")
	}
	if !d.Color.IsValid() {
		out = append(out, "color")
	}
	if d.Reminder == nil {
		out = append(out, "reminder")
	}
	return out
}

// CanSave is the enabling condition of the form's save control.
func (d Draft) CanSave() bool {
	return len(d.Missing()) == 0
}

func (d Draft) Habit(id string, createdAt time.Time) (Habit, error) {
	if missing := d.Missing(); len(missing) > 0 {
		return Habit{}, fmt.Errorf("%w: missing %s", ErrIncompleteHabit, strings.Join(missing, ", "))
	}
	r := *d.Reminder
	h := Habit{
		ID:          id,
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Color:       d.Color,
		Reminder:    &r,
		Days:        d.Days,
		CreatedAt:   createdAt,
	}
	return h, h.Validate()
}
