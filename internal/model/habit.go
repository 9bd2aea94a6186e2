package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrTitleRequired    = errors.New("model: habit title is required")
	ErrDaysRequired     = errors.New("model: at least one weekday is required")
	ErrInvalidColor     = errors.New("model: invalid habit color")
	ErrReminderRequired = errors.New("model: reminder time is required")
	ErrIncompleteHabit  = errors.New("model: habit is incomplete")
)

// MarksKeyPrefix namespaces completion mark sets in the key-value store.
const MarksKeyPrefix = "marks:"

type Habit struct {
	ID          string
	Title       string
	Description string
	Color       Color
	Reminder    *TimeOfDay
	Days        WeekdaySet
	CreatedAt   time.Time
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("model: habit id is required")
	}
	if strings.TrimSpace(h.Title) == "" {
		return ErrTitleRequired
	}
	if !h.Color.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidColor, h.Color)
	}
	if h.Reminder == nil {
		return ErrReminderRequired
	}
	if err := h.Reminder.Validate(); err != nil {
		return err
	}
	if h.Days.Len() == 0 {
		return ErrDaysRequired
	}
	if h.CreatedAt.IsZero() {
		return errors.New("model: habit created_at is required")
	}
	return nil
}

// MarksKey is the persistence key of the habit's completion marks. It is
// derived from the stable id so renaming a habit keeps its history.
func (h Habit) MarksKey() string {
	return MarksKeyPrefix + h.ID
}

func (h Habit) Schedule() Schedule {
	return Schedule{Days: h.Days, At: h.Reminder}
}
