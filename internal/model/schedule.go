package model

import (
	"errors"
	"time"
)

var ErrEmptySchedule = errors.New("model: schedule has no weekdays")

// Schedule describes on which weekdays a habit is due and at what time the
// reminder would show. Nothing here fires notifications.
type Schedule struct {
	Days WeekdaySet
	At   *TimeOfDay
}

func (s Schedule) Validate() error {
	if s.Days.Len() == 0 {
		return ErrEmptySchedule
	}
	if s.At != nil {
		return s.At.Validate()
	}
	return nil
}

func (s Schedule) DueOn(date time.Time) bool {
	return s.Days.Has(date.Weekday())
}

// NextAfter returns the first due occurrence strictly after from.
func (s Schedule) NextAfter(from time.Time) (time.Time, error) {
	if err := s.Validate(); err != nil {
		return time.Time{}, err
	}
	for i := 0; i <= 7; i++ {
		next := s.occurrence(from.AddDate(0, 0, i))
		if s.DueOn(next) && next.After(from) {
			return next, nil
		}
	}
	return time.Time{}, ErrEmptySchedule
}

func (s Schedule) Preview(from time.Time, count int) ([]time.Time, error) {
	if count <= 0 {
		return []time.Time{}, nil
	}
	out := make([]time.Time, 0, count)
	cursor := from
	for i := 0; i < count; i++ {
		next, err := s.NextAfter(cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		cursor = next
	}
	return out, nil
}

// CountDue counts due calendar days in [from, to].
func (s Schedule) CountDue(from, to time.Time) int {
	start := dateOnly(from)
	end := dateOnly(to)
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if s.DueOn(d) {
			n++
		}
	}
	return n
}

func (s Schedule) occurrence(date time.Time) time.Time {
	if s.At == nil {
		y, m, d := date.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	}
	return s.At.On(date)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
