package tracker

import (
	"time"

	"github.com/sandeepkv93/habitgrid/internal/grid"
)

type Stats struct {
	Total         int
	CurrentStreak int
	LongestStreak int
	DueDays       int
	DoneOnDueDays int
	Rate          float64
}

// Stats summarizes the mark set as of today. The current streak still counts
// when today is not marked yet but yesterday is.
func (t *Tracker) Stats() Stats {
	today := t.Today()
	st := Stats{Total: t.marks.Len()}

	cursor := today
	if !t.marks.Has(grid.Key(cursor)) {
		cursor = grid.AddDays(cursor, -1)
	}
	for t.marks.Has(grid.Key(cursor)) {
		st.CurrentStreak++
		cursor = grid.AddDays(cursor, -1)
	}

	var prev time.Time
	run := 0
	for _, k := range t.marks.Keys() {
		d, err := grid.ParseKey(k)
		if err != nil {
			continue
		}
		if !prev.IsZero() && grid.DaysBetween(prev, d) == 1 {
			run++
		} else {
			run = 1
		}
		if run > st.LongestStreak {
			st.LongestStreak = run
		}
		prev = d
	}

	start := t.epoch
	if created := grid.Day(t.habit.CreatedAt); !t.habit.CreatedAt.IsZero() && created.After(start) {
		start = created
	}
	if start.After(today) {
		return st
	}
	sched := t.habit.Schedule()
	st.DueDays = sched.CountDue(start, today)
	for _, k := range t.marks.Keys() {
		d, err := grid.ParseKey(k)
		if err != nil || d.Before(start) || d.After(today) {
			continue
		}
		if sched.DueOn(d) {
			st.DoneOnDueDays++
		}
	}
	if st.DueDays > 0 {
		st.Rate = float64(st.DoneOnDueDays) / float64(st.DueDays)
	}
	return st
}
