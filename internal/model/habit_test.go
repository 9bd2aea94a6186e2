package model

import (
	"errors"
	"testing"
	"time"
)

func validDraft() Draft {
	r := TimeOfDay{Hour: 7, Minute: 30}
	return Draft{
		Title:    "Gym",
		Color:    Palette[0],
		Reminder: &r,
		Days:     NewWeekdaySet(time.Monday, time.Thursday),
	}
}

func TestDraftCanSaveRequiresAllFour(t *testing.T) {
	d := validDraft()
	if !d.CanSave() {
		t.Fatalf("expected complete draft to be savable, missing=%v", d.Missing())
	}

	cases := []struct {
		name  string
		clear func(*Draft)
		want  string
	}{
		{"title", func(d *Draft) { d.Title = "   " }, "title"},
		{"days", func(d *Draft) { d.Days = 0 }, "days"},
		{"color", func(d *Draft) { d.Color = "" }, "color"},
		{"reminder", func(d *Draft) { d.Reminder = nil }, "reminder"},
	}
	for _, tc := range cases {
		d := validDraft()
		tc.clear(&d)
		if d.CanSave() {
			t.Fatalf("%s: expected save to be disabled", tc.name)
		}
		missing := d.Missing()
		if len(missing) != 1 || missing[0] != tc.want {
			t.Fatalf("%s: unexpected missing fields %v", tc.name, missing)
		}
	}
}

func TestDraftToggleFieldReDisablesSave(t *testing.T) {
	d := validDraft()
	d.Days = d.Days.Toggle(time.Monday).Toggle(time.Thursday)
	if d.CanSave() {
		t.Fatal("expected save disabled after clearing days")
	}
	d.Days = d.Days.Toggle(time.Friday)
	if !d.CanSave() {
		t.Fatal("expected save enabled after selecting a day")
	}
}

func TestDraftHabitRejectsIncomplete(t *testing.T) {
	d := validDraft()
	d.Reminder = nil
	_, err := d.Habit("habit-1", time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrIncompleteHabit) {
		t.Fatalf("expected ErrIncompleteHabit, got %v", err)
	}
}

func TestDraftHabitAndBack(t *testing.T) {
	d := validDraft()
	d.Title = "  Gym  "
	h, err := d.Habit("habit-1", time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("habit from draft: %v", err)
	}
	if h.Title != "Gym" || h.MarksKey() != "marks:habit-1" {
		t.Fatalf("unexpected habit: %+v", h)
	}
	back := DraftOf(h)
	back.Reminder.Hour = 9
	if h.Reminder.Hour != 7 {
		t.Fatal("draft must not alias the habit reminder")
	}
}

func TestHabitValidateInvalidColor(t *testing.T) {
	h, err := validDraft().Habit("habit-1", time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("habit from draft: %v", err)
	}
	h.Color = "#000000"
	if err := h.Validate(); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("7:05")
	if err != nil || got.String() != "07:05" {
		t.Fatalf("unexpected parse result %v %v", got, err)
	}
	for _, bad := range []string{"", "24:00", "12:60", "noon", "1:2"} {
		if _, err := ParseTimeOfDay(bad); !errors.Is(err, ErrInvalidTimeOfDay) {
			t.Fatalf("expected ErrInvalidTimeOfDay for %q, got %v", bad, err)
		}
	}
}

func TestParseWeekdays(t *testing.T) {
	s, err := ParseWeekdays("mon, wed,weekend")
	if err != nil {
		t.Fatalf("parse weekdays: %v", err)
	}
	if s.String() != "mon,wed,sat,sun" {
		t.Fatalf("unexpected weekday set %s", s)
	}
	if _, err := ParseWeekdays("funday"); err == nil {
		t.Fatal("expected error for unknown weekday")
	}
}

func TestColorNextCycles(t *testing.T) {
	last := Palette[len(Palette)-1]
	if got := last.Next(1); got != Palette[0] {
		t.Fatalf("expected wrap to first color, got %s", got)
	}
	if got := Color("").Next(-1); got != last {
		t.Fatalf("expected unset color to start at last for backwards, got %s", got)
	}
	if c, ok := ParseColor(" #FF69B4 "); !ok || c != Palette[0] {
		t.Fatalf("expected palette color, got %s %v", c, ok)
	}
}
