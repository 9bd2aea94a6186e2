package model

import (
	"fmt"
	"strings"
	"time"
)

// WeekdaySet is a bitmask indexed by time.Weekday.
type WeekdaySet uint8

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) With(d time.Weekday) WeekdaySet {
	return s | 1<<uint(d)
}

func (s WeekdaySet) Without(d time.Weekday) WeekdaySet {
	return s &^ (1 << uint(d))
}

func (s WeekdaySet) Toggle(d time.Weekday) WeekdaySet {
	if s.Has(d) {
		return s.Without(d)
	}
	return s.With(d)
}

func (s WeekdaySet) Len() int {
	n := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Weekdays lists members Monday first, matching the form's column order.
func (s WeekdaySet) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for _, d := range WeekOrder {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s WeekdaySet) String() string {
	names := make([]string, 0, 7)
	for _, d := range s.Weekdays() {
		names = append(names, ShortWeekday(d))
	}
	return strings.Join(names, ",")
}

var WeekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

func ShortWeekday(d time.Weekday) string {
	return strings.ToLower(d.String()[:3])
}

// ParseWeekdays reads a comma separated list such as "mon,wed" or
// "weekdays". Unknown tokens are an error.
func ParseWeekdays(raw string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, token := range strings.Split(raw, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		switch token {
		case "":
			continue
		case "weekdays", "weekday":
			s = s.With(time.Monday).With(time.Tuesday).With(time.Wednesday).With(time.Thursday).With(time.Friday)
		case "weekends", "weekend":
			s = s.With(time.Saturday).With(time.Sunday)
		case "daily", "all":
			s = NewWeekdaySet(WeekOrder...)
		case "mon", "monday":
			s = s.With(time.Monday)
		case "tue", "tuesday":
			s = s.With(time.Tuesday)
		case "wed", "wednesday":
			s = s.With(time.Wednesday)
		case "thu", "thursday":
			s = s.With(time.Thursday)
		case "fri", "friday":
			s = s.With(time.Friday)
		case "sat", "saturday":
			s = s.With(time.Saturday)
		case "sun", "sunday":
			s = s.With(time.Sunday)
		default:
			return 0, fmt.Errorf("model: unknown weekday %q", token)
		}
	}
	return s, nil
}
