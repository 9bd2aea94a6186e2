package grid

import "time"

type MonthCell struct {
	Date       time.Time
	Key        string
	InMonth    bool
	Selectable bool
	Marked     bool
	IsToday    bool
}

// MonthPage is one page of the month picker. Weeks start on Monday.
type MonthPage struct {
	Year       int
	Month      time.Month
	Weeks      [][]MonthCell
	UpperBound string
}

func BuildMonth(year int, month time.Month, today time.Time, marks Membership) MonthPage {
	today = Day(today)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := AddDays(first, -mondayOffset(first.Weekday()))
	end := AddDays(last, 6-mondayOffset(last.Weekday()))

	page := MonthPage{Year: first.Year(), Month: first.Month(), UpperBound: Key(today)}
	week := make([]MonthCell, 0, 7)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := Key(d)
		week = append(week, MonthCell{
			Date:       d,
			Key:        key,
			InMonth:    d.Month() == first.Month(),
			Selectable: !d.After(today),
			Marked:     marks != nil && marks.Has(key),
			IsToday:    d.Equal(today),
		})
		if len(week) == 7 {
			page.Weeks = append(page.Weeks, week)
			week = make([]MonthCell, 0, 7)
		}
	}
	return page
}

// Cell finds the cell for date on this page.
func (p MonthPage) Cell(date time.Time) (MonthCell, bool) {
	key := Key(date)
	for _, week := range p.Weeks {
		for _, c := range week {
			if c.Key == key {
				return c, true
			}
		}
	}
	return MonthCell{}, false
}

func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}

func mondayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}
