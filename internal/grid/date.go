package grid

import (
	"errors"
	"fmt"
	"time"
)

// KeyLayout is the canonical date key used to index completion marks.
const KeyLayout = "2006-01-02"

var ErrInvalidKey = errors.New("grid: invalid date key")

// Clock supplies the current instant. Today is always derived from it per
// render pass, never cached at startup.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Day returns the calendar date of t as midnight UTC. All grid arithmetic
// happens on these values so DST shifts never move a cell.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Today(c Clock) time.Time {
	if c == nil {
		c = SystemClock{}
	}
	return Day(c.Now())
}

func Key(t time.Time) string {
	return Day(t).Format(KeyLayout)
}

func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if t.Format(KeyLayout) != key {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return t, nil
}

func MustParseKey(key string) time.Time {
	t, err := ParseKey(key)
	if err != nil {
		panic(err)
	}
	return t
}

// DaysBetween counts calendar days from a to b; negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / (24 * time.Hour))
}

func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}
