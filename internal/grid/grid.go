package grid

import "time"

// Rows is fixed: one row per weekday.
const Rows = 7

type CellState int

const (
	CellUnmarked CellState = iota
	CellMarked
	CellFuture
	CellOutside
)

func (s CellState) String() string {
	switch s {
	case CellMarked:
		return "marked"
	case CellFuture:
		return "future"
	case CellUnmarked:
		return "unmarked"
	default:
		return "outside"
	}
}

// Membership answers whether a canonical date key is marked.
type Membership interface {
	Has(key string) bool
}

// Grid maps (row, column) to calendar dates starting at Epoch. It holds no
// marks; states are resolved against a Membership at read time.
type Grid struct {
	Epoch   time.Time
	Today   time.Time
	Columns int
}

func Build(epoch, today time.Time) Grid {
	return Grid{
		Epoch:   Day(epoch),
		Today:   Day(today),
		Columns: Columns(epoch, today),
	}
}

// Columns is ceil(elapsed days / 7), clamped at zero when today precedes
// the epoch.
func Columns(epoch, today time.Time) int {
	days := DaysBetween(epoch, today)
	if days <= 0 {
		return 0
	}
	return (days + Rows - 1) / Rows
}

func (g Grid) Contains(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < g.Columns
}

func (g Grid) Date(row, col int) time.Time {
	return AddDays(g.Epoch, col*Rows+row)
}

func (g Grid) Key(row, col int) string {
	return Key(g.Date(row, col))
}

// Locate returns the cell holding date, if the grid covers it.
func (g Grid) Locate(date time.Time) (row, col int, ok bool) {
	idx := DaysBetween(g.Epoch, date)
	if idx < 0 {
		return 0, 0, false
	}
	row, col = idx%Rows, idx/Rows
	return row, col, g.Contains(row, col)
}

// CoversToday is false on the epoch and whenever the elapsed days are a
// multiple of seven: ceil(days/7) columns end the day before today.
func (g Grid) CoversToday() bool {
	if g.Today.Before(g.Epoch) {
		return false
	}
	_, _, ok := g.Locate(g.Today)
	return ok
}

func (g Grid) State(row, col int, marks Membership) CellState {
	if !g.Contains(row, col) {
		return CellOutside
	}
	date := g.Date(row, col)
	if marks != nil && marks.Has(Key(date)) {
		return CellMarked
	}
	if date.After(g.Today) {
		return CellFuture
	}
	return CellUnmarked
}

var weekdayLetters = map[time.Weekday]string{
	time.Monday:    "M",
	time.Tuesday:   "T",
	time.Wednesday: "W",
	time.Thursday:  "T",
	time.Friday:    "F",
	time.Saturday:  "S",
	time.Sunday:    "S",
}

// RowLabel is the weekday letter shared by every cell of the row.
func (g Grid) RowLabel(row int) string {
	return weekdayLetters[AddDays(g.Epoch, row).Weekday()]
}

// FirstVisible returns the first column to draw when only width columns fit,
// keeping the most recent column on screen.
func (g Grid) FirstVisible(width int) int {
	if width <= 0 || g.Columns <= width {
		return 0
	}
	return g.Columns - width
}
