package grid

import (
	"errors"
	"testing"
	"time"
)

type keySet map[string]bool

func (s keySet) Has(key string) bool { return s[key] }

func day(t *testing.T, key string) time.Time {
	t.Helper()
	out, err := ParseKey(key)
	if err != nil {
		t.Fatalf("parse %q: %v", key, err)
	}
	return out
}

func TestBuildOneWeekElapsed(t *testing.T) {
	g := Build(day(t, "2024-04-01"), day(t, "2024-04-08"))
	if g.Columns != 1 {
		t.Fatalf("expected 1 column, got %d", g.Columns)
	}
	if got := g.Key(0, 0); got != "2024-04-01" {
		t.Fatalf("cell (0,0) = %s, want 2024-04-01", got)
	}
	if got := g.Key(6, 0); got != "2024-04-07" {
		t.Fatalf("cell (6,0) = %s, want 2024-04-07", got)
	}
}

func TestBuildIsDeterministicWithinADay(t *testing.T) {
	epoch := day(t, "2024-04-01")
	morning := time.Date(2024, 5, 17, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 17, 23, 59, 0, 0, time.UTC)

	a := Build(epoch, morning)
	b := Build(epoch, evening)
	if a.Columns != b.Columns {
		t.Fatalf("columns drifted within a day: %d vs %d", a.Columns, b.Columns)
	}
	for c := 0; c < a.Columns; c++ {
		for r := 0; r < Rows; r++ {
			if a.Key(r, c) != b.Key(r, c) {
				t.Fatalf("cell (%d,%d) drifted: %s vs %s", r, c, a.Key(r, c), b.Key(r, c))
			}
		}
	}
}

func TestColumnsRoundUpPartialWeeks(t *testing.T) {
	epoch := day(t, "2024-04-01")
	cases := []struct {
		today string
		want  int
	}{
		{"2024-04-01", 0},
		{"2024-04-02", 1},
		{"2024-04-08", 1},
		{"2024-04-09", 2},
		{"2024-04-15", 2},
	}
	for _, tc := range cases {
		if got := Columns(epoch, day(t, tc.today)); got != tc.want {
			t.Fatalf("columns(%s) = %d, want %d", tc.today, got, tc.want)
		}
	}
}

func TestColumnsClampWhenTodayBeforeEpoch(t *testing.T) {
	g := Build(day(t, "2024-07-01"), day(t, "2024-06-01"))
	if g.Columns != 0 {
		t.Fatalf("expected zero columns, got %d", g.Columns)
	}
	if g.Contains(0, 0) {
		t.Fatal("empty grid must not contain cells")
	}
	if state := g.State(0, 0, nil); state != CellOutside {
		t.Fatalf("expected outside state, got %s", state)
	}
}

func TestCellStates(t *testing.T) {
	g := Build(day(t, "2024-04-01"), day(t, "2024-04-11"))
	marks := keySet{"2024-04-02": true}

	if s := g.State(1, 0, marks); s != CellMarked {
		t.Fatalf("2024-04-02 state = %s, want marked", s)
	}
	if s := g.State(3, 1, marks); s != CellUnmarked {
		t.Fatalf("today state = %s, want unmarked", s)
	}
	if s := g.State(4, 1, marks); s != CellFuture {
		t.Fatalf("2024-04-12 state = %s, want future", s)
	}
}

func TestLocateRoundTrip(t *testing.T) {
	g := Build(day(t, "2024-04-01"), day(t, "2024-05-20"))
	row, col, ok := g.Locate(day(t, "2024-04-17"))
	if !ok {
		t.Fatal("expected date inside grid")
	}
	if got := g.Key(row, col); got != "2024-04-17" {
		t.Fatalf("locate round trip gave %s", got)
	}
	if _, _, ok := g.Locate(day(t, "2024-03-31")); ok {
		t.Fatal("date before epoch must not be located")
	}
}

func TestRowLabelsFollowEpochWeekday(t *testing.T) {
	g := Build(day(t, "2024-04-03"), day(t, "2024-05-01")) // Wednesday
	want := []string{"W", "T", "F", "S", "S", "M", "T"}
	for r, w := range want {
		if got := g.RowLabel(r); got != w {
			t.Fatalf("row %d label = %s, want %s", r, got, w)
		}
	}
}

func TestFirstVisibleKeepsRecentColumns(t *testing.T) {
	g := Grid{Columns: 40}
	if got := g.FirstVisible(12); got != 28 {
		t.Fatalf("expected first visible 28, got %d", got)
	}
	if got := g.FirstVisible(50); got != 0 {
		t.Fatalf("expected first visible 0, got %d", got)
	}
}

func TestKeyUsesLocalCalendarDate(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*3600)
	late := time.Date(2024, 4, 8, 23, 30, 0, 0, zone)
	if got := Key(late); got != "2024-04-08" {
		t.Fatalf("expected local date key, got %s", got)
	}
}

func TestParseKeyRejectsAmbiguousInput(t *testing.T) {
	for _, in := range []string{"", "2024-4-1", "Apr 1 2024", "2024-02-30"} {
		if _, err := ParseKey(in); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey for %q, got %v", in, err)
		}
	}
}

func TestCoversTodayOnWeekBoundaries(t *testing.T) {
	epoch := day(t, "2024-07-01")
	cases := map[string]bool{
		"2024-06-30": false,
		"2024-07-01": false,
		"2024-07-04": true,
		"2024-07-08": false,
		"2024-07-09": true,
	}
	for today, want := range cases {
		if got := Build(epoch, day(t, today)).CoversToday(); got != want {
			t.Fatalf("CoversToday on %s = %v, want %v", today, got, want)
		}
	}
}
