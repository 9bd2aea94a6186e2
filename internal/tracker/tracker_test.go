package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/model"
	"github.com/sandeepkv93/habitgrid/internal/persist"
	"github.com/sandeepkv93/habitgrid/internal/storage"
)

var (
	testEpoch = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	testNow   = time.Date(2024, 7, 10, 9, 30, 0, 0, time.UTC)
)

func testHabit(id, title string) model.Habit {
	return model.Habit{
		ID:        id,
		Title:     title,
		Color:     model.Palette[0],
		Reminder:  &model.TimeOfDay{Hour: 7},
		Days:      model.NewWeekdaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday),
		CreatedAt: testEpoch,
	}
}

func newTestTracker(t *testing.T, opts Options) *Tracker {
	t.Helper()
	if opts.Epoch.IsZero() {
		opts.Epoch = testEpoch
	}
	if opts.Clock == nil {
		opts.Clock = grid.FixedClock{At: testNow}
	}
	tr := New(testHabit("h1", "Gym"), opts)
	if err := tr.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return tr
}

func TestToggleDateTwiceRestoresState(t *testing.T) {
	tr := newTestTracker(t, Options{})
	date := grid.MustParseKey("2024-07-04")

	first, err := tr.ToggleDate(date)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !first.Marked || first.Key != "2024-07-04" {
		t.Fatalf("unexpected first transition: %+v", first)
	}
	second, err := tr.ToggleDate(date)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if second.Marked || tr.IsMarked(date) {
		t.Fatalf("expected date to be unmarked after two toggles")
	}
}

func TestGridAndMonthShareMarks(t *testing.T) {
	tr := newTestTracker(t, Options{})
	tr.ToggleToday()

	g := tr.Grid()
	row, col, ok := g.Locate(tr.Today())
	if !ok {
		t.Fatalf("today should be inside the grid")
	}
	if got := g.State(row, col, tr.marks); got != grid.CellMarked {
		t.Fatalf("grid state = %v, want marked", got)
	}
	page := tr.Month(2024, time.July)
	cell, ok := page.Cell(tr.Today())
	if !ok || !cell.Marked {
		t.Fatalf("month cell for today should be marked: %+v", cell)
	}

	if _, err := tr.ToggleKey("2024-07-03"); err != nil {
		t.Fatalf("toggle key: %v", err)
	}
	row, col, _ = g.Locate(grid.MustParseKey("2024-07-03"))
	if got := g.State(row, col, tr.marks); got != grid.CellMarked {
		t.Fatalf("picker toggle not visible on grid: %v", got)
	}
	if tr.Decorations()["2024-07-03"] != model.Palette[0] {
		t.Fatalf("expected decoration in habit color")
	}
}

func TestToggleTodayCelebratesOnlyNewMarks(t *testing.T) {
	ctrl := gomock.NewController(t)
	cel := NewMockCelebrator(ctrl)
	cel.EXPECT().Celebrate(gomock.Any()).Do(func(c Celebration) {
		if c.HabitID != "h1" || c.Key != "2024-07-10" || c.Title != "Gym" {
			t.Fatalf("unexpected celebration: %+v", c)
		}
	}).Times(2)

	tr := newTestTracker(t, Options{Celebrator: cel})
	want := []bool{true, false, true}
	for i, celebrated := range want {
		got := tr.ToggleToday()
		if got.Celebrated != celebrated {
			t.Fatalf("toggle %d celebrated = %v, want %v", i, got.Celebrated, celebrated)
		}
	}
}

func TestPickerToggleDoesNotCelebrate(t *testing.T) {
	ctrl := gomock.NewController(t)
	cel := NewMockCelebrator(ctrl)
	cel.EXPECT().Celebrate(gomock.Any()).Times(0)

	tr := newTestTracker(t, Options{Celebrator: cel})
	if _, err := tr.ToggleDate(tr.Today()); err != nil {
		t.Fatalf("toggle: %v", err)
	}
}

func TestToggleDateRejectsFuture(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := NewMockPersister(ctrl)
	p.EXPECT().Persist(gomock.Any(), gomock.Any()).Times(0)

	tr := newTestTracker(t, Options{Persister: p})
	_, err := tr.ToggleDate(grid.MustParseKey("2099-01-01"))
	if !errors.Is(err, ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
	if len(tr.Marks()) != 0 {
		t.Fatalf("future toggle must not change marks")
	}
}

func TestEveryToggleWritesFullSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := NewMockPersister(ctrl)
	gomock.InOrder(
		p.EXPECT().Persist("marks:h1", `["2024-07-10"]`).Return(nil),
		p.EXPECT().Persist("marks:h1", `["2024-07-02","2024-07-10"]`).Return(nil),
	)

	tr := newTestTracker(t, Options{Persister: p})
	tr.ToggleToday()
	if _, err := tr.ToggleKey("2024-07-02"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
}

func TestPersistFailureIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := NewMockPersister(ctrl)
	p.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	core, logs := observer.New(zap.WarnLevel)
	tr := newTestTracker(t, Options{Persister: p, Logger: zap.New(core)})
	got := tr.ToggleToday()
	if !got.Marked || !tr.IsMarked(tr.Today()) {
		t.Fatalf("in-memory state should keep the mark on write failure")
	}
	entries := logs.FilterMessage("save marks failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one save failure log, got %d", len(entries))
	}
	if entries[0].ContextMap()["habit_id"] != "h1" {
		t.Fatalf("missing habit_id field: %v", entries[0].ContextMap())
	}
}

func TestPersistenceRoundTripAcrossHabits(t *testing.T) {
	kv := storage.NewFileKV(filepath.Join(t.TempDir(), "marks.json"))
	writer := persist.Sync{Store: kv}
	clock := grid.FixedClock{At: testNow}

	gym := New(testHabit("gym", "Gym"), Options{Epoch: testEpoch, Clock: clock, Reader: kv, Persister: writer})
	read := New(testHabit("read", "Read"), Options{Epoch: testEpoch, Clock: clock, Reader: kv, Persister: writer})
	for _, tr := range []*Tracker{gym, read} {
		if err := tr.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	gym.ToggleToday()
	if _, err := read.ToggleKey("2024-07-05"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	reloadedGym := New(testHabit("gym", "Gym"), Options{Epoch: testEpoch, Clock: clock, Reader: kv})
	reloadedRead := New(testHabit("read", "Read"), Options{Epoch: testEpoch, Clock: clock, Reader: kv})
	if err := reloadedGym.Load(context.Background()); err != nil {
		t.Fatalf("reload gym: %v", err)
	}
	if err := reloadedRead.Load(context.Background()); err != nil {
		t.Fatalf("reload read: %v", err)
	}
	if got := reloadedGym.Marks(); len(got) != 1 || got[0] != "2024-07-10" {
		t.Fatalf("gym marks = %v", got)
	}
	if got := reloadedRead.Marks(); len(got) != 1 || got[0] != "2024-07-05" {
		t.Fatalf("read marks = %v", got)
	}
}

func TestLoadMalformedDataStartsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewMockReader(ctrl)
	r.EXPECT().Get(gomock.Any(), "marks:h1").Return("{not json", true, nil)

	core, logs := observer.New(zap.WarnLevel)
	tr := New(testHabit("h1", "Gym"), Options{Epoch: testEpoch, Clock: grid.FixedClock{At: testNow}, Reader: r, Logger: zap.New(core)})
	err := tr.Load(context.Background())
	if !errors.Is(err, ErrMalformedMarks) {
		t.Fatalf("expected ErrMalformedMarks, got %v", err)
	}
	if !tr.Loaded() || len(tr.Marks()) != 0 {
		t.Fatalf("expected loaded empty set")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected a warning, got %d", logs.Len())
	}
	tr.ToggleToday()
	if !tr.IsMarked(tr.Today()) {
		t.Fatalf("tracker should stay usable after malformed load")
	}
}

func TestLoadReadErrorIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewMockReader(ctrl)
	r.EXPECT().Get(gomock.Any(), "marks:h1").Return("", false, errors.New("connection refused"))

	core, logs := observer.New(zap.WarnLevel)
	tr := New(testHabit("h1", "Gym"), Options{Epoch: testEpoch, Clock: grid.FixedClock{At: testNow}, Reader: r, Logger: zap.New(core)})
	if err := tr.Load(context.Background()); err == nil {
		t.Fatalf("expected read error")
	}
	if logs.FilterMessage("load marks failed").Len() != 1 {
		t.Fatalf("expected load failure log")
	}
	if len(tr.Marks()) != 0 {
		t.Fatalf("expected empty marks")
	}
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewMockReader(ctrl)
	r.EXPECT().Get(gomock.Any(), "marks:h1").Return("", false, nil)

	tr := New(testHabit("h1", "Gym"), Options{Epoch: testEpoch, Clock: grid.FixedClock{At: testNow}, Reader: r})
	if err := tr.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tr.Marks()) != 0 {
		t.Fatalf("expected empty marks")
	}
}

func TestSetHabitKeepsID(t *testing.T) {
	tr := newTestTracker(t, Options{})
	renamed := testHabit("h1", "Lift")
	if err := tr.SetHabit(renamed); err != nil {
		t.Fatalf("set habit: %v", err)
	}
	if tr.Key() != "marks:h1" {
		t.Fatalf("key changed on rename: %s", tr.Key())
	}
	if err := tr.SetHabit(testHabit("h2", "Lift")); err == nil {
		t.Fatalf("expected error when id changes")
	}
}

func TestTodayFollowsClock(t *testing.T) {
	clock := &movingClock{at: testNow}
	tr := New(testHabit("h1", "Gym"), Options{Epoch: testEpoch, Clock: clock})
	if tr.UpperBound() != "2024-07-10" {
		t.Fatalf("upper bound = %s", tr.UpperBound())
	}
	clock.at = clock.at.Add(24 * time.Hour)
	if tr.UpperBound() != "2024-07-11" {
		t.Fatalf("upper bound after midnight = %s", tr.UpperBound())
	}
	if got := tr.ToggleToday(); got.Key != "2024-07-11" {
		t.Fatalf("toggle today key = %s", got.Key)
	}
}

type movingClock struct{ at time.Time }

func (c *movingClock) Now() time.Time { return c.at }

func TestStats(t *testing.T) {
	tr := newTestTracker(t, Options{})
	for _, k := range []string{"2024-07-02", "2024-07-03", "2024-07-04", "2024-07-09", "2024-07-10"} {
		if _, err := tr.ToggleKey(k); err != nil {
			t.Fatalf("toggle %s: %v", k, err)
		}
	}
	st := tr.Stats()
	if st.Total != 5 || st.CurrentStreak != 2 || st.LongestStreak != 3 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if st.DueDays != 10 || st.DoneOnDueDays != 5 || st.Rate != 0.5 {
		t.Fatalf("unexpected rate: %+v", st)
	}
}

func TestStatsStreakFromYesterday(t *testing.T) {
	tr := newTestTracker(t, Options{})
	for _, k := range []string{"2024-07-08", "2024-07-09"} {
		if _, err := tr.ToggleKey(k); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	if got := tr.Stats().CurrentStreak; got != 2 {
		t.Fatalf("current streak = %d, want 2", got)
	}
}
