package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/model"
)

var ErrFutureDate = errors.New("tracker: date is after today")

type Options struct {
	Epoch      time.Time
	Clock      grid.Clock
	Reader     Reader
	Persister  Persister
	Celebrator Celebrator
	Logger     *zap.Logger
}

type Transition struct {
	Key        string
	Marked     bool
	Celebrated bool
}

// Tracker owns the one mark set of a habit. The scrolling grid and the month
// picker are both read projections of it, and both toggle surfaces write to
// it, so a date never shows two different states.
type Tracker struct {
	habit      model.Habit
	epoch      time.Time
	clock      grid.Clock
	reader     Reader
	persister  Persister
	celebrator Celebrator
	logger     *zap.Logger
	marks      MarkSet
	loaded     bool
}

func New(h model.Habit, opts Options) *Tracker {
	t := &Tracker{
		habit:      h,
		epoch:      grid.Day(opts.Epoch),
		clock:      opts.Clock,
		reader:     opts.Reader,
		persister:  opts.Persister,
		celebrator: opts.Celebrator,
		logger:     opts.Logger,
		marks:      NewMarkSet(),
	}
	if t.clock == nil {
		t.clock = grid.SystemClock{}
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	return t
}

func (t *Tracker) Habit() model.Habit { return t.habit }

// SetHabit refreshes display metadata. The id, and with it the storage key,
// must not change.
func (t *Tracker) SetHabit(h model.Habit) error {
	if h.ID != t.habit.ID {
		return fmt.Errorf("tracker: habit id changed from %q to %q", t.habit.ID, h.ID)
	}
	t.habit = h
	return nil
}

func (t *Tracker) Key() string { return t.habit.MarksKey() }

func (t *Tracker) Loaded() bool { return t.loaded }

func (t *Tracker) Epoch() time.Time { return t.epoch }

func (t *Tracker) Today() time.Time { return grid.Today(t.clock) }

// Load reads the stored set once. A missing value is an empty set. Read
// failures and malformed data also leave an empty, usable set; the error is
// logged and returned for display only.
func (t *Tracker) Load(ctx context.Context) error {
	t.loaded = true
	t.marks = NewMarkSet()
	if t.reader == nil {
		return nil
	}
	raw, found, err := t.reader.Get(ctx, t.Key())
	if err != nil {
		t.logger.Warn("load marks failed",
			zap.String("habit_id", t.habit.ID), zap.String("key", t.Key()), zap.Error(err))
		return err
	}
	if !found {
		return nil
	}
	marks, err := DecodeMarkSet(raw)
	if err != nil {
		t.logger.Warn("stored marks are malformed, starting empty",
			zap.String("habit_id", t.habit.ID), zap.String("key", t.Key()), zap.Error(err))
		return err
	}
	t.marks = marks
	return nil
}

func (t *Tracker) Has(key string) bool { return t.marks.Has(key) }

func (t *Tracker) IsMarked(date time.Time) bool { return t.marks.Has(grid.Key(date)) }

func (t *Tracker) Marks() []string { return t.marks.Keys() }

// ToggleToday flips today's mark. Only a new mark celebrates.
func (t *Tracker) ToggleToday() Transition {
	today := t.Today()
	tr := t.toggle(today)
	if tr.Marked && t.celebrator != nil {
		t.celebrator.Celebrate(Celebration{
			HabitID: t.habit.ID,
			Title:   t.habit.Title,
			Key:     tr.Key,
			At:      t.clock.Now(),
		})
		tr.Celebrated = true
	}
	return tr
}

// ToggleDate flips any date up to and including today.
func (t *Tracker) ToggleDate(date time.Time) (Transition, error) {
	day := grid.Day(date)
	if day.After(t.Today()) {
		return Transition{Key: grid.Key(day), Marked: t.marks.Has(grid.Key(day))},
			fmt.Errorf("%w: %s", ErrFutureDate, grid.Key(day))
	}
	return t.toggle(day), nil
}

// ToggleKey is ToggleDate for a canonical key coming from the picker.
func (t *Tracker) ToggleKey(key string) (Transition, error) {
	date, err := grid.ParseKey(key)
	if err != nil {
		return Transition{}, err
	}
	return t.ToggleDate(date)
}

func (t *Tracker) toggle(day time.Time) Transition {
	key := grid.Key(day)
	marked := t.marks.Toggle(key)
	t.persist()
	return Transition{Key: key, Marked: marked}
}

func (t *Tracker) persist() {
	if t.persister == nil {
		return
	}
	if err := t.persister.Persist(t.Key(), t.marks.Encode()); err != nil {
		t.logger.Warn("save marks failed",
			zap.String("habit_id", t.habit.ID), zap.String("key", t.Key()), zap.Error(err))
	}
}

// Grid is recomputed from the clock on every call.
func (t *Tracker) Grid() grid.Grid {
	return grid.Build(t.epoch, t.Today())
}

func (t *Tracker) Month(year int, month time.Month) grid.MonthPage {
	return grid.BuildMonth(year, month, t.Today(), t.marks)
}

// Decorations maps each marked key to the habit color for the month picker.
func (t *Tracker) Decorations() map[string]model.Color {
	out := make(map[string]model.Color, t.marks.Len())
	for _, k := range t.marks.Keys() {
		out[k] = t.habit.Color
	}
	return out
}

func (t *Tracker) UpperBound() string {
	return grid.Key(t.Today())
}
