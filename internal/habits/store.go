package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/model"
	"github.com/sandeepkv93/habitgrid/internal/storage"
)

var (
	ErrNotFound        = errors.New("habits: habit not found")
	ErrNoPendingDelete = errors.New("habits: no pending delete request")
	// ErrWriteThrough reports a repository failure after the in-memory list
	// was already changed. The returned habit is valid.
	ErrWriteThrough = errors.New("habits: repository write failed")
)

type Options struct {
	Repo   storage.HabitRepository
	Clock  grid.Clock
	Logger *zap.Logger
	NewID  func() string
}

// Store keeps the ordered habit list for the session. When a repository is
// configured every mutation is written through; repository failures are
// logged and returned wrapped in ErrWriteThrough while the in-memory change
// stays in place.
type Store struct {
	habits  []model.Habit
	pending string
	repo    storage.HabitRepository
	clock   grid.Clock
	logger  *zap.Logger
	newID   func() string
}

func NewStore(opts Options) *Store {
	s := &Store{
		repo:   opts.Repo,
		clock:  opts.Clock,
		logger: opts.Logger,
		newID:  opts.NewID,
	}
	if s.clock == nil {
		s.clock = grid.SystemClock{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	return s
}

// Load replaces the list with the repository contents. Rows that no longer
// decode are skipped and logged.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	rows, err := s.repo.ListHabits(ctx, storage.HabitListFilter{})
	if err != nil {
		s.logger.Warn("load habits failed", zap.Error(err))
		return fmt.Errorf("load habits: %w", err)
	}
	out := make([]model.Habit, 0, len(rows))
	for _, row := range rows {
		h, convErr := fromRecord(row)
		if convErr != nil {
			s.logger.Warn("skipping unreadable habit", zap.String("habit_id", row.ID), zap.Error(convErr))
			continue
		}
		out = append(out, h)
	}
	s.habits = out
	return nil
}

func (s *Store) List() []model.Habit {
	out := make([]model.Habit, len(s.habits))
	copy(out, s.habits)
	return out
}

func (s *Store) Len() int { return len(s.habits) }

func (s *Store) Get(id string) (model.Habit, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Habit{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.habits[i], nil
}

// FindByTitle matches case-insensitively after trimming.
func (s *Store) FindByTitle(title string) (model.Habit, error) {
	want := strings.TrimSpace(title)
	for _, h := range s.habits {
		if strings.EqualFold(h.Title, want) {
			return h, nil
		}
	}
	return model.Habit{}, fmt.Errorf("%w: %q", ErrNotFound, want)
}

// Create appends a habit built from a complete draft.
func (s *Store) Create(ctx context.Context, d model.Draft) (model.Habit, error) {
	h, err := d.Habit(s.newID(), s.clock.Now().UTC())
	if err != nil {
		return model.Habit{}, err
	}
	s.habits = append(s.habits, h)
	if s.repo != nil {
		if err := s.repo.CreateHabit(ctx, toRecord(h, len(s.habits)-1, h.CreatedAt)); err != nil {
			return h, s.writeFailure("create", h.ID, err)
		}
	}
	return h, nil
}

// Update replaces the habit in place. The id and creation time are kept so
// stored marks stay attached.
func (s *Store) Update(ctx context.Context, id string, d model.Draft) (model.Habit, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Habit{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	h, err := d.Habit(id, s.habits[i].CreatedAt)
	if err != nil {
		return model.Habit{}, err
	}
	s.habits[i] = h
	if s.repo != nil {
		if err := s.repo.UpdateHabit(ctx, toRecord(h, i, s.clock.Now().UTC())); err != nil {
			return h, s.writeFailure("update", id, err)
		}
	}
	return h, nil
}

// RequestDelete arms deletion of id until ConfirmDelete or CancelDelete.
func (s *Store) RequestDelete(id string) (model.Habit, error) {
	h, err := s.Get(id)
	if err != nil {
		return model.Habit{}, err
	}
	s.pending = id
	return h, nil
}

func (s *Store) PendingDelete() (model.Habit, bool) {
	if s.pending == "" {
		return model.Habit{}, false
	}
	h, err := s.Get(s.pending)
	return h, err == nil
}

func (s *Store) CancelDelete() {
	s.pending = ""
}

// ConfirmDelete removes the pending habit. Its stored marks are left in
// place.
func (s *Store) ConfirmDelete(ctx context.Context) (model.Habit, error) {
	if s.pending == "" {
		return model.Habit{}, ErrNoPendingDelete
	}
	id := s.pending
	s.pending = ""
	i := s.indexOf(id)
	if i < 0 {
		return model.Habit{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	h := s.habits[i]
	s.habits = append(s.habits[:i], s.habits[i+1:]...)
	if s.repo == nil {
		return h, nil
	}
	if err := s.repo.DeleteHabit(ctx, id); err != nil {
		return h, s.writeFailure("delete", id, err)
	}
	now := s.clock.Now().UTC()
	var firstErr error
	for pos := i; pos < len(s.habits); pos++ {
		if err := s.repo.UpdateHabit(ctx, toRecord(s.habits[pos], pos, now)); err != nil {
			if werr := s.writeFailure("reorder", s.habits[pos].ID, err); firstErr == nil {
				firstErr = werr
			}
		}
	}
	return h, firstErr
}

func (s *Store) indexOf(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) writeFailure(op, id string, err error) error {
	s.logger.Warn("habit write failed", zap.String("op", op), zap.String("habit_id", id), zap.Error(err))
	return fmt.Errorf("%w: %s %s: %v", ErrWriteThrough, op, id, err)
}

func toRecord(h model.Habit, position int, updated time.Time) storage.Habit {
	rec := storage.Habit{
		ID:          h.ID,
		Title:       h.Title,
		Description: h.Description,
		Color:       string(h.Color),
		Days:        h.Days.String(),
		Position:    position,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   updated,
	}
	if h.Reminder != nil {
		rec.Reminder = h.Reminder.String()
	}
	return rec
}

func fromRecord(rec storage.Habit) (model.Habit, error) {
	days, err := model.ParseWeekdays(rec.Days)
	if err != nil {
		return model.Habit{}, err
	}
	h := model.Habit{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Color:       model.Color(rec.Color),
		Days:        days,
		CreatedAt:   rec.CreatedAt,
	}
	if rec.Reminder != "" {
		at, err := model.ParseTimeOfDay(rec.Reminder)
		if err != nil {
			return model.Habit{}, err
		}
		h.Reminder = &at
	}
	return h, h.Validate()
}
