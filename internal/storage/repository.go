package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// KV is the string key to string value collaborator used for completion
// marks. A missing key reports found=false with a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

type HabitRepository interface {
	CreateHabit(ctx context.Context, in Habit) error
	GetHabit(ctx context.Context, id string) (Habit, error)
	UpdateHabit(ctx context.Context, in Habit) error
	DeleteHabit(ctx context.Context, id string) error
	ListHabits(ctx context.Context, filter HabitListFilter) ([]Habit, error)
}

type Repository interface {
	HabitRepository
	KV
}

var _ Repository = (*SQLiteRepository)(nil)
