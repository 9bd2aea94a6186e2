package tracker

import (
	"context"
	"time"
)

// Reader loads a stored mark set by key.
type Reader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Persister accepts a full mark set snapshot for writing. Implementations
// may write asynchronously.
type Persister interface {
	Persist(key, value string) error
}

type Celebration struct {
	HabitID string
	Title   string
	Key     string
	At      time.Time
}

// Celebrator is notified on every absent to present transition of today.
//
//go:generate mockgen -source=store.go -destination=mock_store_test.go -package=tracker
type Celebrator interface {
	Celebrate(c Celebration)
}
