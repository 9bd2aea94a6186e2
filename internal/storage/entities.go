package storage

import "time"

type Habit struct {
	ID          string
	Title       string
	Description string
	Color       string
	Reminder    string
	Days        string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type HabitListFilter struct {
	Limit  int
	Offset int
}
