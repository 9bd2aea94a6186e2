package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitgrid-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestHabitCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-02-09T12:00:00Z")

	gym := Habit{
		ID:          "habit-1",
		Title:       "Gym",
		Description: "Leg day counts twice",
		Color:       "#ff4500",
		Reminder:    "18:30",
		Days:        "mon,wed,fri",
		Position:    1,
		CreatedAt:   created,
	}
	read := Habit{
		ID:        "habit-2",
		Title:     "Read",
		Color:     "#4682b4",
		Reminder:  "21:00",
		Days:      "mon,tue,wed,thu,fri,sat,sun",
		Position:  0,
		CreatedAt: created.Add(time.Minute),
	}
	for _, h := range []Habit{gym, read} {
		if err := repo.CreateHabit(ctx, h); err != nil {
			t.Fatalf("create habit %s: %v", h.ID, err)
		}
	}

	got, err := repo.GetHabit(ctx, gym.ID)
	if err != nil {
		t.Fatalf("get habit: %v", err)
	}
	if got.Title != "Gym" || got.Days != "mon,wed,fri" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected habit get result: %#v", got)
	}

	gym.Title = "Gym (morning)"
	gym.Reminder = "07:00"
	if err := repo.UpdateHabit(ctx, gym); err != nil {
		t.Fatalf("update habit: %v", err)
	}

	list, err := repo.ListHabits(ctx, HabitListFilter{})
	if err != nil {
		t.Fatalf("list habits: %v", err)
	}
	if len(list) != 2 || list[0].ID != read.ID || list[1].Title != "Gym (morning)" {
		t.Fatalf("unexpected habit list: %#v", list)
	}

	page, err := repo.ListHabits(ctx, HabitListFilter{Offset: 1})
	if err != nil {
		t.Fatalf("list habits with offset: %v", err)
	}
	if len(page) != 1 || page[0].ID != gym.ID {
		t.Fatalf("unexpected offset page: %#v", page)
	}

	if err := repo.DeleteHabit(ctx, gym.ID); err != nil {
		t.Fatalf("delete habit: %v", err)
	}
	_, err = repo.GetHabit(ctx, gym.ID)
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := repo.UpdateHabit(ctx, gym); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on update of deleted habit, got: %v", err)
	}
}

func TestSQLiteKVRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, found, err := repo.Get(ctx, "marks:habit-1"); err != nil || found {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}
	if err := repo.Set(ctx, "marks:habit-1", `["2024-04-02"]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "marks:habit-1", `["2024-04-02","2024-04-05"]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, found, err := repo.Get(ctx, "marks:habit-1")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if v != `["2024-04-02","2024-04-05"]` {
		t.Fatalf("unexpected value %q", v)
	}
}
