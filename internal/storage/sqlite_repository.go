package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const stampLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateHabit(ctx context.Context, in Habit) error {
	updated := in.UpdatedAt
	if updated.IsZero() {
		updated = in.CreatedAt
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO habits (id, title, description, color, reminder, days, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Description, in.Color, in.Reminder, in.Days, in.Position,
		formatStamp(in.CreatedAt), formatStamp(updated),
	)
	return err
}

func (r *SQLiteRepository) GetHabit(ctx context.Context, id string) (Habit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, color, reminder, days, position, created_at, updated_at
		FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Habit{}, ErrNotFound
		}
		return Habit{}, err
	}
	return h, nil
}

func (r *SQLiteRepository) UpdateHabit(ctx context.Context, in Habit) error {
	updated := in.UpdatedAt
	if updated.IsZero() {
		updated = r.now()
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE habits
		SET title = ?, description = ?, color = ?, reminder = ?, days = ?, position = ?, updated_at = ?
		WHERE id = ?`,
		in.Title, in.Description, in.Color, in.Reminder, in.Days, in.Position, formatStamp(updated), in.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteHabit(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListHabits(ctx context.Context, filter HabitListFilter) ([]Habit, error) {
	args := make([]any, 0, 2)
	query := `SELECT id, title, description, color, reminder, days, position, created_at, updated_at
		FROM habits ORDER BY position ASC, created_at ASC` + pageClause(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Habit, 0)
	for rows.Next() {
		h, scanErr := scanHabit(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatStamp(r.now()),
	)
	return err
}

func formatStamp(v time.Time) string {
	return v.UTC().Format(stampLayout)
}

func parseStamp(v string) (time.Time, error) {
	return time.Parse(stampLayout, v)
}

// pageClause appends LIMIT/OFFSET placeholders. SQLite needs a LIMIT before
// an OFFSET, so -1 stands in for "no limit".
func pageClause(args *[]any, limit, offset int) string {
	switch {
	case limit <= 0 && offset <= 0:
		return ""
	case offset <= 0:
		*args = append(*args, limit)
		return " LIMIT ?"
	case limit <= 0:
		*args = append(*args, offset)
		return " LIMIT -1 OFFSET ?"
	default:
		*args = append(*args, limit, offset)
		return " LIMIT ? OFFSET ?"
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(s scanner) (Habit, error) {
	var out Habit
	var created, updated string
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &out.Color, &out.Reminder, &out.Days, &out.Position, &created, &updated); err != nil {
		return Habit{}, err
	}
	createdAt, err := parseStamp(created)
	if err != nil {
		return Habit{}, err
	}
	updatedAt, err := parseStamp(updated)
	if err != nil {
		return Habit{}, err
	}
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	switch {
	case err != nil:
		return err
	case n == 0:
		return ErrNotFound
	default:
		return nil
	}
}
