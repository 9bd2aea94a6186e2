package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/habitgrid/internal/config"
	"github.com/sandeepkv93/habitgrid/internal/grid"
	"github.com/sandeepkv93/habitgrid/internal/habits"
	"github.com/sandeepkv93/habitgrid/internal/logging"
	"github.com/sandeepkv93/habitgrid/internal/model"
	"github.com/sandeepkv93/habitgrid/internal/storage"
	"github.com/sandeepkv93/habitgrid/internal/tracker"
)

// Runtime is the opened storage stack for one invocation.
type Runtime struct {
	Config config.RuntimeConfig
	Logger *zap.Logger
	Store  *habits.Store
	KV     storage.KV

	closers []func() error
}

func openRuntime(ctx context.Context, cfg config.RuntimeConfig, clock grid.Clock) (*Runtime, error) {
	if cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	logger, err := logging.New(cfg.Resolve(cfg.LogPath), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Config: cfg, Logger: logger}
	rt.closers = append(rt.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	var sqlite *storage.SQLiteRepository
	if cfg.StoreBackend == config.BackendSQLite || cfg.PersistHabits {
		path := cfg.Resolve(cfg.SQLitePath)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		sqlite, err = storage.OpenSQLite(path)
		if err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("open sqlite %s: %w", path, err)
		}
		rt.closers = append(rt.closers, sqlite.Close)
	}

	switch cfg.StoreBackend {
	case config.BackendSQLite:
		rt.KV = sqlite
	case config.BackendFile:
		rt.KV = storage.NewFileKV(cfg.Resolve(cfg.MarksFilePath)).WithLogger(logger)
	case config.BackendRedis:
		kv := storage.NewRedisKV(storage.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := kv.Ping(pingCtx); err != nil {
			_ = kv.Close()
			_ = rt.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		rt.KV = kv
		rt.closers = append(rt.closers, kv.Close)
	default:
		_ = rt.Close()
		return nil, fmt.Errorf("%w: unknown store backend %q", config.ErrInvalidConfig, cfg.StoreBackend)
	}

	opts := habits.Options{Clock: clock, Logger: logger}
	if cfg.PersistHabits && sqlite != nil {
		opts.Repo = sqlite
	}
	rt.Store = habits.NewStore(opts)
	if err := rt.Store.Load(ctx); err != nil {
		_ = rt.Close()
		return nil, err
	}
	logger.Info("runtime opened",
		zap.String("backend", cfg.StoreBackend),
		zap.Bool("persist_habits", cfg.PersistHabits),
		zap.Int("habits", rt.Store.Len()))
	return rt, nil
}

// Tracker loads the marks of h for a one-shot command.
func (rt *Runtime) Tracker(ctx context.Context, h model.Habit, clock grid.Clock, persister tracker.Persister) (*tracker.Tracker, error) {
	tr := tracker.New(h, tracker.Options{
		Epoch:     rt.Config.EpochDate(),
		Clock:     clock,
		Reader:    rt.KV,
		Persister: persister,
		Logger:    rt.Logger,
	})
	if err := tr.Load(ctx); err != nil && !errors.Is(err, tracker.ErrMalformedMarks) {
		return nil, err
	}
	return tr, nil
}

func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
