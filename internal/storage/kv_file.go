package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type fileState struct {
	Values map[string]string `json:"values"`
}

// FileKV keeps every key in one JSON document and rewrites it atomically
// (temp file + rename) on each Set. A document that no longer decodes is
// moved to <path>.corrupt and the store starts empty.
type FileKV struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	loaded bool
	logger *zap.Logger
}

func NewFileKV(path string) *FileKV {
	return &FileKV{path: strings.TrimSpace(path), logger: zap.NewNop()}
}

func (f *FileKV) WithLogger(logger *zap.Logger) *FileKV {
	if logger != nil {
		f.logger = logger
	}
	return f
}

func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadLocked(); err != nil {
		return "", false, err
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadLocked(); err != nil {
		return err
	}
	f.values[key] = value
	return f.persistLocked()
}

func (f *FileKV) loadLocked() error {
	if f.loaded {
		return nil
	}
	if f.path == "" {
		return fmt.Errorf("storage: file kv path is empty")
	}
	f.values = make(map[string]string)
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.loaded = true
			return nil
		}
		return err
	}
	if strings.TrimSpace(string(raw)) != "" {
		var state fileState
		if err := json.Unmarshal(raw, &state); err != nil {
			aside := f.path + ".corrupt"
			if rerr := os.Rename(f.path, aside); rerr != nil {
				return fmt.Errorf("storage: decode %s: %w (move aside: %v)", f.path, err, rerr)
			}
			f.logger.Warn("kv file is corrupt, starting empty",
				zap.String("path", f.path), zap.String("moved_to", aside), zap.Error(err))
			state = fileState{}
		}
		for k, v := range state.Values {
			f.values[k] = v
		}
	}
	f.loaded = true
	return nil
}

func (f *FileKV) persistLocked() error {
	dir := filepath.Dir(f.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(fileState{Values: f.values}, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
