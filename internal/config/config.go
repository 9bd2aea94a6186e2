package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/habitgrid/internal/grid"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type RuntimeConfig struct {
	DataDir       string      `yaml:"data_dir"`
	StoreBackend  string      `yaml:"store_backend"`
	SQLitePath    string      `yaml:"sqlite_path"`
	MarksFilePath string      `yaml:"marks_file"`
	Redis         RedisConfig `yaml:"redis"`
	Epoch         string      `yaml:"epoch"`
	LogPath       string      `yaml:"log_path"`
	LogLevel      string      `yaml:"log_level"`
	Bell          bool        `yaml:"bell"`
	PersistHabits bool        `yaml:"persist_habits"`
	WriterBuffer  int         `yaml:"writer_buffer"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DataDir:       ".habitgrid",
		StoreBackend:  BackendSQLite,
		SQLitePath:    "habitgrid.db",
		MarksFilePath: "marks.json",
		Redis:         RedisConfig{Addr: "localhost:6379", Prefix: "habitgrid:"},
		Epoch:         "2024-07-01",
		LogPath:       "habitgrid.log",
		LogLevel:      "info",
		Bell:          true,
		PersistHabits: true,
		WriterBuffer:  64,
	}
}

// Load applies defaults, then the YAML file at path when it exists, then
// HABITGRID_* environment overrides.
func Load(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return RuntimeConfig{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return RuntimeConfig{}, fmt.Errorf("read %s: %w", path, err)
		}
	}
	cfg = RuntimeConfigFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("HABITGRID_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := getEnvString("HABITGRID_STORE"); ok {
		cfg.StoreBackend = strings.ToLower(v)
	}
	if v, ok := getEnvString("HABITGRID_SQLITE_PATH"); ok {
		cfg.SQLitePath = v
	}
	if v, ok := getEnvString("HABITGRID_MARKS_FILE"); ok {
		cfg.MarksFilePath = v
	}
	if v, ok := getEnvString("HABITGRID_REDIS_ADDR"); ok {
		cfg.Redis.Addr = v
	}
	if v, ok := getEnvString("HABITGRID_REDIS_PASSWORD"); ok {
		cfg.Redis.Password = v
	}
	if v, ok := getEnvInt("HABITGRID_REDIS_DB"); ok && v >= 0 {
		cfg.Redis.DB = v
	}
	if v, ok := getEnvString("HABITGRID_EPOCH"); ok {
		cfg.Epoch = v
	}
	if v, ok := getEnvString("HABITGRID_LOG_PATH"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString("HABITGRID_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvBool("HABITGRID_BELL"); ok {
		cfg.Bell = v
	}
	if v, ok := getEnvBool("HABITGRID_PERSIST_HABITS"); ok {
		cfg.PersistHabits = v
	}
	if v, ok := getEnvInt("HABITGRID_WRITER_BUFFER"); ok && v > 0 {
		cfg.WriterBuffer = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	if _, err := grid.ParseKey(c.Epoch); err != nil {
		return fmt.Errorf("%w: epoch: %v", ErrInvalidConfig, err)
	}
	if c.WriterBuffer <= 0 {
		return fmt.Errorf("%w: writer_buffer must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c RuntimeConfig) EpochDate() time.Time {
	t, err := grid.ParseKey(c.Epoch)
	if err != nil {
		return grid.MustParseKey(DefaultRuntimeConfig().Epoch)
	}
	return t
}

// Resolve places a relative path under the data dir. An empty path stays
// empty.
func (c RuntimeConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.DataDir == "" {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
