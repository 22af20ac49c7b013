package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

// StorageBackend selects where board snapshots are kept.
type StorageBackend string

// StorageBackendSQLite and related constants define supported backends.
const (
	StorageBackendSQLite StorageBackend = "sqlite"
	StorageBackendRedis  StorageBackend = "redis"
)

// DefaultDevLogDir holds dev log files, relative to the board database directory.
const DefaultDevLogDir = "logs"

// Config is the full TOML configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
	Board    BoardConfig    `toml:"board"`
	Identity IdentityConfig `toml:"identity"`
	Logging  LoggingConfig  `toml:"logging"`
	Keys     KeyConfig      `toml:"keys"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type StorageConfig struct {
	Backend       StorageBackend `toml:"backend"`
	Key           string         `toml:"key"`
	RedisAddr     string         `toml:"redis_addr"`
	RedisPassword string         `toml:"redis_password"`
	RedisDB       int            `toml:"redis_db"`
}

type BoardConfig struct {
	DefaultTitle string `toml:"default_title"`
}

type IdentityConfig struct {
	Author string `toml:"author"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type KeyConfig struct {
	NewCard   string `toml:"new_card"`
	NewColumn string `toml:"new_column"`
	Details   string `toml:"details"`
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Storage: StorageConfig{
			Backend:   StorageBackendSQLite,
			Key:       "dndboard-board",
			RedisAddr: "localhost:6379",
		},
		Board: BoardConfig{
			DefaultTitle: "Demo Board",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     DefaultDevLogDir,
			},
		},
		Keys: KeyConfig{
			NewCard:   "n",
			NewColumn: "N",
			Details:   "i",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case StorageBackendSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("database path is required")
		}
	case StorageBackendRedis:
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			return errors.New("storage.redis_addr is required for the redis backend")
		}
		if c.Storage.RedisDB < 0 {
			return fmt.Errorf("storage.redis_db must be >= 0, got %d", c.Storage.RedisDB)
		}
	default:
		return fmt.Errorf("invalid storage.backend: %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage.key is required")
	}
	if strings.TrimSpace(c.Board.DefaultTitle) == "" {
		return errors.New("board.default_title is required")
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	seen := map[string]string{}
	for name, binding := range map[string]string{
		"new_card":   c.Keys.NewCard,
		"new_column": c.Keys.NewColumn,
		"details":    c.Keys.Details,
	} {
		binding = strings.TrimSpace(binding)
		if binding == "" {
			return fmt.Errorf("keys.%s is required", name)
		}
		if other, ok := seen[binding]; ok {
			return fmt.Errorf("keys.%s duplicates keys.%s: %q", name, other, binding)
		}
		seen[binding] = name
	}

	return nil
}

// UpsertIdentity writes identity.author into the TOML file at path, keeping every other setting.
func UpsertIdentity(path, author string) error {
	author = strings.TrimSpace(author)
	if author == "" {
		return errors.New("identity author is required")
	}
	doc := map[string]any{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(content) > 0 {
			if err := toml.Unmarshal(content, &doc); err != nil {
				return fmt.Errorf("decode toml: %w", err)
			}
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("read config: %w", err)
	}

	identity, _ := doc["identity"].(map[string]any)
	if identity == nil {
		identity = map[string]any{}
	}
	identity["author"] = author
	doc["identity"] = identity

	encoded, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
