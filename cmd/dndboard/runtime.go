package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/evanschultz/dndboard/internal/adapters/storage/redis"
	"github.com/evanschultz/dndboard/internal/adapters/storage/sqlite"
	"github.com/evanschultz/dndboard/internal/app"
	"github.com/evanschultz/dndboard/internal/config"
	"github.com/evanschultz/dndboard/internal/platform"
	"github.com/evanschultz/dndboard/internal/tui"
)

// kvCloser is a snapshot backend that owns a connection.
type kvCloser interface {
	app.KVStore
	Close() error
}

// runtimeEnv carries the resolved paths, config, logger and store for one command.
type runtimeEnv struct {
	command    string
	paths      platform.Paths
	configPath string
	cfg        config.Config
	logger     *runtimeLogger
	kv         kvCloser
	store      *app.Store
}

// resolvePaths resolves platform paths for the persistent flags.
func resolvePaths(opts *rootOptions) (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
}

// openRuntime loads config, configures logging and opens the configured snapshot backend.
func openRuntime(ctx context.Context, opts *rootOptions, command string, stderr io.Writer) (*runtimeEnv, error) {
	paths, err := resolvePaths(opts)
	if err != nil {
		return nil, err
	}

	configPath := opts.configPath
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("DNDBOARD_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbPath := opts.dbPath
	dbOverridden := strings.TrimSpace(dbPath) != ""
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("DNDBOARD_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	defaultCfg := config.Default(dbPath)
	cfg, err := config.Load(configPath, defaultCfg)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}
	if command == "tui" {
		cfg, err = ensureStartupBootstrap(configPath, cfg, defaultCfg, dbPath, dbOverridden, stdin, stderr)
		if err != nil {
			return nil, fmt.Errorf("startup bootstrap: %w", err)
		}
	}

	boardDir := paths.DataDir
	if strings.TrimSpace(cfg.Database.Path) != "" {
		boardDir = filepath.Dir(cfg.Database.Path)
	}
	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, boardDir, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// Runtime logs stay in the dev-file sink while the board owns the terminal.
		logger.MuteConsole(true)
	}

	rt := &runtimeEnv{
		command:    command,
		paths:      paths,
		configPath: configPath,
		cfg:        cfg,
		logger:     logger,
	}
	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", dbPath)
	logger.Info("configuration loaded", "config_path", configPath, "backend", cfg.Storage.Backend, "log_level", cfg.Logging.Level)
	if devPath := logger.FilePath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	kv, err := openBackend(ctx, cfg, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.kv = kv

	rt.store = app.NewStore(kv, uuid.NewString, time.Now, app.StoreConfig{
		Key:          cfg.Storage.Key,
		DefaultTitle: cfg.Board.DefaultTitle,
		Logger:       logger.storeLogger(),
	})
	if command != "tui" {
		// The TUI hydrates from its Init command, every other command needs the board up front.
		rt.store.Rehydrate(ctx)
	}
	logger.Debug("board store initialized", "key", rt.store.Key(), "hydrated", rt.store.Hydrated())
	return rt, nil
}

// openBackend opens the KV backend selected by storage.backend.
func openBackend(ctx context.Context, cfg config.Config, logger *runtimeLogger) (kvCloser, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		logger.Info("opening redis repository", "addr", cfg.Storage.RedisAddr, "db", cfg.Storage.RedisDB)
		repo, err := redis.Open(ctx, redis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
		if err != nil {
			logger.Error("redis open failed", "addr", cfg.Storage.RedisAddr, "err", err)
			return nil, fmt.Errorf("open redis repository: %w", err)
		}
		logger.Info("redis repository ready", "addr", cfg.Storage.RedisAddr)
		return repo, nil
	default:
		logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
		repo, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
			return nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		logger.Info("sqlite repository ready", "db_path", cfg.Database.Path, "migrations", "ensured")
		return repo, nil
	}
}

// newModel builds the TUI model from config.
func (rt *runtimeEnv) newModel() tui.Model {
	return tui.NewModel(
		rt.store,
		tui.WithAuthor(rt.cfg.Identity.Author),
		tui.WithKeyConfig(tui.KeyConfig{
			NewCard:   rt.cfg.Keys.NewCard,
			NewColumn: rt.cfg.Keys.NewColumn,
			Details:   rt.cfg.Keys.Details,
		}),
	)
}

// Close releases the backend and log sinks.
func (rt *runtimeEnv) Close() {
	if rt == nil {
		return
	}
	if rt.kv != nil {
		if err := rt.kv.Close(); err != nil {
			rt.logger.Warn("storage close failed", "backend", rt.cfg.Storage.Backend, "err", err)
		}
	}
	if err := rt.logger.Close(); err != nil && !rt.logger.console.muted {
		rt.logger.Warn("close runtime log sink failed", "err", err)
	}
}
