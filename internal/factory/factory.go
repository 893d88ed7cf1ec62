package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/guesswho/guesswho-go/internal/dependencies/clock"
	"github.com/guesswho/guesswho-go/internal/services/game"
	"github.com/guesswho/guesswho-go/internal/services/user"
	"github.com/guesswho/guesswho-go/internal/session"
	"github.com/guesswho/guesswho-go/internal/storage"
	"github.com/guesswho/guesswho-go/internal/storage/memory"
	redisstorage "github.com/guesswho/guesswho-go/internal/storage/redis"
	sqlitestorage "github.com/guesswho/guesswho-go/internal/storage/sqlite"
	"github.com/guesswho/guesswho-go/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeSQLite = "sqlite"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Shared state
	Sessions *session.Store

	// Services
	UserService *user.Service
	GameManager *game.Manager
	Gateway     *ws.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "sqlite" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// SQLitePath is the database file path (required if StorageType is "sqlite")
	SQLitePath string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// GameConfig holds game session settings (optional)
	// If zero value, defaults to game.DefaultConfig()
	GameConfig game.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeSQLite:
		sqliteStore, err := sqlitestorage.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'sqlite' or 'redis'")
	}

	// Use default game config if not provided
	gameCfg := cfg.GameConfig
	if gameCfg.WinPoints == 0 {
		gameCfg = game.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), gameCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, gameCfg game.Config, logger *slog.Logger) *App {
	sessions := session.NewStore()
	userService := user.New(store, logger)
	gameManager := game.NewManager(store, gameCfg, logger)
	gateway := ws.NewGateway(sessions, gameManager, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Sessions:    sessions,
		UserService: userService,
		GameManager: gameManager,
		Gateway:     gateway,
	}
}
