package factory

import (
	"errors"
	"io"
	"log/slog"

	"numduel/internal/dependencies/clock"
	"numduel/internal/dependencies/random"
	"numduel/internal/services/game"
	"numduel/internal/services/party"
	"numduel/internal/storage"
	"numduel/internal/storage/memory"
	redisstorage "numduel/internal/storage/redis"
	"numduel/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	PartyController *party.Controller
	GameService     *game.Service
	RoomManager     *ws.RoomManager
	Orchestrator    *ws.Orchestrator
	WSHandler       *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PartyConfig holds party lifecycle settings (optional)
	// If zero value, defaults to party.DefaultConfig()
	PartyConfig party.Config
	// OrchestratorConfig holds session timing settings (optional)
	// If zero value, defaults to ws.DefaultConfig()
	OrchestratorConfig ws.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
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
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.PartyConfig, cfg.OrchestratorConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	partyCfg party.Config,
	wsCfg ws.Config,
	logger *slog.Logger,
) *App {
	// party.NewController fills in its own zero-value defaults
	if wsCfg == (ws.Config{}) {
		wsCfg = ws.DefaultConfig()
	}

	partyController := party.NewController(store, clk, rnd, partyCfg, logger)
	gameService := game.New()
	roomManager := ws.NewRoomManager(logger)
	orchestrator := ws.NewOrchestrator(partyController, gameService, roomManager, clk, rnd, wsCfg, logger)
	wsHandler := ws.NewHandler(orchestrator, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		PartyController: partyController,
		GameService:     gameService,
		RoomManager:     roomManager,
		Orchestrator:    orchestrator,
		WSHandler:       wsHandler,
	}
}
