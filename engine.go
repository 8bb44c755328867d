package lotto

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Engine runs draw sessions behind a Redis lock so concurrent processes
// never draw for the same game at the same time
type Engine struct {
	redisClient   *redis.Client
	lockManager   *SessionLockManager
	session       *DrawSession
	configManager *ConfigManager
	logger        Logger
	monitor       *DrawMonitor

	// mu protects configManager and lockManager against concurrent updates
	mu sync.RWMutex
}

// NewEngine creates an engine with the default configuration
func NewEngine(redisClient *redis.Client) *Engine {
	return NewEngineWithConfig(redisClient, NewDefaultConfigManager())
}

// NewEngineWithConfig creates an engine with a custom configuration. A
// manager that never loaded a config gets the defaults.
func NewEngineWithConfig(redisClient *redis.Client, cm *ConfigManager) *Engine {
	if cm == nil || cm.config == nil {
		cm = NewDefaultConfigManager()
	}

	logger := &DefaultLogger{}

	session, err := NewDrawSessionWithConfig(NewSecureRandomSource(), cm.config.Reducer)
	if err != nil {
		// Fall back to defaults rather than refusing to start.
		logger.Error("invalid reducer config, using defaults: %v", err)
		session = NewDrawSession()
	}
	session.SetLogger(logger)

	return &Engine{
		redisClient:   redisClient,
		lockManager:   NewSessionLockManager(redisClient, cm.config.Engine),
		session:       session,
		configManager: cm,
		logger:        logger,
		monitor:       NewDrawMonitor(),
	}
}

// NewEngineWithLogger creates an engine with the default configuration and a
// custom logger
func NewEngineWithLogger(redisClient *redis.Client, logger Logger) *Engine {
	engine := NewEngine(redisClient)
	engine.SetLogger(logger)
	return engine
}

// SetLogger updates the engine and session logger at runtime
func (e *Engine) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	e.logger = logger
	e.session.SetLogger(logger)
}

// GetConfig returns the current configuration
func (e *Engine) GetConfig() *Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.configManager.config
}

// UpdateConfig replaces the engine configuration at runtime. The lock
// manager is rebuilt so new lock settings take effect immediately.
func (e *Engine) UpdateConfig(newConfig *Config) error {
	if newConfig == nil {
		e.logger.Error("UpdateConfig failed: nil configuration")
		return ErrInvalidParameters
	}
	if err := newConfig.Validate(); err != nil {
		e.logger.Error("UpdateConfig validation failed: %v", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.configManager.config = newConfig
	e.lockManager = NewSessionLockManager(e.redisClient, newConfig.Engine)

	e.logger.Info("configuration updated: game=%s, lock_timeout=%v, retry_attempts=%d",
		newConfig.Game.Name, newConfig.Engine.LockTimeout, newConfig.Engine.RetryAttempts)
	return nil
}

// Session returns the underlying draw session
func (e *Engine) Session() *DrawSession { return e.session }

// Extract runs the configured game's extraction under the game lock. It
// implements the Extractor interface; explicit params override the game
// preset when the caller fills them in.
func (e *Engine) Extract(ctx context.Context, params ExtractionParams) (*Extraction, error) {
	e.mu.RLock()
	gameKey := e.configManager.config.Game.Name
	e.mu.RUnlock()

	return e.ExtractWithLock(ctx, gameKey, params)
}

// ExtractGame runs a full extraction for the configured game preset
func (e *Engine) ExtractGame(ctx context.Context) (*Extraction, error) {
	e.mu.RLock()
	game := e.configManager.config.Game
	e.mu.RUnlock()

	return e.ExtractWithLock(ctx, game.Name, game.ExtractionParams())
}

// ExtractWithLock runs one extraction while holding the Redis lock for the
// given game key
func (e *Engine) ExtractWithLock(ctx context.Context, gameKey string, params ExtractionParams) (*Extraction, error) {
	startTime := time.Now()

	if gameKey == "" {
		e.logger.Error("ExtractWithLock failed: empty game key")
		return nil, ErrInvalidParameters.WithDetails("game key is empty")
	}

	e.mu.RLock()
	lockManager := e.lockManager
	lockExpiration := e.configManager.config.Engine.LockExpiration
	e.mu.RUnlock()

	release, err := lockManager.Acquire(ctx, gameKey, lockExpiration)
	if err != nil {
		e.logger.Error("ExtractWithLock lock acquisition failed for key %s: %v", gameKey, err)
		e.monitor.RecordExtraction(false, 0, time.Since(startTime))
		return nil, err
	}
	e.logger.Debug("acquired session lock for key %s", gameKey)

	defer func() {
		if releaseErr := release(ctx); releaseErr != nil {
			e.logger.Error("failed to release session lock for key %s: %v", gameKey, releaseErr)
		} else {
			e.logger.Debug("released session lock for key %s", gameKey)
		}
	}()

	result, err := e.session.Extract(ctx, params)
	e.monitor.RecordExtraction(err == nil, e.session.TrialsRun(), time.Since(startTime))
	if err != nil {
		e.logger.Error("extraction failed for key %s: %v", gameKey, err)
		return nil, err
	}

	e.logger.Info("extraction complete: key=%s, backend=%s, trials=%d, numbers=%v, extra=%v",
		gameKey, e.session.ResolvedBackend(), e.session.TrialsRun(),
		result.SortedNumbers(), result.SortedExtra())
	return result, nil
}

// Metrics returns a snapshot of the engine's draw metrics
func (e *Engine) Metrics() DrawMetrics { return e.monitor.Snapshot() }

// Monitor returns the engine's draw monitor
func (e *Engine) Monitor() *DrawMonitor { return e.monitor }
