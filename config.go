package lotto

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// Config is the full deployment configuration
type Config struct {
	// Game preset: sizes and pools for both draws
	Game *GameConfig `mapstructure:"game"`

	// Reducer policy
	Reducer *ReducerConfig `mapstructure:"reducer"`

	// Session lock config
	Engine *EngineConfig `mapstructure:"engine"`

	// Redis config
	Redis *RedisConfig `mapstructure:"redis"`

	// Circuit breaker config
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

func (c *Config) Validate() error {
	if err := ValidateDrawParams(c.Game.DrawSize, c.Game.MaxNumber); err != nil {
		return err
	}
	if c.Game.ExtraSize > 0 && c.Game.ExtraMaxNumber > 0 {
		if err := ValidateDrawParams(c.Game.ExtraSize, c.Game.ExtraMaxNumber); err != nil {
			return err
		}
	}

	if err := c.Reducer.Validate(); err != nil {
		return err
	}

	if c.Engine.LockTimeout < MinLockTimeout || c.Engine.LockTimeout > MaxLockTimeout {
		return ErrConfigInvalid.WithDetails("lock timeout out of range")
	}
	if c.Engine.RetryAttempts < 0 || c.Engine.RetryAttempts > MaxRetryAttempts {
		return ErrConfigInvalid.WithDetails("retry attempts out of range")
	}
	if c.Engine.RetryInterval < 0 {
		return ErrConfigInvalid.WithDetails("retry interval cannot be negative")
	}
	if c.Engine.LockExpiration <= 0 {
		return ErrConfigInvalid.WithDetails("lock expiration must be positive")
	}

	if c.Redis.Addr == "" {
		return ErrConfigInvalid.WithDetails("redis address is required")
	}
	if c.Redis.PoolSize <= 0 {
		return ErrConfigInvalid.WithDetails("redis pool size must be positive")
	}

	return nil
}

// GameConfig describes one lottery game
type GameConfig struct {
	Name           string `mapstructure:"name"`
	DrawSize       int    `mapstructure:"draw_size"`
	MaxNumber      int    `mapstructure:"max_number"`
	ExtraSize      int    `mapstructure:"extra_size"`
	ExtraMaxNumber int    `mapstructure:"extra_max_number"`
	Backend        string `mapstructure:"backend"`
	FixedNumbers   []int  `mapstructure:"fixed_numbers"`
}

// DefaultGameConfig returns the SuperEnalotto preset: 6 of 90 plus 1 of 90
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:           DefaultGameName,
		DrawSize:       DefaultDrawSize,
		MaxNumber:      DefaultMaxNumber,
		ExtraSize:      DefaultExtraSize,
		ExtraMaxNumber: DefaultExtraMaxNumber,
		Backend:        string(SinglePassSample),
	}
}

// ExtractionParams converts the game preset into extraction parameters
func (g *GameConfig) ExtractionParams() ExtractionParams {
	return ExtractionParams{
		Backend:      g.Backend,
		DrawSize:     g.DrawSize,
		DrawMax:      g.MaxNumber,
		ExtraSize:    g.ExtraSize,
		ExtraMax:     g.ExtraMaxNumber,
		FixedNumbers: g.FixedNumbers,
	}
}

type EngineConfig struct {
	LockTimeout    time.Duration `mapstructure:"lock_timeout"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	RetryInterval  time.Duration `mapstructure:"retry_interval"`
	LockExpiration time.Duration `mapstructure:"lock_expiration"`
}

func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		LockTimeout:    DefaultLockTimeout,
		RetryAttempts:  DefaultRetryAttempts,
		RetryInterval:  DefaultRetryInterval,
		LockExpiration: DefaultLockExpiration,
	}
}

// RedisConfig holds connection settings for the lock backend
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
	MaxRetries   int `mapstructure:"max_retries"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// CircuitBreakerConfig holds breaker settings
type CircuitBreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Name          string        `mapstructure:"name"`
	MaxRequests   uint32        `mapstructure:"max_requests"`
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailureRatio  float64       `mapstructure:"failure_ratio"`
	MinRequests   uint32        `mapstructure:"min_requests"`
	OnStateChange bool          `mapstructure:"on_state_change"`
}

// DefaultCircuitBreakerConfig returns the default breaker settings
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:       true,
		Name:          DefaultCircuitBreakerName,
		MaxRequests:   DefaultCircuitBreakerMaxRequests,
		Interval:      DefaultCircuitBreakerInterval,
		Timeout:       DefaultCircuitBreakerTimeout,
		FailureRatio:  DefaultCircuitBreakerFailureRatio,
		MinRequests:   DefaultCircuitBreakerMinRequests,
		OnStateChange: true,
	}
}

// ConfigManager loads and watches the deployment configuration
type ConfigManager struct {
	viper  *viper.Viper
	config *Config
}

// NewConfigManager creates a config manager
func NewConfigManager() *ConfigManager {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lotto")
	v.AddConfigPath("$HOME/.lotto")

	v.SetEnvPrefix("LOTTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &ConfigManager{
		viper: v,
	}
}

// LoadConfig reads, parses and validates the configuration. A missing
// config file is not an error: defaults apply.
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	cm.setDefaults()

	if err := cm.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := cm.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cm.config = config
	return config, nil
}

func (cm *ConfigManager) setDefaults() {
	cm.viper.SetDefault("game.name", DefaultGameName)
	cm.viper.SetDefault("game.draw_size", DefaultDrawSize)
	cm.viper.SetDefault("game.max_number", DefaultMaxNumber)
	cm.viper.SetDefault("game.extra_size", DefaultExtraSize)
	cm.viper.SetDefault("game.extra_max_number", DefaultExtraMaxNumber)
	cm.viper.SetDefault("game.backend", string(SinglePassSample))

	cm.viper.SetDefault("reducer.trial_ceiling", DefaultTrialCeiling)
	cm.viper.SetDefault("reducer.survivor_threshold", DefaultSurvivorThreshold)
	cm.viper.SetDefault("reducer.survival_probability", DefaultSurvivalProbability)
	cm.viper.SetDefault("reducer.workers", 0)

	cm.viper.SetDefault("engine.lock_timeout", "30s")
	cm.viper.SetDefault("engine.retry_attempts", 3)
	cm.viper.SetDefault("engine.retry_interval", "100ms")
	cm.viper.SetDefault("engine.lock_expiration", "30s")

	cm.viper.SetDefault("redis.addr", DefaultRedisAddr)
	cm.viper.SetDefault("redis.password", DefaultRedisPassword)
	cm.viper.SetDefault("redis.db", DefaultRedisDB)
	cm.viper.SetDefault("redis.pool_size", DefaultRedisPoolSize)
	cm.viper.SetDefault("redis.min_idle_conns", DefaultRedisMinIdleConns)
	cm.viper.SetDefault("redis.max_retries", DefaultRedisMaxRetries)
	cm.viper.SetDefault("redis.dial_timeout", "5s")
	cm.viper.SetDefault("redis.read_timeout", "3s")
	cm.viper.SetDefault("redis.write_timeout", "3s")
	cm.viper.SetDefault("redis.pool_timeout", "4s")

	cm.viper.SetDefault("circuit_breaker.enabled", true)
	cm.viper.SetDefault("circuit_breaker.name", DefaultCircuitBreakerName)
	cm.viper.SetDefault("circuit_breaker.max_requests", DefaultCircuitBreakerMaxRequests)
	cm.viper.SetDefault("circuit_breaker.interval", "60s")
	cm.viper.SetDefault("circuit_breaker.timeout", "30s")
	cm.viper.SetDefault("circuit_breaker.failure_ratio", DefaultCircuitBreakerFailureRatio)
	cm.viper.SetDefault("circuit_breaker.min_requests", DefaultCircuitBreakerMinRequests)
	cm.viper.SetDefault("circuit_breaker.on_state_change", true)
}

// WatchConfig reloads the configuration whenever the file changes. A change
// that fails to parse or validate is dropped and the previous config stays
// in effect.
func (cm *ConfigManager) WatchConfig(callback func(*Config)) error {
	cm.viper.WatchConfig()
	cm.viper.OnConfigChange(func(e fsnotify.Event) {
		config := &Config{}
		if err := cm.viper.Unmarshal(config); err != nil {
			return
		}
		if err := config.Validate(); err != nil {
			return
		}

		cm.config = config
		if callback != nil {
			callback(config)
		}
	})

	return nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config { return cm.config }

// ReloadConfig re-reads the configuration from disk
func (cm *ConfigManager) ReloadConfig() (*Config, error) { return cm.LoadConfig() }

// NewDefaultConfigManager creates a manager preloaded with defaults, without
// touching the filesystem
func NewDefaultConfigManager() *ConfigManager {
	cm := NewConfigManager()
	cm.setDefaults()

	cm.config = &Config{
		Game:           DefaultGameConfig(),
		Reducer:        DefaultReducerConfig(),
		Engine:         DefaultEngineConfig(),
		Redis:          DefaultRedisConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
	}
	return cm
}

// DefaultRedisConfig returns the default Redis settings
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         DefaultRedisAddr,
		Password:     DefaultRedisPassword,
		DB:           DefaultRedisDB,
		PoolSize:     DefaultRedisPoolSize,
		MinIdleConns: DefaultRedisMinIdleConns,
		MaxRetries:   DefaultRedisMaxRetries,
		DialTimeout:  DefaultRedisDialTimeout,
		ReadTimeout:  DefaultRedisReadTimeout,
		WriteTimeout: DefaultRedisWriteTimeout,
		PoolTimeout:  DefaultRedisPoolTimeout,
	}
}

// NewRedisClientFromConfig creates a Redis client from config. A nil config
// gets the defaults.
func NewRedisClientFromConfig(config *RedisConfig) *redis.Client {
	if config == nil {
		config = DefaultRedisConfig()
	}

	return redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolTimeout:  config.PoolTimeout,
	})
}
