package lotto

import "time"

const (
	// DefaultTrialCeiling is the upper bound used for the random trial count
	// when the caller does not supply one
	DefaultTrialCeiling = 100_000

	// DefaultSurvivorThreshold is the batch size below which the coin-flip
	// winnowing stops and the final uniform pick happens
	DefaultSurvivorThreshold = 10

	// DefaultSurvivalProbability is the per-outcome survival chance of one
	// winnowing round
	DefaultSurvivalProbability = 0.5

	// MinSurvivorThreshold is the smallest winnowing threshold allowed
	MinSurvivorThreshold = 2
)

// SuperEnalotto-style defaults for the game preset
const (
	DefaultGameName       = "superenalotto"
	DefaultDrawSize       = 6
	DefaultMaxNumber      = 90
	DefaultExtraSize      = 1
	DefaultExtraMaxNumber = 90
)

const (
	// DefaultLockTimeout is the default timeout for acquiring session locks
	DefaultLockTimeout = 30 * time.Second

	// DefaultRetryAttempts is the default number of lock retry attempts
	DefaultRetryAttempts = 3

	// DefaultRetryInterval is the default interval between lock retries
	DefaultRetryInterval = 100 * time.Millisecond

	// DefaultLockExpiration is the default expiration time for session locks
	DefaultLockExpiration = 30 * time.Second

	// LockKeyPrefix is the prefix for Redis session lock keys
	LockKeyPrefix = "lotto:lock:"

	// MaxRetryAttempts is the maximum number of lock retry attempts allowed
	MaxRetryAttempts = 10

	// MinLockTimeout is the minimum lock timeout allowed
	MinLockTimeout = 1 * time.Second

	// MaxLockTimeout is the maximum lock timeout allowed
	MaxLockTimeout = 5 * time.Minute
)

const (
	// DefaultCircuitBreakerName is the default name for the circuit breaker
	DefaultCircuitBreakerName = "lotto-engine"

	// DefaultCircuitBreakerMaxRequests is the default max requests
	DefaultCircuitBreakerMaxRequests = 3

	// DefaultCircuitBreakerInterval is the default counting interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default open-state timeout
	DefaultCircuitBreakerTimeout = 30 * time.Second

	// DefaultCircuitBreakerFailureRatio is the default failure ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default min requests before
	// the failure ratio is evaluated
	DefaultCircuitBreakerMinRequests = 3
)

const (
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPassword     = ""
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 50
	DefaultRedisMinIdleConns = 10
	DefaultRedisMaxRetries   = 3
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisPoolTimeout  = 4 * time.Second
)
