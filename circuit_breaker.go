package lotto

import (
	"context"

	"github.com/sony/gobreaker"
)

// CircuitBreakerEngine wraps an Extractor with a circuit breaker so a
// failing Redis or draw pipeline stops taking traffic for a while instead of
// failing every caller slowly
type CircuitBreakerEngine struct {
	extractor Extractor

	breaker *gobreaker.CircuitBreaker
	logger  Logger
	config  *CircuitBreakerConfig
}

// NewCircuitBreakerEngine wraps the given extractor. When the breaker is
// disabled in config the wrapper is a plain pass-through.
func NewCircuitBreakerEngine(extractor Extractor, config *CircuitBreakerConfig, logger Logger) *CircuitBreakerEngine {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	if !config.Enabled {
		return &CircuitBreakerEngine{
			extractor: extractor,
			logger:    logger,
			config:    config,
		}
	}

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange && logger != nil {
				logger.Info("circuit breaker %q state changed from %s to %s", name, from, to)
			}
		},
	}

	return &CircuitBreakerEngine{
		extractor: extractor,
		breaker:   gobreaker.NewCircuitBreaker(settings),
		logger:    logger,
		config:    config,
	}
}

func (c *CircuitBreakerEngine) executeWithBreaker(operation func() (any, error)) (any, error) {
	if c.breaker == nil {
		return operation()
	}

	result, err := c.breaker.Execute(operation)
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, ErrCircuitBreakerOpen.WithDetails("requests are being rejected")
		}
		if err == gobreaker.ErrTooManyRequests {
			return nil, ErrCircuitBreakerOpen.WithDetails("too many requests while half-open")
		}
	}

	return result, err
}

// Extract runs one extraction through the breaker
func (c *CircuitBreakerEngine) Extract(ctx context.Context, params ExtractionParams) (*Extraction, error) {
	result, err := c.executeWithBreaker(func() (any, error) {
		return c.extractor.Extract(ctx, params)
	})
	if err != nil {
		return nil, err
	}

	return result.(*Extraction), nil
}

// State returns the breaker state as a string
func (c *CircuitBreakerEngine) State() string {
	if c.breaker == nil {
		return "disabled"
	}

	switch c.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Counts returns the breaker's request statistics
func (c *CircuitBreakerEngine) Counts() gobreaker.Counts {
	if c.breaker == nil {
		return gobreaker.Counts{}
	}
	return c.breaker.Counts()
}

// HealthCheck reports the breaker's state and rates for health endpoints
func (c *CircuitBreakerEngine) HealthCheck() map[string]any {
	result := map[string]any{
		"circuit_breaker_enabled": c.config.Enabled,
	}

	if !c.config.Enabled || c.breaker == nil {
		result["state"] = "disabled"
		result["healthy"] = true
		return result
	}

	state := c.State()
	counts := c.Counts()

	result["state"] = state
	result["requests"] = counts.Requests
	result["total_successes"] = counts.TotalSuccesses
	result["total_failures"] = counts.TotalFailures

	if counts.Requests > 0 {
		result["failure_rate"] = float64(counts.TotalFailures) / float64(counts.Requests)
	} else {
		result["failure_rate"] = 0.0
	}

	healthy := true
	switch state {
	case "open":
		healthy = false
	case "half-open":
		if counts.ConsecutiveFailures > 2 {
			healthy = false
		}
	}
	result["healthy"] = healthy

	return result
}
