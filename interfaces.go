package lotto

import "context"

// Extractor produces one full lottery extraction per call
type Extractor interface {
	// Extract runs a primary draw and, when requested, an extra draw,
	// returning the combined extraction
	Extract(ctx context.Context, params ExtractionParams) (*Extraction, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// RandomSource is the process-wide source of randomness. Implementations
// must be safe for concurrent use: every trial in a batch shares the same
// source without external locking.
type RandomSource interface {
	// Intn returns a uniform random integer in [0, n). n must be positive.
	Intn(n int) (int, error)

	// Float64 returns a uniform random float in [0, 1)
	Float64() (float64, error)
}
