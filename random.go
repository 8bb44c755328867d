package lotto

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"sync"
)

// SecureRandomSource implements RandomSource using crypto/rand.
// It is stateless, so concurrent trials can share one instance freely.
type SecureRandomSource struct{}

// NewSecureRandomSource creates a new secure random source
func NewSecureRandomSource() *SecureRandomSource {
	return &SecureRandomSource{}
}

// Intn returns a uniform random integer in [0, n)
func (s *SecureRandomSource) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidParameters.WithDetails("Intn requires n > 0")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, ErrSystemError.WithCause(err)
	}
	return int(v.Int64()), nil
}

// Float64 returns a uniform random float in [0, 1)
func (s *SecureRandomSource) Float64() (float64, error) {
	// 53 bits keeps the full float64 mantissa precision
	v, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		return 0, ErrSystemError.WithCause(err)
	}
	return float64(v.Int64()) / float64(1<<53), nil
}

// SeededRandomSource implements RandomSource using math/rand behind a mutex.
// Same seed, same sequence: intended for tests and reproducible runs, never
// for real draws.
type SeededRandomSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededRandomSource creates a deterministic random source from a seed
func NewSeededRandomSource(seed int64) *SeededRandomSource {
	return &SeededRandomSource{rng: mrand.New(mrand.NewSource(seed))}
}

// Intn returns a uniform pseudo-random integer in [0, n)
func (s *SeededRandomSource) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidParameters.WithDetails("Intn requires n > 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n), nil
}

// Float64 returns a uniform pseudo-random float in [0, 1)
func (s *SeededRandomSource) Float64() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64(), nil
}
