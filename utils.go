package lotto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// ValidateDrawParams verifies that 0 < size <= maxNumber. Every backend
// invocation runs this check; violations are never clamped.
func ValidateDrawParams(size, maxNumber int) error {
	if size <= 0 || size > maxNumber {
		return NewInvalidDrawParametersError(size, maxNumber)
	}
	return nil
}

// generateLockValue generates a unique lock ownership token
func generateLockValue() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand should never fail; fall back to a timestamp token
		return fmt.Sprintf("lock_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
