package lotto

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertValidCombination checks the contract every backend must honor:
// exactly size results, all distinct, all within [1, maxNumber].
func assertValidCombination(t *testing.T, numbers []int, size, maxNumber int) {
	t.Helper()

	require.Len(t, numbers, size)

	seen := make(map[int]bool, size)
	for _, n := range numbers {
		assert.GreaterOrEqual(t, n, 1, "number below range")
		assert.LessOrEqual(t, n, maxNumber, "number above range")
		assert.False(t, seen[n], "duplicate number %d", n)
		seen[n] = true
	}
}

func TestBackend_DrawContract(t *testing.T) {
	src := NewSeededRandomSource(42)

	cases := []struct {
		size      int
		maxNumber int
	}{
		{1, 1},
		{1, 90},
		{6, 90},
		{10, 10},
		{50, 90},
	}

	for _, backend := range Backends() {
		t.Run(string(backend), func(t *testing.T) {
			for _, tc := range cases {
				t.Run(fmt.Sprintf("%d_of_%d", tc.size, tc.maxNumber), func(t *testing.T) {
					for i := 0; i < 50; i++ {
						numbers, err := backend.Draw(src, tc.size, tc.maxNumber)
						require.NoError(t, err)
						assertValidCombination(t, numbers, tc.size, tc.maxNumber)
					}
				})
			}
		})
	}
}

func TestBackend_DrawFullPool(t *testing.T) {
	src := NewSeededRandomSource(7)

	// size == maxNumber leaves no freedom: every backend must return a
	// permutation of the whole pool.
	for _, backend := range Backends() {
		t.Run(string(backend), func(t *testing.T) {
			numbers, err := backend.Draw(src, 10, 10)
			require.NoError(t, err)

			sorted := make([]int, len(numbers))
			copy(sorted, numbers)
			sort.Ints(sorted)
			assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, sorted)
		})
	}
}

func TestBackend_DrawInvalidParams(t *testing.T) {
	src := NewSeededRandomSource(1)

	cases := []struct {
		name      string
		size      int
		maxNumber int
	}{
		{"zero size", 0, 10},
		{"negative size", -3, 10},
		{"size exceeds pool", 11, 10},
		{"zero pool", 1, 0},
	}

	for _, backend := range Backends() {
		for _, tc := range cases {
			t.Run(string(backend)+"/"+tc.name, func(t *testing.T) {
				numbers, err := backend.Draw(src, tc.size, tc.maxNumber)
				assert.Nil(t, numbers)
				assert.ErrorIs(t, err, ErrInvalidDrawParameters)
			})
		}
	}
}

// TestBackend_Uniformity verifies that the three uniform backends spread
// their picks evenly. With 6000 draws of 3 out of 10, each number should be
// hit about 1800 times; a chi-square over the 10 bins with a generous bound
// keeps the test deterministic under the fixed seed.
func TestBackend_Uniformity(t *testing.T) {
	const (
		maxNumber = 10
		size      = 3
		draws     = 6000
	)

	uniform := []Backend{PickAndRemove, RetryUntilUnique, SinglePassSample}

	for _, backend := range uniform {
		t.Run(string(backend), func(t *testing.T) {
			src := NewSeededRandomSource(12345)

			counts := make([]int, maxNumber+1)
			for i := 0; i < draws; i++ {
				numbers, err := backend.Draw(src, size, maxNumber)
				require.NoError(t, err)
				for _, n := range numbers {
					counts[n]++
				}
			}

			expected := float64(draws*size) / float64(maxNumber)
			chi2 := 0.0
			for n := 1; n <= maxNumber; n++ {
				diff := float64(counts[n]) - expected
				chi2 += diff * diff / expected
			}

			// 99.9th percentile of chi-square with 9 degrees of freedom is
			// about 27.9.
			assert.Less(t, chi2, 30.0, "per-number frequencies too skewed: %v", counts[1:])
		})
	}
}

func TestResolveBackend(t *testing.T) {
	src := NewSeededRandomSource(99)

	t.Run("known names resolve to themselves", func(t *testing.T) {
		for _, b := range Backends() {
			resolved, known, err := ResolveBackend(string(b), src)
			require.NoError(t, err)
			assert.True(t, known)
			assert.Equal(t, b, resolved)
		}
	})

	t.Run("unknown name falls back to a valid backend", func(t *testing.T) {
		resolved, known, err := ResolveBackend("quantum-dice", src)
		require.NoError(t, err)
		assert.False(t, known)
		assert.Contains(t, Backends(), resolved)
	})

	t.Run("empty name falls back to a valid backend", func(t *testing.T) {
		resolved, known, err := ResolveBackend("", src)
		require.NoError(t, err)
		assert.False(t, known)
		assert.Contains(t, Backends(), resolved)
	})

	t.Run("fallback covers every backend eventually", func(t *testing.T) {
		hit := make(map[Backend]bool)
		for i := 0; i < 200; i++ {
			resolved, _, err := ResolveBackend("nope", src)
			require.NoError(t, err)
			hit[resolved] = true
		}
		assert.Len(t, hit, len(Backends()))
	})
}

func TestValidateDrawParams(t *testing.T) {
	assert.NoError(t, ValidateDrawParams(1, 1))
	assert.NoError(t, ValidateDrawParams(6, 90))
	assert.NoError(t, ValidateDrawParams(90, 90))

	assert.ErrorIs(t, ValidateDrawParams(0, 90), ErrInvalidDrawParameters)
	assert.ErrorIs(t, ValidateDrawParams(-1, 90), ErrInvalidDrawParameters)
	assert.ErrorIs(t, ValidateDrawParams(91, 90), ErrInvalidDrawParameters)

	err := ValidateDrawParams(11, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size=11")
	assert.Contains(t, err.Error(), "maxNumber=10")
}
