package lotto

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureRandomSource(t *testing.T) {
	src := NewSecureRandomSource()

	t.Run("Intn stays in range", func(t *testing.T) {
		for _, n := range []int{1, 2, 10, 90, 100000} {
			for i := 0; i < 100; i++ {
				v, err := src.Intn(n)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, v, 0)
				assert.Less(t, v, n)
			}
		}
	})

	t.Run("Intn rejects non-positive bounds", func(t *testing.T) {
		_, err := src.Intn(0)
		assert.ErrorIs(t, err, ErrInvalidParameters)

		_, err = src.Intn(-5)
		assert.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("Float64 stays in range", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v, err := src.Float64()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	})

	t.Run("Intn with bound 1 is always zero", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			v, err := src.Intn(1)
			require.NoError(t, err)
			assert.Zero(t, v)
		}
	})
}

func TestSeededRandomSource(t *testing.T) {
	t.Run("same seed gives the same sequence", func(t *testing.T) {
		a := NewSeededRandomSource(1234)
		b := NewSeededRandomSource(1234)

		for i := 0; i < 100; i++ {
			va, err := a.Intn(1000)
			require.NoError(t, err)
			vb, err := b.Intn(1000)
			require.NoError(t, err)
			assert.Equal(t, va, vb)
		}
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		a := NewSeededRandomSource(1)
		b := NewSeededRandomSource(2)

		same := true
		for i := 0; i < 20; i++ {
			va, _ := a.Intn(1 << 30)
			vb, _ := b.Intn(1 << 30)
			if va != vb {
				same = false
				break
			}
		}
		assert.False(t, same)
	})

	t.Run("Intn rejects non-positive bounds", func(t *testing.T) {
		src := NewSeededRandomSource(9)
		_, err := src.Intn(0)
		assert.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		src := NewSeededRandomSource(77)

		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 1000; i++ {
					v, err := src.Intn(100)
					assert.NoError(t, err)
					assert.GreaterOrEqual(t, v, 0)
					assert.Less(t, v, 100)

					f, err := src.Float64()
					assert.NoError(t, err)
					assert.GreaterOrEqual(t, f, 0.0)
					assert.Less(t, f, 1.0)
				}
			}()
		}
		wg.Wait()
	})
}
