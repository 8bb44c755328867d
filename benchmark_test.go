package lotto

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkBackendDraw(b *testing.B) {
	src := NewSeededRandomSource(1)

	for _, backend := range Backends() {
		b.Run(string(backend), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := backend.Draw(src, 6, 90); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkBackendDrawSecure(b *testing.B) {
	src := NewSecureRandomSource()

	b.Run(string(SinglePassSample), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := SinglePassSample.Draw(src, 6, 90); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkRunTrialWithFixedNumbers(b *testing.B) {
	src := NewSeededRandomSource(2)
	req := DrawRequest{Size: 6, MaxNumber: 90, FixedNumbers: []int{7, 13, 42}}

	for i := 0; i < b.N; i++ {
		if _, err := runTrial(SinglePassSample, src, req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReduce(b *testing.B) {
	ctx := context.Background()
	src := NewSeededRandomSource(3)
	reducer := NewTrialReducer(src)
	req := DrawRequest{Size: 6, MaxNumber: 90}

	for _, ceiling := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("ceiling_%d", ceiling), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := reducer.Reduce(ctx, SinglePassSample, req, ceiling); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
