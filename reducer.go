package lotto

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ReducerConfig holds the trial reducer's policy knobs. The survivor
// threshold (10) and the survival probability (1/2) are observed policy
// constants with no deeper justification; they are configurable rather than
// tuned.
type ReducerConfig struct {
	TrialCeiling        int     `mapstructure:"trial_ceiling"        json:"trial_ceiling"`
	SurvivorThreshold   int     `mapstructure:"survivor_threshold"   json:"survivor_threshold"`
	SurvivalProbability float64 `mapstructure:"survival_probability" json:"survival_probability"`
	Workers             int     `mapstructure:"workers"              json:"workers"` // 0 means NumCPU
}

// DefaultReducerConfig returns the default reducer policy
func DefaultReducerConfig() *ReducerConfig {
	return &ReducerConfig{
		TrialCeiling:        DefaultTrialCeiling,
		SurvivorThreshold:   DefaultSurvivorThreshold,
		SurvivalProbability: DefaultSurvivalProbability,
	}
}

// Validate validates the reducer policy
func (c *ReducerConfig) Validate() error {
	if c.TrialCeiling <= 0 {
		return ErrInvalidTrialCeiling
	}
	if c.SurvivorThreshold < MinSurvivorThreshold {
		return ErrInvalidReducerPolicy.WithDetails(
			"survivor threshold must be at least 2")
	}
	if c.SurvivalProbability <= 0 || c.SurvivalProbability >= 1 {
		return ErrInvalidReducerPolicy.WithDetails(
			"survival probability must be within (0, 1)")
	}
	if c.Workers < 0 {
		return ErrInvalidReducerPolicy.WithDetails(
			"workers cannot be negative")
	}
	return nil
}

// SetDefaults fills zero values with defaults
func (c *ReducerConfig) SetDefaults() {
	if c.TrialCeiling == 0 {
		c.TrialCeiling = DefaultTrialCeiling
	}
	if c.SurvivorThreshold == 0 {
		c.SurvivorThreshold = DefaultSurvivorThreshold
	}
	if c.SurvivalProbability == 0 {
		c.SurvivalProbability = DefaultSurvivalProbability
	}
}

// ReduceResult is the outcome of one reducer invocation
type ReduceResult struct {
	Numbers []int `json:"numbers"` // the winning trial's draw
	Trials  int   `json:"trials"`  // how many trials were run
	Rounds  int   `json:"rounds"`  // coin-flip winnowing rounds performed
}

// TrialReducer amplifies randomness by refusing to trust any single trial:
// it runs a random number of independent trials concurrently, then lets a
// second random process winnow the batch down and pick the winner. The
// two-stage structure (parallel generation, randomized winnowing, uniform
// pick) is the point, not a performance device.
type TrialReducer struct {
	src    RandomSource
	config *ReducerConfig
}

// NewTrialReducer creates a reducer with the default policy
func NewTrialReducer(src RandomSource) *TrialReducer {
	return &TrialReducer{src: src, config: DefaultReducerConfig()}
}

// NewTrialReducerWithConfig creates a reducer with a custom policy
func NewTrialReducerWithConfig(src RandomSource, config *ReducerConfig) (*TrialReducer, error) {
	if config == nil {
		return nil, ErrInvalidParameters.WithDetails("nil reducer config")
	}
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &TrialReducer{src: src, config: config}, nil
}

// Config returns a copy of the reducer policy
func (tr *TrialReducer) Config() ReducerConfig { return *tr.config }

// Reduce runs between 1 and ceiling trials of the given backend, all with
// the same request, and collapses them to a single result. A ceiling of 0 or
// less selects the configured default. Any trial failure aborts the whole
// batch: no partial outcomes are accepted.
func (tr *TrialReducer) Reduce(ctx context.Context, backend Backend, req DrawRequest, ceiling int) (*ReduceResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if ceiling <= 0 {
		ceiling = tr.config.TrialCeiling
	}

	n, err := tr.src.Intn(ceiling)
	if err != nil {
		return nil, err
	}
	n++ // trial count is uniform in [1, ceiling]

	batch, err := tr.runTrials(ctx, backend, req, n)
	if err != nil {
		return nil, err
	}

	winner, rounds, err := tr.winnow(batch)
	if err != nil {
		return nil, err
	}

	return &ReduceResult{Numbers: winner, Trials: n, Rounds: rounds}, nil
}

// runTrials launches n trials over a worker pool and joins on all of them.
// Completion order carries no meaning; the batch is an unordered multiset.
// The first trial error cancels the remaining work and fails the batch.
func (tr *TrialReducer) runTrials(ctx context.Context, backend Backend, req DrawRequest, n int) ([][]int, error) {
	workers := tr.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]int, n)
	var (
		cursor   int64 = -1
		wg       sync.WaitGroup
		failOnce sync.Once
		firstErr error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				i := atomic.AddInt64(&cursor, 1)
				if i >= int64(n) {
					return
				}
				numbers, err := runTrial(backend, tr.src, req)
				if err != nil {
					fail(err)
					return
				}
				// Each worker writes only to indices it claimed, so the
				// shared slice needs no lock.
				results[i] = numbers
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, ErrDrawFailure.WithCause(firstErr)
	}
	if err := ctx.Err(); err != nil {
		// The caller's context expired or was canceled mid-batch.
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrDrawTimeout.WithCause(err)
		}
		return nil, ErrDrawFailure.WithCause(err)
	}
	return results, nil
}

// winnow repeatedly runs an independent fair-coin filter over the batch
// until fewer than the threshold survive, then picks one survivor uniformly.
// A round that eliminates everyone is re-flipped from the same batch, so a
// winner always emerges.
func (tr *TrialReducer) winnow(batch [][]int) ([]int, int, error) {
	if len(batch) == 0 {
		return nil, 0, ErrEmptyTrialBatch
	}

	survivors := batch
	rounds := 0
	for len(survivors) >= tr.config.SurvivorThreshold {
		next := make([][]int, 0, len(survivors)/2+1)
		for _, s := range survivors {
			coin, err := tr.src.Float64()
			if err != nil {
				return nil, rounds, err
			}
			if coin < tr.config.SurvivalProbability {
				next = append(next, s)
			}
		}
		rounds++
		if len(next) == 0 {
			continue
		}
		survivors = next
	}

	idx := 0
	if len(survivors) > 1 {
		var err error
		idx, err = tr.src.Intn(len(survivors))
		if err != nil {
			return nil, rounds, err
		}
	}
	return survivors[idx], rounds, nil
}
