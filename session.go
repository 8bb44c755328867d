package lotto

import (
	"context"
	"sync"
)

// SessionState tracks where a draw session is in its lifecycle
type SessionState int

const (
	// SessionIdle means no draw has been performed yet
	SessionIdle SessionState = iota
	// SessionDrawing means a draw is in flight
	SessionDrawing
	// SessionSettled means at least one draw has completed successfully
	SessionSettled
)

// String returns the state name
func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionDrawing:
		return "drawing"
	case SessionSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// ExtractionParams describes one full extraction: the primary draw plus an
// optional extra draw. The extra draw runs only when both ExtraSize and
// ExtraMax are positive.
type ExtractionParams struct {
	Backend      string `json:"backend"` // empty means pick a backend at random
	DrawSize     int    `json:"draw_size"`
	DrawMax      int    `json:"draw_max"`
	ExtraSize    int    `json:"extra_size"`
	ExtraMax     int    `json:"extra_max"`
	FixedNumbers []int  `json:"fixed_numbers,omitempty"`
	TrialCeiling int    `json:"trial_ceiling"` // 0 means the reducer default
}

// DrawSession runs extractions and remembers the most recent settled result.
// A failed draw never disturbs the previous result: the session falls back
// to Settled (or Idle if nothing ever settled) with its last extraction
// intact.
type DrawSession struct {
	reducer *TrialReducer
	src     RandomSource
	logger  Logger

	// drawMu serializes Extract calls so the state machine never sees two
	// draws in flight at once.
	drawMu sync.Mutex

	mu          sync.RWMutex
	state       SessionState
	last        *Extraction
	lastTrials  int
	lastBackend Backend
}

// NewDrawSession creates a session backed by the secure random source
func NewDrawSession() *DrawSession {
	return NewDrawSessionWithSource(NewSecureRandomSource())
}

// NewDrawSessionWithSource creates a session over a caller-provided source,
// typically a seeded one in tests
func NewDrawSessionWithSource(src RandomSource) *DrawSession {
	return &DrawSession{
		reducer: NewTrialReducer(src),
		src:     src,
		logger:  &DefaultLogger{},
		state:   SessionIdle,
	}
}

// NewDrawSessionWithConfig creates a session with a custom reducer policy
func NewDrawSessionWithConfig(src RandomSource, config *ReducerConfig) (*DrawSession, error) {
	reducer, err := NewTrialReducerWithConfig(src, config)
	if err != nil {
		return nil, err
	}
	return &DrawSession{
		reducer: reducer,
		src:     src,
		logger:  &DefaultLogger{},
		state:   SessionIdle,
	}, nil
}

// SetLogger replaces the session logger
func (ds *DrawSession) SetLogger(logger Logger) {
	if logger != nil {
		ds.logger = logger
	}
}

// State returns the current session state
func (ds *DrawSession) State() SessionState {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.state
}

// LastExtraction returns the most recent settled extraction, or nil
func (ds *DrawSession) LastExtraction() *Extraction {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.last
}

// TrialsRun returns the number of trials behind the last settled extraction
func (ds *DrawSession) TrialsRun() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.lastTrials
}

// ResolvedBackend returns the backend that produced the last settled
// extraction
func (ds *DrawSession) ResolvedBackend() Backend {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.lastBackend
}

// Extract runs a complete extraction. The backend name is resolved exactly
// once per call; both the primary and the extra draw use the same backend.
// An unknown backend name is not an error: a backend is substituted at
// random and the substitution is logged.
func (ds *DrawSession) Extract(ctx context.Context, params ExtractionParams) (*Extraction, error) {
	ds.drawMu.Lock()
	defer ds.drawMu.Unlock()

	ds.setState(SessionDrawing)

	result, trials, backend, err := ds.draw(ctx, params)
	if err != nil {
		ds.restoreState()
		return nil, err
	}

	ds.mu.Lock()
	ds.last = result
	ds.lastTrials = trials
	ds.lastBackend = backend
	ds.state = SessionSettled
	ds.mu.Unlock()

	return result, nil
}

func (ds *DrawSession) draw(ctx context.Context, params ExtractionParams) (*Extraction, int, Backend, error) {
	backend, known, err := ResolveBackend(params.Backend, ds.src)
	if err != nil {
		return nil, 0, "", err
	}
	if !known && params.Backend != "" {
		ds.logger.Info("unknown backend %q, substituting %q", params.Backend, backend)
	}

	primary, err := ds.reducer.Reduce(ctx, backend, DrawRequest{
		Size:         params.DrawSize,
		MaxNumber:    params.DrawMax,
		FixedNumbers: params.FixedNumbers,
	}, params.TrialCeiling)
	if err != nil {
		ds.logger.Error("primary draw failed: %v", err)
		return nil, 0, "", err
	}

	result := NewExtraction(primary.Numbers, nil)
	trials := primary.Trials

	if params.ExtraSize > 0 && params.ExtraMax > 0 {
		extra, err := ds.reducer.Reduce(ctx, backend, DrawRequest{
			Size:      params.ExtraSize,
			MaxNumber: params.ExtraMax,
		}, params.TrialCeiling)
		if err != nil {
			ds.logger.Error("extra draw failed: %v", err)
			return nil, 0, "", err
		}
		result.Extra = extra.Numbers
		trials += extra.Trials
	}

	return result, trials, backend, nil
}

func (ds *DrawSession) setState(state SessionState) {
	ds.mu.Lock()
	ds.state = state
	ds.mu.Unlock()
}

// restoreState puts the session back where a failed draw found it
func (ds *DrawSession) restoreState() {
	ds.mu.Lock()
	if ds.last != nil {
		ds.state = SessionSettled
	} else {
		ds.state = SessionIdle
	}
	ds.mu.Unlock()
}

// DrawCombination draws size distinct numbers in [1, maxNumber] through the
// full trial pipeline and returns them. The backend name may be empty or
// unknown; a random backend is used in that case.
func DrawCombination(ctx context.Context, backendName string, size, maxNumber int, fixedNumbers []int, trialCeiling int) ([]int, error) {
	session := NewDrawSession()
	session.SetLogger(NewSilentLogger())
	result, err := session.Extract(ctx, ExtractionParams{
		Backend:      backendName,
		DrawSize:     size,
		DrawMax:      maxNumber,
		FixedNumbers: fixedNumbers,
		TrialCeiling: trialCeiling,
	})
	if err != nil {
		return nil, err
	}
	return result.Numbers, nil
}

// DrawExtraction runs a full extraction (primary draw plus optional extra)
// in one shot
func DrawExtraction(ctx context.Context, backendName string, drawSize, drawMax, extraSize, extraMax int, fixedNumbers []int, trialCeiling int) (*Extraction, error) {
	session := NewDrawSession()
	session.SetLogger(NewSilentLogger())
	return session.Extract(ctx, ExtractionParams{
		Backend:      backendName,
		DrawSize:     drawSize,
		DrawMax:      drawMax,
		ExtraSize:    extraSize,
		ExtraMax:     extraMax,
		FixedNumbers: fixedNumbers,
		TrialCeiling: trialCeiling,
	})
}
