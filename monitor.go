package lotto

import (
	"sync/atomic"
	"time"

	"github.com/rcrowley/go-metrics"
)

// DrawMonitor collects extraction metrics
type DrawMonitor struct {
	registry    metrics.Registry
	extractions metrics.Meter
	failures    metrics.Counter
	trials      metrics.Counter
	reduceTimer metrics.Timer

	enabled int32
}

// DrawMetrics is a point-in-time snapshot of the monitor
type DrawMetrics struct {
	Extractions    int64         `json:"extractions"`
	Failures       int64         `json:"failures"`
	TrialsRun      int64         `json:"trials_run"`
	ExtractionRate float64       `json:"extraction_rate"` // per second, 1-minute average
	AvgReduceTime  time.Duration `json:"avg_reduce_time"`
}

// NewDrawMonitor creates an enabled monitor with its own registry
func NewDrawMonitor() *DrawMonitor {
	m := &DrawMonitor{
		registry: metrics.NewRegistry(),
		enabled:  1,
	}
	m.register()
	return m
}

func (m *DrawMonitor) register() {
	m.extractions = metrics.NewRegisteredMeter("lotto.extractions", m.registry)
	m.failures = metrics.NewRegisteredCounter("lotto.failures", m.registry)
	m.trials = metrics.NewRegisteredCounter("lotto.trials", m.registry)
	m.reduceTimer = metrics.NewRegisteredTimer("lotto.reduce_time", m.registry)
}

// RecordExtraction records one extraction attempt
func (m *DrawMonitor) RecordExtraction(success bool, trials int, duration time.Duration) {
	if !m.IsEnabled() {
		return
	}

	m.extractions.Mark(1)
	if !success {
		m.failures.Inc(1)
		return
	}
	m.trials.Inc(int64(trials))
	m.reduceTimer.Update(duration)
}

// Snapshot returns the current metric values
func (m *DrawMonitor) Snapshot() DrawMetrics {
	return DrawMetrics{
		Extractions:    m.extractions.Count(),
		Failures:       m.failures.Count(),
		TrialsRun:      m.trials.Count(),
		ExtractionRate: m.extractions.Rate1(),
		AvgReduceTime:  time.Duration(m.reduceTimer.Mean()),
	}
}

// Reset clears all collected metrics
func (m *DrawMonitor) Reset() {
	m.registry.UnregisterAll()
	m.register()
}

// Enable turns metric collection on
func (m *DrawMonitor) Enable() { atomic.StoreInt32(&m.enabled, 1) }

// Disable turns metric collection off
func (m *DrawMonitor) Disable() { atomic.StoreInt32(&m.enabled, 0) }

// IsEnabled reports whether the monitor is collecting
func (m *DrawMonitor) IsEnabled() bool { return atomic.LoadInt32(&m.enabled) == 1 }
