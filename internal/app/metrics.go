package app

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics counts what a session did with the input it was given.
// Dispatcher-level latency lives in dispatcher.Metrics.
type Metrics struct {
	mu sync.RWMutex

	keyPresses  atomic.Uint64
	unboundKeys atomic.Uint64

	commits atomic.Uint64
	noOps   atomic.Uint64
	errors  atomic.Uint64

	inputTotalNs atomic.Int64
	inputMaxNs   atomic.Int64

	// guarded by mu
	actions   map[string]ActionTiming
	startTime time.Time
}

// ActionTiming accumulates dispatch times for one action name.
type ActionTiming struct {
	Count uint64
	Total time.Duration
	Max   time.Duration
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now(), actions: make(map[string]ActionTiming)}
}

// RecordAction records how long the dispatcher spent on one action,
// including hooks.
func (m *Metrics) RecordAction(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.actions[name]
	t.Count++
	t.Total += duration
	t.Max = max(t.Max, duration)
	m.actions[name] = t
}

// RecordKey records a key press and whether it was bound.
func (m *Metrics) RecordKey(bound bool) {
	m.keyPresses.Add(1)
	if !bound {
		m.unboundKeys.Add(1)
	}
}

// RecordRun records one action run and how long it took.
func (m *Metrics) RecordRun(duration time.Duration, outcome Outcome) {
	switch outcome {
	case OutcomeCommitted:
		m.commits.Add(1)
	case OutcomeNoOp:
		m.noOps.Add(1)
	default:
		m.errors.Add(1)
	}

	ns := duration.Nanoseconds()
	m.inputTotalNs.Add(ns)
	for {
		old := m.inputMaxNs.Load()
		if ns <= old {
			break
		}
		if m.inputMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Outcome classifies an action run.
type Outcome uint8

const (
	OutcomeCommitted Outcome = iota
	OutcomeNoOp
	OutcomeError
)

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	start := m.startTime
	actions := make(map[string]ActionTiming, len(m.actions))
	for name, t := range m.actions {
		actions[name] = t
	}
	m.mu.RUnlock()

	runs := m.commits.Load() + m.noOps.Load() + m.errors.Load()
	var avg time.Duration
	if runs > 0 {
		avg = time.Duration(m.inputTotalNs.Load() / int64(runs))
	}

	return MetricsSnapshot{
		Uptime:      time.Since(start),
		KeyPresses:  m.keyPresses.Load(),
		UnboundKeys: m.unboundKeys.Load(),
		Runs:        runs,
		Commits:     m.commits.Load(),
		NoOps:       m.noOps.Load(),
		Errors:      m.errors.Load(),
		AvgRun:      avg,
		MaxRun:      time.Duration(m.inputMaxNs.Load()),
		Actions:     actions,
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.keyPresses.Store(0)
	m.unboundKeys.Store(0)
	m.commits.Store(0)
	m.noOps.Store(0)
	m.errors.Store(0)
	m.inputTotalNs.Store(0)
	m.inputMaxNs.Store(0)

	m.mu.Lock()
	m.startTime = time.Now()
	m.actions = make(map[string]ActionTiming)
	m.mu.Unlock()
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime      time.Duration
	KeyPresses  uint64
	UnboundKeys uint64
	Runs        uint64
	Commits     uint64
	NoOps       uint64
	Errors      uint64
	AvgRun      time.Duration
	MaxRun      time.Duration
	Actions     map[string]ActionTiming
}
