package objectgraph

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks validation performance using lock-free atomic operations.
// All methods are safe for concurrent use and safe on a nil receiver, so
// recording sites never need a nil check.
type Metrics struct {
	// Walk counts
	walksTotal atomic.Uint64
	walksValid atomic.Uint64

	// Timing (stored as nanoseconds)
	walkTimeTotal atomic.Uint64
	walkTimeMin   atomic.Uint64
	walkTimeMax   atomic.Uint64

	// Rule outcomes
	rulesEvaluated  atomic.Uint64
	rulesBridged    atomic.Uint64
	violationsTotal atomic.Uint64

	// Per-rule timing
	ruleTiming sync.Map // map[string]*ruleMetrics
}

// ruleMetrics tracks metrics for a single rule name.
type ruleMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
	violations  atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so the first value becomes the minimum
	m.walkTimeMin.Store(^uint64(0))
	return m
}

// RecordWalk records a completed top-level walk.
func (m *Metrics) RecordWalk(duration time.Duration, valid bool) {
	if m == nil {
		return
	}
	m.walksTotal.Add(1)
	if valid {
		m.walksValid.Add(1)
	}

	ns := uint64(duration.Nanoseconds())
	m.walkTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.walkTimeMin.Load()
		if ns >= old {
			break
		}
		if m.walkTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.walkTimeMax.Load()
		if ns <= old {
			break
		}
		if m.walkTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordRule records one rule evaluation.
func (m *Metrics) RecordRule(name string, duration time.Duration, violated bool) {
	if m == nil {
		return
	}
	m.rulesEvaluated.Add(1)
	if violated {
		m.violationsTotal.Add(1)
	}

	v, ok := m.ruleTiming.Load(name)
	if !ok {
		v, _ = m.ruleTiming.LoadOrStore(name, &ruleMetrics{})
	}
	rm := v.(*ruleMetrics)
	rm.invocations.Add(1)
	rm.totalTime.Add(uint64(duration.Nanoseconds()))
	if violated {
		rm.violations.Add(1)
	}
}

// RecordBridge records an async rule driven to completion by the sync
// bridge.
func (m *Metrics) RecordBridge() {
	if m == nil {
		return
	}
	m.rulesBridged.Add(1)
}

// Stats is a point-in-time snapshot of the metrics.
type Stats struct {
	WalksTotal      uint64
	WalksValid      uint64
	WalkTimeTotal   time.Duration
	WalkTimeMin     time.Duration
	WalkTimeMax     time.Duration
	RulesEvaluated  uint64
	RulesBridged    uint64
	ViolationsTotal uint64
	Rules           map[string]RuleStats
}

// RuleStats is a snapshot of one rule's counters.
type RuleStats struct {
	Invocations uint64
	TotalTime   time.Duration
	Violations  uint64
}

// Stats returns a snapshot of all counters.
func (m *Metrics) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	s := Stats{
		WalksTotal:      m.walksTotal.Load(),
		WalksValid:      m.walksValid.Load(),
		WalkTimeTotal:   time.Duration(m.walkTimeTotal.Load()),
		WalkTimeMax:     time.Duration(m.walkTimeMax.Load()),
		RulesEvaluated:  m.rulesEvaluated.Load(),
		RulesBridged:    m.rulesBridged.Load(),
		ViolationsTotal: m.violationsTotal.Load(),
		Rules:           make(map[string]RuleStats),
	}
	if min := m.walkTimeMin.Load(); min != ^uint64(0) {
		s.WalkTimeMin = time.Duration(min)
	}
	m.ruleTiming.Range(func(k, v any) bool {
		rm := v.(*ruleMetrics)
		s.Rules[k.(string)] = RuleStats{
			Invocations: rm.invocations.Load(),
			TotalTime:   time.Duration(rm.totalTime.Load()),
			Violations:  rm.violations.Load(),
		}
		return true
	})
	return s
}
