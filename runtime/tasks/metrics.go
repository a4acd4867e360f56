package tasks

import (
	"sort"
	"sync"
	"time"
)

// Metrics tracks task processing statistics per task kind.
type Metrics struct {
	mu sync.RWMutex

	processed map[string]int64
	succeeded map[string]int64
	failed    map[string]int64

	totalDuration map[string]time.Duration
	minDuration   map[string]time.Duration
	maxDuration   map[string]time.Duration
}

// Stats is a snapshot of the metrics of one task kind.
type Stats struct {
	Kind        string        `json:"kind"`
	Processed   int64         `json:"processed"`
	Succeeded   int64         `json:"succeeded"`
	Failed      int64         `json:"failed"`
	MinDuration time.Duration `json:"min_duration"`
	MaxDuration time.Duration `json:"max_duration"`
	AvgDuration time.Duration `json:"avg_duration"`
}

// NewMetrics creates an empty tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		processed:     make(map[string]int64),
		succeeded:     make(map[string]int64),
		failed:        make(map[string]int64),
		totalDuration: make(map[string]time.Duration),
		minDuration:   make(map[string]time.Duration),
		maxDuration:   make(map[string]time.Duration),
	}
}

// RecordSuccess records a task that finished without error.
func (m *Metrics) RecordSuccess(kind string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed[kind]++
	m.succeeded[kind]++
	m.updateDuration(kind, d)
}

// RecordFailure records a task whose handler failed.
func (m *Metrics) RecordFailure(kind string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed[kind]++
	m.failed[kind]++
	m.updateDuration(kind, d)
}

func (m *Metrics) updateDuration(kind string, d time.Duration) {
	m.totalDuration[kind] += d
	if lo, ok := m.minDuration[kind]; !ok || d < lo {
		m.minDuration[kind] = d
	}
	if hi, ok := m.maxDuration[kind]; !ok || d > hi {
		m.maxDuration[kind] = d
	}
}

// Stats returns the statistics of kind.
func (m *Metrics) Stats(kind string) Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{
		Kind:        kind,
		Processed:   m.processed[kind],
		Succeeded:   m.succeeded[kind],
		Failed:      m.failed[kind],
		MinDuration: m.minDuration[kind],
		MaxDuration: m.maxDuration[kind],
	}
	if s.Processed > 0 {
		s.AvgDuration = m.totalDuration[kind] / time.Duration(s.Processed)
	}
	return s
}

// All returns the statistics of every kind seen so far, sorted by kind.
func (m *Metrics) All() []Stats {
	m.mu.RLock()
	kinds := make([]string, 0, len(m.processed))
	for k := range m.processed {
		kinds = append(kinds, k)
	}
	m.mu.RUnlock()

	sort.Strings(kinds)
	out := make([]Stats, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, m.Stats(k))
	}
	return out
}
