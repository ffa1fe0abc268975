package trie_serv

import (
	"maps"
	"strings"
	"sync"
)

// Metrics is a set of named counters, keyed "endpoint.counter".
type Metrics struct {
	mu     sync.RWMutex
	values map[string]int64
}

func NewMetrics() *Metrics {
	return &Metrics{values: make(map[string]int64)}
}

func (m *Metrics) Inc(name string) { m.Add(name, 1) }

func (m *Metrics) Add(name string, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] += delta
}

// Set overwrites a gauge.
func (m *Metrics) Set(name string, value int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
}

// Snapshot copies every counter.
func (m *Metrics) Snapshot() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values)
}

// Scope returns the counters under prefix with the prefix stripped.
func (m *Metrics) Scope(prefix string) map[string]int64 {
	prefix = strings.TrimSuffix(prefix, ".") + "."
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64)
	for k, v := range m.values {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			out[rest] = v
		}
	}
	return out
}

// WithPrefix returns a recorder that prepends prefix to every name.
func (m *Metrics) WithPrefix(prefix string) *metricRecorder {
	return &metricRecorder{metrics: m, prefix: strings.TrimSuffix(prefix, ".") + "."}
}

type metricRecorder struct {
	metrics *Metrics
	prefix  string
}

func (r *metricRecorder) Inc(name string)              { r.metrics.Inc(r.prefix + name) }
func (r *metricRecorder) Add(name string, delta int64) { r.metrics.Add(r.prefix+name, delta) }
func (r *metricRecorder) Set(name string, value int64) { r.metrics.Set(r.prefix+name, value) }
