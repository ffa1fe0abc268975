package trie_serv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRecorder(t *testing.T) {
	m := NewMetrics()
	rec := m.WithPrefix("search.")
	rec.Inc("requests")
	rec.Inc("requests")
	rec.Add("results", 5)
	m.WithPrefix("insert").Set("words", 3)
	m.WithPrefix("insert").Set("words", 7)

	assert.Equal(t, map[string]int64{
		"search.requests": 2,
		"search.results":  5,
		"insert.words":    7,
	}, m.Snapshot())
	assert.Equal(t, map[string]int64{"requests": 2, "results": 5}, m.Scope("search"))
	assert.Empty(t, m.Scope("sea"))

	snap := m.Snapshot()
	snap["search.requests"] = 100
	assert.EqualValues(t, 2, m.Snapshot()["search.requests"])
}
