package trie_serv

import (
	"testing"

	"github.com/nats-io/nats.go/micro"
	"github.com/rskv-p/minitrie/config"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_api"
	"github.com/stretchr/testify/assert"
)

// stubRequest records error replies; other methods are unused.
type stubRequest struct {
	micro.Request
	code string
}

func (r *stubRequest) Subject() string { return "test.trie.search" }

func (r *stubRequest) Error(code, _ string, _ []byte, _ ...micro.RespondOpt) error {
	r.code = code
	return nil
}

func TestSafeRecoversPanics(t *testing.T) {
	s := New(config.Default())
	var seen any
	OnPanic = func(_ string, r any) { seen = r }
	t.Cleanup(func() { OnPanic = nil })

	req := &stubRequest{}
	assert.NotPanics(t, func() {
		s.safe("search", func(micro.Request) { panic("boom") })(req)
	})
	assert.Equal(t, trie_api.CodeInternal, req.code)
	assert.Equal(t, "boom", seen)
	assert.EqualValues(t, 1, s.Metrics().Snapshot()["errors."+trie_api.CodeInternal])

	req = &stubRequest{}
	s.safe("search", func(micro.Request) {})(req)
	assert.Empty(t, req.code)
}
