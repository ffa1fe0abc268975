package trie_serv

import (
	"fmt"
	"runtime/debug"

	"github.com/nats-io/nats.go/micro"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_api"
)

// OnPanic, when set, is called after a handler panic has been logged.
var OnPanic func(endpoint string, recovered any)

// safe turns a handler panic into a 500 reply instead of killing the
// subscription goroutine.
func (s *Service) safe(endpoint string, h micro.HandlerFunc) micro.HandlerFunc {
	return func(req micro.Request) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			s.log.Error().
				Str("endpoint", endpoint).
				Str("subject", req.Subject()).
				Str("stack", string(debug.Stack())).
				Msgf("panic: %v", r)
			if OnPanic != nil {
				OnPanic(endpoint, r)
			}
			s.fail(req, trie_api.CodeInternal, fmt.Sprintf("internal error in %s", endpoint))
		}()
		h(req)
	}
}
