package trie_serv

import (
	"encoding/json"

	"github.com/nats-io/nats.go/micro"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_api"
)

// decode accepts an empty payload as the zero request.
func decode(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (s *Service) fail(req micro.Request, code, desc string) {
	s.metrics.Inc("errors." + code)
	s.log.Warn().Str("subject", req.Subject()).Str("code", code).Msg(desc)
	if err := req.Error(code, desc, nil); err != nil {
		s.log.Error().Err(err).Str("subject", req.Subject()).Msg("failed to send error reply")
	}
}

func (s *Service) reply(req micro.Request, v any) {
	if err := req.RespondJSON(v); err != nil {
		s.log.Error().Err(err).Str("subject", req.Subject()).Msg("failed to respond")
	}
}

func (s *Service) handleInsert(req micro.Request) {
	rec := s.metrics.WithPrefix(trie_api.SubjectInsert)
	rec.Inc("requests")
	var in trie_api.InsertRequest
	if err := decode(req.Data(), &in); err != nil {
		s.fail(req, trie_api.CodeBadRequest, "invalid JSON")
		return
	}
	added := s.store.Insert(in.Words)
	total := s.store.Len()
	rec.Add("words_added", int64(added))
	rec.Set("words", int64(total))
	s.reply(req, trie_api.InsertResponse{Added: added, Total: total})
}

func (s *Service) handleSearch(req micro.Request) {
	rec := s.metrics.WithPrefix(trie_api.SubjectSearch)
	rec.Inc("requests")
	var in trie_api.SearchRequest
	if err := decode(req.Data(), &in); err != nil {
		s.fail(req, trie_api.CodeBadRequest, "invalid JSON")
		return
	}
	words := s.store.Search(in.Prefix, in.EffectiveLimit())
	rec.Add("results", int64(len(words)))
	s.reply(req, trie_api.SearchResponse{Prefix: in.Prefix, Words: words})
}

func (s *Service) handleSave(req micro.Request) {
	s.handleFile(req, trie_api.SubjectSave, s.store.Save)
}

func (s *Service) handleLoad(req micro.Request) {
	s.handleFile(req, trie_api.SubjectLoad, s.store.Load)
}

func (s *Service) handleFile(req micro.Request, name string, op func(string) (string, error)) {
	rec := s.metrics.WithPrefix(name)
	rec.Inc("requests")
	var in trie_api.FileRequest
	if err := decode(req.Data(), &in); err != nil {
		s.fail(req, trie_api.CodeBadRequest, "invalid JSON")
		return
	}
	path, err := op(in.Path)
	if err != nil {
		s.fail(req, trie_api.CodeFor(err), err.Error())
		return
	}
	words := s.store.Len()
	rec.Set("words", int64(words))
	s.reply(req, trie_api.FileResponse{Path: path, Words: words})
}

func (s *Service) handleStats(req micro.Request) {
	s.metrics.WithPrefix(trie_api.SubjectStats).Inc("requests")
	s.reply(req, s.store.Stats())
}
