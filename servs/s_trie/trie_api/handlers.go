package trie_api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rskv-p/minitrie/pkg/x_log"
	"github.com/rskv-p/minitrie/pkg/x_tree"
)

// limitParam reads ?limit=. Absent means unbounded.
func limitParam(r *http.Request) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return x_tree.Unbounded, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return x_tree.Unbounded, nil
	}
	return n, nil
}

func handleSearch(d Dictionary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := limitParam(r)
		if err != nil {
			writeError(w, CodeBadRequest, "limit must be an integer")
			return
		}
		prefix := r.URL.Query().Get("prefix")
		writeJSON(w, http.StatusOK, SearchResponse{Prefix: prefix, Words: d.Search(prefix, limit)})
	}
}

func handleStats(d Dictionary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Stats())
	}
}

func handleInsert(d Dictionary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InsertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, CodeBadRequest, "invalid JSON")
			return
		}
		added := d.Insert(req.Words)
		writeJSON(w, http.StatusOK, InsertResponse{Added: added, Total: d.Len()})
	}
}

func handleSave(d Dictionary) http.HandlerFunc {
	return fileHandler(d, d.Save, "save")
}

func handleLoad(d Dictionary) http.HandlerFunc {
	return fileHandler(d, d.Load, "load")
}

func fileHandler(d Dictionary, op func(string) (string, error), name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FileRequest
		// an empty body selects the configured file
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, CodeBadRequest, "invalid JSON")
			return
		}
		l := x_log.From(r.Context()).With().Str("op", name).Logger()
		if user, role, ok := UserFromContext(r.Context()); ok {
			l = l.With().Str("user", user).Str("role", role).Logger()
		}
		path, err := op(req.Path)
		if err != nil {
			l.Error().Err(err).Str("path", path).Msg(name + " failed")
			writeError(w, CodeFor(err), err.Error())
			return
		}
		words := d.Len()
		l.Info().Str("path", path).Int("words", words).Msg(name)
		writeJSON(w, http.StatusOK, FileResponse{Path: path, Words: words})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code, desc string) {
	writeJSON(w, HTTPStatus(code), ServiceError{Code: code, Description: desc})
}
