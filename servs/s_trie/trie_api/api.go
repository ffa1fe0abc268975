// Package trie_api holds the wire contract of the trie service: NATS
// subjects, JSON payloads and the HTTP router.
package trie_api

import (
	"fmt"

	"github.com/rskv-p/minitrie/pkg/x_tree"
)

// Endpoint names, published under the configured prefix.
const (
	SubjectInsert = "insert"
	SubjectSearch = "search"
	SubjectSave   = "save"
	SubjectLoad   = "load"
	SubjectStats  = "stats"
)

// Subject joins prefix and endpoint name.
func Subject(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Error codes carried in service error replies.
const (
	CodeBadRequest   = "400"
	CodeUnauthorized = "401"
	CodeNotFound     = "404"
	CodeInvalidFile  = "422"
	CodeInternal     = "500"
)

// Dictionary is the shared trie behind both transports.
type Dictionary interface {
	Insert(words []string) int
	Search(prefix string, limit int) []string
	Save(path string) (string, error)
	Load(path string) (string, error)
	Stats() StatsResponse
	Len() int
}

//---------------------
// Payloads
//---------------------

type InsertRequest struct {
	Words []string `json:"words"`
}

type InsertResponse struct {
	Added int `json:"added"`
	Total int `json:"total"`
}

// SearchRequest asks for words under Prefix. A nil or negative Limit is
// unbounded.
type SearchRequest struct {
	Prefix string `json:"prefix"`
	Limit  *int   `json:"limit,omitempty"`
}

// EffectiveLimit resolves the optional limit.
func (r SearchRequest) EffectiveLimit() int {
	if r.Limit == nil || *r.Limit < 0 {
		return x_tree.Unbounded
	}
	return *r.Limit
}

type SearchResponse struct {
	Prefix string   `json:"prefix"`
	Words  []string `json:"words"`
}

// FileRequest names a dictionary file relative to the configured file's
// directory. Empty means the configured file itself.
type FileRequest struct {
	Path string `json:"path,omitempty"`
}

type FileResponse struct {
	Path  string `json:"path"`
	Words int    `json:"words"`
}

type StatsResponse struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
	x_tree.Stats
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// ServiceError is a decoded error reply.
type ServiceError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("trie service error %s: %s", e.Code, e.Description)
}
