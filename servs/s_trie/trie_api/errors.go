package trie_api

import (
	"errors"
	"net/http"

	"github.com/rskv-p/minitrie/pkg/x_tree"
)

// ErrPath rejects file names outside the dictionary directory.
var ErrPath = errors.New("trie: path outside dictionary directory")

// CodeFor maps a Dictionary error onto a service error code.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrPath):
		return CodeBadRequest
	case errors.Is(err, x_tree.ErrOpen):
		return CodeNotFound
	case errors.Is(err, x_tree.ErrTruncated), errors.Is(err, x_tree.ErrCorrupt):
		return CodeInvalidFile
	default:
		return CodeInternal
	}
}

// HTTPStatus maps a service error code onto an HTTP status.
func HTTPStatus(code string) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidFile:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
