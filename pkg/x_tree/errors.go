package x_tree

import "errors"

// Load errors. Callers match them with errors.Is.
var (
	ErrOpen      = errors.New("x_tree: cannot read file")
	ErrTruncated = errors.New("x_tree: unexpected end of data")
	ErrCorrupt   = errors.New("x_tree: malformed data")
	ErrSave      = errors.New("x_tree: cannot write file")
	ErrKind      = errors.New("x_tree: unknown trie kind")
	ErrFormat    = errors.New("x_tree: unknown graph format")
)
