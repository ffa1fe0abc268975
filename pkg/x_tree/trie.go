// Package x_tree implements prefix trees over UTF-16 code units in two
// layouts: a pointer graph (GraphTrie) and an index arena (CompactTrie).
// Neither layout is safe for concurrent use.
package x_tree

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Trie is the contract shared by both layouts.
type Trie interface {
	// Insert adds word. Inserting an existing word is a no-op.
	Insert(word []uint16)
	// SearchPrefix returns up to limit words starting with prefix.
	// A negative limit means no bound.
	SearchPrefix(prefix []uint16, limit int) [][]uint16
	// Save writes the trie to path.
	Save(path string) error
	// Load replaces the trie with the contents of path. On error the
	// receiver is left untouched.
	Load(path string) error
	// Len returns the number of distinct words.
	Len() int
	// NodeCount returns the number of nodes, root included.
	NodeCount() int
	// Stat returns shape statistics.
	Stat() Stats
}

var (
	_ Trie = (*GraphTrie)(nil)
	_ Trie = (*CompactTrie)(nil)
)

// Unbounded is the limit value that disables the result bound.
const Unbounded = -1

//---------------------
// Kind
//---------------------

// Kind selects a trie layout.
type Kind string

const (
	KindGraph   Kind = "graph"
	KindCompact Kind = "compact"
)

// ParseKind parses a layout name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindGraph, KindCompact:
		return k, nil
	case "":
		return KindCompact, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrKind, s)
	}
}

// New returns an empty trie of the given kind. Options only affect
// KindGraph.
func New(kind Kind, opts ...Option) (Trie, error) {
	switch kind {
	case KindGraph:
		return NewGraph(opts...), nil
	case KindCompact:
		return NewCompact(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrKind, kind)
	}
}

// LoadFile reads a trie of the given kind from path.
func LoadFile(kind Kind, path string, opts ...Option) (Trie, error) {
	switch kind {
	case KindGraph:
		return LoadGraph(path, opts...)
	case KindCompact:
		return LoadCompact(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrKind, kind)
	}
}

//---------------------
// Options
//---------------------

// Order selects the enumeration order of SearchPrefix on a GraphTrie.
type Order int

const (
	// OrderDepthFirst yields words in lexicographic code-unit order.
	OrderDepthFirst Order = iota
	// OrderBreadthFirst yields shorter words first; ties keep code-unit order.
	OrderBreadthFirst
)

// Format selects the on-disk layout of a GraphTrie.
type Format int

const (
	// FormatPreOrder writes nested records depth-first.
	FormatPreOrder Format = iota
	// FormatLevelOrder writes flat records breadth-first.
	FormatLevelOrder
)

// ParseFormat parses a graph format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preorder", "pre-order", "a":
		return FormatPreOrder, nil
	case "levelorder", "level-order", "bfs", "b":
		return FormatLevelOrder, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
}

func (f Format) String() string {
	if f == FormatLevelOrder {
		return "levelorder"
	}
	return "preorder"
}

// ParseOrder parses an enumeration order name.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dfs", "depth", "lexicographic":
		return OrderDepthFirst, nil
	case "bfs", "breadth":
		return OrderBreadthFirst, nil
	default:
		return 0, fmt.Errorf("x_tree: unknown order %q", s)
	}
}

type options struct {
	order  Order
	format Format
}

// Option configures a GraphTrie.
type Option func(*options)

// WithOrder sets the SearchPrefix enumeration order.
func WithOrder(o Order) Option {
	return func(opts *options) { opts.order = o }
}

// WithFormat sets the file format used by Save and Load.
func WithFormat(f Format) Option {
	return func(opts *options) { opts.format = f }
}

//---------------------
// Stats
//---------------------

// Stats describes the shape of a trie.
type Stats struct {
	Words    int `json:"words"`
	Nodes    int `json:"nodes"`
	Edges    int `json:"edges"`
	MaxDepth int `json:"max_depth"`
}

//---------------------
// UTF-16 helpers
//---------------------

// Units encodes s as UTF-16 code units.
func Units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// String decodes code units into a Go string. Unpaired surrogates become
// U+FFFD.
func String(u []uint16) string {
	return string(utf16.Decode(u))
}

// Strings decodes every element of words.
func Strings(words [][]uint16) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = String(w)
	}
	return out
}

// normLimit maps every negative limit to Unbounded.
func normLimit(limit int) int {
	if limit < 0 {
		return Unbounded
	}
	return limit
}

// full reports whether n results reach limit.
func full(n, limit int) bool {
	return limit != Unbounded && n >= limit
}

func clone(u []uint16) []uint16 {
	out := make([]uint16, len(u))
	copy(out, u)
	return out
}
