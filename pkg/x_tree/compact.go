package x_tree

import (
	"cmp"
	"slices"
)

//---------------------
// Arena Node
//---------------------

// cnode lives in the CompactTrie arena; edges hold arena indices sorted
// by unit.
type cnode struct {
	isWord bool
	edges  []cedge
}

type cedge struct {
	unit  uint16
	index uint64
}

func (n *cnode) search(u uint16) (int, bool) {
	return slices.BinarySearchFunc(n.edges, u, func(e cedge, u uint16) int {
		return cmp.Compare(e.unit, u)
	})
}

// addEdge links index under u. It reports false if u is already taken.
func (n *cnode) addEdge(u uint16, index uint64) bool {
	i, ok := n.search(u)
	if ok {
		return false
	}
	n.edges = slices.Insert(n.edges, i, cedge{unit: u, index: index})
	return true
}

//---------------------
// CompactTrie
//---------------------

// rootIndex is the arena position of the root.
const rootIndex uint64 = 0

// CompactTrie is a trie stored in a single arena. Nodes refer to their
// children by arena index; indices never change once assigned. The zero
// value is an empty trie.
type CompactTrie struct {
	nodes []cnode
	words int
}

// NewCompact returns an empty CompactTrie holding only the root.
func NewCompact() *CompactTrie {
	return &CompactTrie{nodes: []cnode{{}}}
}

// emptyArena stands in for the nodes of a zero CompactTrie. It is never
// written.
var emptyArena = []cnode{{}}

func (t *CompactTrie) arena() []cnode {
	if len(t.nodes) == 0 {
		return emptyArena
	}
	return t.nodes
}

// Len returns the number of distinct words.
func (t *CompactTrie) Len() int { return t.words }

// NodeCount returns the arena size.
func (t *CompactTrie) NodeCount() int { return len(t.arena()) }

// Insert adds word, appending one arena node per unseen code unit.
func (t *CompactTrie) Insert(word []uint16) {
	if len(t.nodes) == 0 {
		t.nodes = []cnode{{}}
	}
	cur := rootIndex
	for _, u := range word {
		i, ok := t.nodes[cur].search(u)
		if ok {
			cur = t.nodes[cur].edges[i].index
			continue
		}
		next := uint64(len(t.nodes))
		t.nodes = append(t.nodes, cnode{})
		t.nodes[cur].edges = slices.Insert(t.nodes[cur].edges, i, cedge{unit: u, index: next})
		cur = next
	}
	if !t.nodes[cur].isWord {
		t.nodes[cur].isWord = true
		t.words++
	}
}

// InsertString inserts the UTF-16 encoding of s.
func (t *CompactTrie) InsertString(s string) { t.Insert(Units(s)) }

// Contains reports whether word was inserted.
func (t *CompactTrie) Contains(word []uint16) bool {
	idx, ok := t.locate(word)
	return ok && t.arena()[idx].isWord
}

func (t *CompactTrie) locate(prefix []uint16) (uint64, bool) {
	nodes := t.arena()
	cur := rootIndex
	for _, u := range prefix {
		i, ok := nodes[cur].search(u)
		if !ok {
			return 0, false
		}
		cur = nodes[cur].edges[i].index
	}
	return cur, true
}

// SearchPrefix returns up to limit words that start with prefix in
// lexicographic code-unit order.
func (t *CompactTrie) SearchPrefix(prefix []uint16, limit int) [][]uint16 {
	result := make([][]uint16, 0)
	start, ok := t.locate(prefix)
	if !ok {
		return result
	}
	limit = normLimit(limit)
	if limit == 0 {
		return result
	}

	// one shared path buffer; only emitted words are copied
	type frame struct {
		index uint64
		next  int
	}
	nodes := t.arena()
	path := clone(prefix)
	if nodes[start].isWord {
		result = append(result, clone(path))
		if full(len(result), limit) {
			return result
		}
	}
	stack := []frame{{index: start}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := &nodes[top.index]
		if top.next == len(n.edges) {
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				path = path[:len(path)-1]
			}
			continue
		}
		e := n.edges[top.next]
		top.next++
		path = append(path, e.unit)
		if nodes[e.index].isWord {
			result = append(result, clone(path))
			if full(len(result), limit) {
				return result
			}
		}
		stack = append(stack, frame{index: e.index})
	}
	return result
}

// SearchPrefixString is SearchPrefix over Go strings.
func (t *CompactTrie) SearchPrefixString(prefix string, limit int) []string {
	return Strings(t.SearchPrefix(Units(prefix), limit))
}

// Stat walks the arena and returns its shape.
func (t *CompactTrie) Stat() Stats {
	type frame struct {
		index uint64
		depth int
	}
	nodes := t.arena()
	st := Stats{Words: t.words, Nodes: len(nodes)}
	stack := []frame{{index: rootIndex}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &nodes[f.index]
		st.Edges += len(n.edges)
		st.MaxDepth = max(st.MaxDepth, f.depth)
		for _, e := range n.edges {
			stack = append(stack, frame{index: e.index, depth: f.depth + 1})
		}
	}
	return st
}
