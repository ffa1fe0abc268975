package x_tree

import (
	"cmp"
	"slices"
)

//---------------------
// Graph Node
//---------------------

// gnode owns its children; edges stay sorted by unit.
type gnode struct {
	isWord bool
	edges  []gedge
}

type gedge struct {
	unit  uint16
	child *gnode
}

func (n *gnode) search(u uint16) (int, bool) {
	return slices.BinarySearchFunc(n.edges, u, func(e gedge, u uint16) int {
		return cmp.Compare(e.unit, u)
	})
}

// findChild returns the child for u or nil.
func (n *gnode) findChild(u uint16) *gnode {
	if i, ok := n.search(u); ok {
		return n.edges[i].child
	}
	return nil
}

// addChild links c under u. It reports false if u is already taken.
func (n *gnode) addChild(u uint16, c *gnode) bool {
	i, ok := n.search(u)
	if ok {
		return false
	}
	n.edges = slices.Insert(n.edges, i, gedge{unit: u, child: c})
	return true
}

//---------------------
// GraphTrie
//---------------------

// GraphTrie is a trie whose nodes are linked by pointers. The zero value
// is an empty trie with default options.
type GraphTrie struct {
	root  *gnode
	words int
	nodes int
	opts  options
}

// NewGraph returns an empty GraphTrie.
func NewGraph(opts ...Option) *GraphTrie {
	t := &GraphTrie{root: &gnode{}, nodes: 1}
	for _, opt := range opts {
		opt(&t.opts)
	}
	return t
}

// emptyRoot stands in for the root of a zero GraphTrie. It is never written.
var emptyRoot gnode

func (t *GraphTrie) top() *gnode {
	if t.root == nil {
		return &emptyRoot
	}
	return t.root
}

// Order returns the configured enumeration order.
func (t *GraphTrie) Order() Order { return t.opts.order }

// Format returns the configured file format.
func (t *GraphTrie) Format() Format { return t.opts.format }

// Len returns the number of distinct words.
func (t *GraphTrie) Len() int { return t.words }

// NodeCount returns the number of nodes, root included.
func (t *GraphTrie) NodeCount() int { return max(t.nodes, 1) }

// Insert adds word, creating one node per unseen code unit on its path.
func (t *GraphTrie) Insert(word []uint16) {
	if t.root == nil {
		t.root, t.nodes = &gnode{}, 1
	}
	n := t.root
	for _, u := range word {
		c := n.findChild(u)
		if c == nil {
			c = &gnode{}
			n.addChild(u, c)
			t.nodes++
		}
		n = c
	}
	if !n.isWord {
		n.isWord = true
		t.words++
	}
}

// InsertString inserts the UTF-16 encoding of s.
func (t *GraphTrie) InsertString(s string) { t.Insert(Units(s)) }

// Contains reports whether word was inserted.
func (t *GraphTrie) Contains(word []uint16) bool {
	n := t.locate(word)
	return n != nil && n.isWord
}

// locate follows prefix from the root.
func (t *GraphTrie) locate(prefix []uint16) *gnode {
	n := t.top()
	for _, u := range prefix {
		if n = n.findChild(u); n == nil {
			return nil
		}
	}
	return n
}

// SearchPrefix returns up to limit words that start with prefix, in the
// configured order.
func (t *GraphTrie) SearchPrefix(prefix []uint16, limit int) [][]uint16 {
	result := make([][]uint16, 0)
	n := t.locate(prefix)
	if n == nil {
		return result
	}
	limit = normLimit(limit)
	if limit == 0 {
		return result
	}
	if t.opts.order == OrderBreadthFirst {
		return t.collectBFS(n, clone(prefix), result, limit)
	}
	return t.collectDFS(n, clone(prefix), result, limit)
}

// SearchPrefixString is SearchPrefix over Go strings.
func (t *GraphTrie) SearchPrefixString(prefix string, limit int) []string {
	return Strings(t.SearchPrefix(Units(prefix), limit))
}

// collectDFS walks pre-order with one shared path buffer; only emitted
// words are copied.
func (t *GraphTrie) collectDFS(start *gnode, path []uint16, result [][]uint16, limit int) [][]uint16 {
	type frame struct {
		node *gnode
		next int
	}
	if start.isWord {
		result = append(result, clone(path))
		if full(len(result), limit) {
			return result
		}
	}
	stack := []frame{{node: start}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.node.edges) {
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				path = path[:len(path)-1]
			}
			continue
		}
		e := top.node.edges[top.next]
		top.next++
		path = append(path, e.unit)
		if e.child.isWord {
			result = append(result, clone(path))
			if full(len(result), limit) {
				return result
			}
		}
		stack = append(stack, frame{node: e.child})
	}
	return result
}

// collectBFS walks level by level. Queue entries point at their parent
// entry so a word is rebuilt only when emitted.
func (t *GraphTrie) collectBFS(start *gnode, prefix []uint16, result [][]uint16, limit int) [][]uint16 {
	type entry struct {
		node   *gnode
		parent int
		unit   uint16
		depth  int
	}
	queue := []entry{{node: start, parent: -1}}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		if cur.node.isWord {
			word := make([]uint16, len(prefix)+cur.depth)
			copy(word, prefix)
			for i, at := len(word)-1, head; queue[at].parent >= 0; i, at = i-1, queue[at].parent {
				word[i] = queue[at].unit
			}
			result = append(result, word)
			if full(len(result), limit) {
				return result
			}
		}
		for _, e := range cur.node.edges {
			queue = append(queue, entry{node: e.child, parent: head, unit: e.unit, depth: cur.depth + 1})
		}
	}
	return result
}

// Stat walks the trie and returns its shape.
func (t *GraphTrie) Stat() Stats {
	type frame struct {
		node  *gnode
		depth int
	}
	st := Stats{Words: t.words, Nodes: t.NodeCount()}
	stack := []frame{{node: t.top()}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		st.Edges += len(f.node.edges)
		st.MaxDepth = max(st.MaxDepth, f.depth)
		for _, e := range f.node.edges {
			stack = append(stack, frame{node: e.child, depth: f.depth + 1})
		}
	}
	return st
}

// replace swaps in a decoded structure.
func (t *GraphTrie) replace(root *gnode, words, nodes int) {
	t.root, t.words, t.nodes = root, words, nodes
}
