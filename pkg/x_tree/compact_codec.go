package x_tree

import "fmt"

const (
	compactMetaBytes = 1 + 8 // isWord, childCount
	compactEdgeBytes = 2 + 8 // unit, childIndex
)

//---------------------
// Save / Load
//---------------------

// Save writes the arena to path.
func (t *CompactTrie) Save(path string) error {
	data, _ := t.MarshalBinary()
	return writeFileAtomic(path, data)
}

// Load replaces the arena with the contents of path. The receiver is only
// modified when the whole file decodes.
func (t *CompactTrie) Load(path string) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	return t.UnmarshalBinary(data)
}

// LoadCompact reads a new CompactTrie from path.
func LoadCompact(path string) (*CompactTrie, error) {
	t := &CompactTrie{}
	if err := t.Load(path); err != nil {
		return nil, err
	}
	return t, nil
}

// MarshalBinary encodes the arena: node count, metadata block, edge block.
func (t *CompactTrie) MarshalBinary() ([]byte, error) {
	nodes := t.arena()
	edges := 0
	for i := range nodes {
		edges += len(nodes[i].edges)
	}
	w := &bufWriter{buf: make([]byte, 0, 8+len(nodes)*compactMetaBytes+edges*compactEdgeBytes)}
	w.u64(uint64(len(nodes)))
	for i := range nodes {
		w.bool(nodes[i].isWord)
		w.u64(uint64(len(nodes[i].edges)))
	}
	for i := range nodes {
		for _, e := range nodes[i].edges {
			w.u16(e.unit)
			w.u64(e.index)
		}
	}
	return w.buf, nil
}

// UnmarshalBinary decodes data and swaps it in.
func (t *CompactTrie) UnmarshalBinary(data []byte) error {
	nodes, words, err := decodeCompact(data)
	if err != nil {
		return err
	}
	t.nodes, t.words = nodes, words
	return nil
}

func decodeCompact(data []byte) ([]cnode, int, error) {
	r := newBufReader(data)
	count, err := r.u64("nodeCount")
	if err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return nil, 0, fmt.Errorf("%w: arena has no root", ErrCorrupt)
	}
	if count > uint64(r.remaining())/compactMetaBytes {
		return nil, 0, fmt.Errorf("%w: %d nodes exceed remaining %d bytes", ErrTruncated, count, r.remaining())
	}

	nodes := make([]cnode, count)
	counts := make([]uint64, count)
	var total uint64
	words := 0
	for i := range nodes {
		if nodes[i].isWord, err = r.bool("isWord"); err != nil {
			return nil, 0, err
		}
		if counts[i], err = r.u64("childCount"); err != nil {
			return nil, 0, err
		}
		if counts[i] > maxChildrenPerNode {
			return nil, 0, fmt.Errorf("%w: node %d declares %d children", ErrCorrupt, i, counts[i])
		}
		if nodes[i].isWord {
			words++
		}
		total += counts[i]
	}
	// a tree of n nodes has n-1 edges
	if total != count-1 {
		return nil, 0, fmt.Errorf("%w: %d edges for %d nodes", ErrCorrupt, total, count)
	}
	if total > uint64(r.remaining())/compactEdgeBytes {
		return nil, 0, fmt.Errorf("%w: %d edges exceed remaining %d bytes", ErrTruncated, total, r.remaining())
	}

	hasParent := make([]bool, count)
	for i := range nodes {
		if counts[i] > 0 {
			nodes[i].edges = make([]cedge, 0, counts[i])
		}
		for j := uint64(0); j < counts[i]; j++ {
			unit, err := r.u16("edge unit")
			if err != nil {
				return nil, 0, err
			}
			index, err := r.u64("childIndex")
			if err != nil {
				return nil, 0, err
			}
			if index == rootIndex || index >= count {
				return nil, 0, fmt.Errorf("%w: node %d links to index %d", ErrCorrupt, i, index)
			}
			if hasParent[index] {
				return nil, 0, fmt.Errorf("%w: node %d has two parents", ErrCorrupt, index)
			}
			hasParent[index] = true
			if !nodes[i].addEdge(unit, index) {
				return nil, 0, fmt.Errorf("%w: node %d has duplicate edge %#04x", ErrCorrupt, i, unit)
			}
		}
	}
	if !r.eof() {
		return nil, 0, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.remaining())
	}
	if seen := reachable(nodes); seen != len(nodes) {
		return nil, 0, fmt.Errorf("%w: %d of %d nodes unreachable from root", ErrCorrupt, len(nodes)-seen, len(nodes))
	}
	return nodes, words, nil
}

// reachable counts nodes reachable from the root. Callers guarantee every
// node has at most one parent, so the walk terminates.
func reachable(nodes []cnode) int {
	seen := 0
	stack := []uint64{rootIndex}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seen++
		for _, e := range nodes[i].edges {
			stack = append(stack, e.index)
		}
	}
	return seen
}
