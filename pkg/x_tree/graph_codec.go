package x_tree

import (
	"fmt"
	"math"
)

// Smallest encodings of one child, used to reject impossible counts
// before allocating.
const (
	preOrderChildMin   = 2 + 1 + 4 // unit, isWord, childCount
	levelOrderRecord   = 2 + 1 + 4 // unit, isWord, childCount
	maxChildrenPerNode = math.MaxUint16 + 1
)

//---------------------
// Save / Load
//---------------------

// Save writes the trie to path in the configured format.
func (t *GraphTrie) Save(path string) error {
	data, _ := t.MarshalBinary()
	return writeFileAtomic(path, data)
}

// Load replaces the trie with the contents of path. The receiver is only
// modified when the whole file decodes.
func (t *GraphTrie) Load(path string) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	return t.UnmarshalBinary(data)
}

// LoadGraph reads a new GraphTrie from path.
func LoadGraph(path string, opts ...Option) (*GraphTrie, error) {
	t := NewGraph(opts...)
	if err := t.Load(path); err != nil {
		return nil, err
	}
	return t, nil
}

// MarshalBinary encodes the trie in the configured format.
func (t *GraphTrie) MarshalBinary() ([]byte, error) {
	w := &bufWriter{buf: make([]byte, 0, t.nodes*preOrderChildMin)}
	if t.opts.format == FormatLevelOrder {
		encodeLevelOrder(w, t.top())
	} else {
		encodePreOrder(w, t.top())
	}
	return w.buf, nil
}

// UnmarshalBinary decodes data in the configured format and swaps it in.
func (t *GraphTrie) UnmarshalBinary(data []byte) error {
	var (
		d   graphDecoded
		err error
	)
	if t.opts.format == FormatLevelOrder {
		d, err = decodeLevelOrder(data)
	} else {
		d, err = decodePreOrder(data)
	}
	if err != nil {
		return err
	}
	t.replace(d.root, d.words, d.nodes)
	return nil
}

type graphDecoded struct {
	root  *gnode
	words int
	nodes int
}

func (d *graphDecoded) count(n *gnode) {
	d.nodes++
	if n.isWord {
		d.words++
	}
}

//---------------------
// Format A: pre-order
//---------------------

func encodePreOrder(w *bufWriter, root *gnode) {
	type frame struct {
		node *gnode
		next int
	}
	w.bool(root.isWord)
	w.u32(uint32(len(root.edges)))
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.node.edges) {
			stack = stack[:len(stack)-1]
			continue
		}
		e := top.node.edges[top.next]
		top.next++
		w.u16(e.unit)
		w.bool(e.child.isWord)
		w.u32(uint32(len(e.child.edges)))
		stack = append(stack, frame{node: e.child})
	}
}

// readPreOrderRecord reads isWord and childCount of one node.
func readPreOrderRecord(r *bufReader) (*gnode, uint32, error) {
	isWord, err := r.bool("isWord")
	if err != nil {
		return nil, 0, err
	}
	count, err := r.u32("childCount")
	if err != nil {
		return nil, 0, err
	}
	if count > maxChildrenPerNode {
		return nil, 0, fmt.Errorf("%w: child count %d exceeds code-unit range", ErrCorrupt, count)
	}
	if uint64(count)*preOrderChildMin > uint64(r.remaining()) {
		return nil, 0, fmt.Errorf("%w: child count %d exceeds remaining %d bytes", ErrCorrupt, count, r.remaining())
	}
	return &gnode{isWord: isWord, edges: make([]gedge, 0, count)}, count, nil
}

func decodePreOrder(data []byte) (graphDecoded, error) {
	type frame struct {
		node *gnode
		left uint32
	}
	var d graphDecoded
	r := newBufReader(data)
	root, count, err := readPreOrderRecord(r)
	if err != nil {
		return d, err
	}
	d.root = root
	d.count(root)

	stack := []frame{{node: root, left: count}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.left == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		unit, err := r.u16("edge unit")
		if err != nil {
			return d, err
		}
		child, cc, err := readPreOrderRecord(r)
		if err != nil {
			return d, err
		}
		if !top.node.addChild(unit, child) {
			return d, fmt.Errorf("%w: duplicate edge %#04x", ErrCorrupt, unit)
		}
		top.left--
		d.count(child)
		stack = append(stack, frame{node: child, left: cc})
	}
	if !r.eof() {
		return d, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.remaining())
	}
	return d, nil
}

//---------------------
// Format B: level order
//---------------------

func encodeLevelOrder(w *bufWriter, root *gnode) {
	queue := []gedge{{unit: 0, child: root}}
	for head := 0; head < len(queue); head++ {
		e := queue[head]
		queue[head] = gedge{}
		w.u16(e.unit)
		w.bool(e.child.isWord)
		w.u32(uint32(len(e.child.edges)))
		queue = append(queue, e.child.edges...)
	}
}

type levelRecord struct {
	unit  uint16
	node  *gnode
	count uint32
}

func readLevelRecord(r *bufReader) (levelRecord, error) {
	unit, err := r.u16("edge unit")
	if err != nil {
		return levelRecord{}, err
	}
	isWord, err := r.bool("isWord")
	if err != nil {
		return levelRecord{}, err
	}
	count, err := r.u32("childCount")
	if err != nil {
		return levelRecord{}, err
	}
	if count > maxChildrenPerNode {
		return levelRecord{}, fmt.Errorf("%w: child count %d exceeds code-unit range", ErrCorrupt, count)
	}
	return levelRecord{unit: unit, node: &gnode{isWord: isWord}, count: count}, nil
}

func decodeLevelOrder(data []byte) (graphDecoded, error) {
	var d graphDecoded
	r := newBufReader(data)
	root, err := readLevelRecord(r)
	if err != nil {
		return d, err
	}
	if root.unit != 0 {
		return d, fmt.Errorf("%w: root record carries edge %#04x", ErrCorrupt, root.unit)
	}
	d.root = root.node
	d.count(root.node)

	// pending counts records announced but not yet read
	pending := uint64(root.count)
	queue := []levelRecord{root}
	for head := 0; head < len(queue); head++ {
		parent := queue[head]
		queue[head] = levelRecord{}
		if pending*levelOrderRecord > uint64(r.remaining()) {
			return d, fmt.Errorf("%w: %d announced children exceed remaining %d bytes", ErrCorrupt, pending, r.remaining())
		}
		parent.node.edges = make([]gedge, 0, parent.count)
		for i := uint32(0); i < parent.count; i++ {
			rec, err := readLevelRecord(r)
			if err != nil {
				return d, err
			}
			if !parent.node.addChild(rec.unit, rec.node) {
				return d, fmt.Errorf("%w: duplicate edge %#04x", ErrCorrupt, rec.unit)
			}
			d.count(rec.node)
			pending += uint64(rec.count)
			pending--
			queue = append(queue, rec)
		}
	}
	if !r.eof() {
		return d, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.remaining())
	}
	return d, nil
}
