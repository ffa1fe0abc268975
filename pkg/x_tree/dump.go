package x_tree

import (
	"fmt"
	"io"
	"strings"
)

//---------------------
// Tree Dump (Debug)
//---------------------

// Dump writes a visual representation of the trie to w.
func (t *GraphTrie) Dump(w io.Writer) {
	type frame struct {
		node  *gnode
		unit  uint16
		depth int
	}
	stack := []frame{{node: t.top()}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		dumpLine(w, f.depth, f.unit, f.node.isWord, len(f.node.edges))
		for i := len(f.node.edges) - 1; i >= 0; i-- {
			e := f.node.edges[i]
			stack = append(stack, frame{node: e.child, unit: e.unit, depth: f.depth + 1})
		}
	}
	fmt.Fprintln(w)
}

// Dump writes a visual representation of the arena to w, with node indices.
func (t *CompactTrie) Dump(w io.Writer) {
	type frame struct {
		index uint64
		unit  uint16
		depth int
	}
	nodes := t.arena()
	stack := []frame{{index: rootIndex}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &nodes[f.index]
		fmt.Fprintf(w, "[%d]", f.index)
		dumpLine(w, f.depth, f.unit, n.isWord, len(n.edges))
		for i := len(n.edges) - 1; i >= 0; i-- {
			e := n.edges[i]
			stack = append(stack, frame{index: e.index, unit: e.unit, depth: f.depth + 1})
		}
	}
	fmt.Fprintln(w)
}

func dumpLine(w io.Writer, depth int, unit uint16, isWord bool, children int) {
	label := "ROOT"
	if depth > 0 {
		label = unitLabel(unit)
	}
	mark := ""
	if isWord {
		mark = " *"
	}
	fmt.Fprintf(w, "%s%s%s (%d)\n", dumpPre(depth), label, mark, children)
}

// unitLabel renders printable BMP units as characters and the rest in hex.
func unitLabel(u uint16) string {
	if u >= 0x20 && u < 0x7f || u >= 0xa0 && (u < 0xd800 || u > 0xdfff) {
		return fmt.Sprintf("%q", rune(u))
	}
	return fmt.Sprintf("%#04x", u)
}

//---------------------
// Indentation Helper
//---------------------

func dumpPre(depth int) string {
	if depth == 0 {
		return "-- "
	}
	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
	b.WriteString("|__ ")
	return b.String()
}
