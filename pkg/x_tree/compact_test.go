package x_tree

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64le(v uint64) []byte {
	return byteOrder.AppendUint64(nil, v)
}

func compactBytes(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestCompact_IndicesAreStable(t *testing.T) {
	tr := NewCompact()
	tr.InsertString("b")
	tr.InsertString("a")
	tr.InsertString("ab")

	// arena order follows insertion, edges follow code units
	assert.Equal(t, []cnode{
		{edges: []cedge{{unit: 'a', index: 2}, {unit: 'b', index: 1}}},
		{isWord: true},
		{isWord: true, edges: []cedge{{unit: 'b', index: 3}}},
		{isWord: true},
	}, tr.nodes)

	tr.InsertString("aa")
	assert.Equal(t, uint64(4), tr.nodes[2].edges[0].index)
	assert.Equal(t, uint64(3), tr.nodes[2].edges[1].index)
	assert.Equal(t, []string{"a", "aa", "ab", "b"}, tr.SearchPrefixString("", Unbounded))
}

func TestCompact_Layout(t *testing.T) {
	tr := NewCompact()
	tr.InsertString("a")

	data, err := tr.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, compactBytes(
		u64le(2),
		[]byte{0x00}, u64le(1),
		[]byte{0x01}, u64le(0),
		[]byte{'a', 0x00}, u64le(1),
	), data)
}

func TestCompact_LoadKeepsIndices(t *testing.T) {
	src := NewCompact()
	for _, w := range []string{"zeta", "alpha", "alps", "z"} {
		src.InsertString(w)
	}
	path := filepath.Join(t.TempDir(), "c.bin")
	require.NoError(t, src.Save(path))

	dst, err := LoadCompact(path)
	require.NoError(t, err)
	assert.Equal(t, src.nodes, dst.nodes)
	assert.Equal(t, 4, dst.Len())
	assert.True(t, dst.Contains(Units("z")))
	assert.False(t, dst.Contains(Units("alp")))
}

func TestCompact_DecodeRejectsMalformed(t *testing.T) {
	leaf := append([]byte{0x00}, u64le(0)...)
	word := append([]byte{0x01}, u64le(0)...)
	one := append([]byte{0x00}, u64le(1)...)
	two := append([]byte{0x00}, u64le(2)...)
	edge := func(u byte, idx uint64) []byte { return append([]byte{u, 0x00}, u64le(idx)...) }

	tests := []struct {
		name string
		data []byte
	}{
		{"no root", u64le(0)},
		{"node count exceeds data", compactBytes(u64le(1<<40), leaf)},
		{"edge count mismatch", compactBytes(u64le(2), leaf, word)},
		{"link to root", compactBytes(u64le(2), one, word, edge('a', 0))},
		{"index out of range", compactBytes(u64le(2), one, word, edge('a', 7))},
		{"two parents", compactBytes(u64le(3), two, word, word, edge('a', 1), edge('b', 1))},
		{"duplicate unit", compactBytes(u64le(3), two, word, word, edge('a', 1), edge('a', 2))},
		{"cycle off root", compactBytes(u64le(3), leaf, one, one, edge('a', 2), edge('b', 1))},
		{"trailing bytes", compactBytes(u64le(1), leaf, []byte{0x00})},
		{"invalid bool", compactBytes(u64le(1), []byte{0x07}, u64le(0))},
		{"truncated edges", compactBytes(u64le(2), one, word, []byte{'a'})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewCompact()
			tr.InsertString("keep")
			err := tr.UnmarshalBinary(tt.data)
			require.Error(t, err)
			assert.True(t, isDecodeErr(err), err.Error())
			assert.Equal(t, []string{"keep"}, tr.SearchPrefixString("", Unbounded))
		})
	}
}

func TestCompact_OversizedCountsAreTruncation(t *testing.T) {
	leaf := append([]byte{0x00}, u64le(0)...)
	one := append([]byte{0x00}, u64le(1)...)
	word := append([]byte{0x01}, u64le(0)...)

	for name, data := range map[string][]byte{
		"node metadata": compactBytes(u64le(1<<40), leaf),
		"edges":         compactBytes(u64le(2), one, word, []byte{'a'}),
	} {
		err := NewCompact().UnmarshalBinary(data)
		assert.ErrorIs(t, err, ErrTruncated, name)
		assert.NotErrorIs(t, err, ErrCorrupt, name)
	}
}

func TestCompact_Dump(t *testing.T) {
	tr := NewCompact()
	tr.InsertString("ab")

	var buf bytes.Buffer
	tr.Dump(&buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"[0]-- ROOT (1)",
		"[1]  |__ 'a' (1)",
		"[2]    |__ 'b' * (0)",
	}, lines)
}
