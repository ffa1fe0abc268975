package x_tree

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_BreadthFirstOrder(t *testing.T) {
	tr := NewGraph(WithOrder(OrderBreadthFirst))
	tr.InsertString("card")
	tr.InsertString("cat")
	tr.InsertString("car")
	tr.InsertString("cards")
	tr.InsertString("ca")

	assert.Equal(t, []string{"ca", "car", "cat", "card", "cards"}, tr.SearchPrefixString("ca", Unbounded))
	assert.Equal(t, []string{"ca", "car"}, tr.SearchPrefixString("c", 2))
	assert.Empty(t, tr.SearchPrefixString("ca", 0))
}

func TestGraph_Contains(t *testing.T) {
	tr := NewGraph()
	tr.InsertString("card")
	assert.True(t, tr.Contains(Units("card")))
	assert.False(t, tr.Contains(Units("car")), "path node without word mark")
	assert.False(t, tr.Contains(Units("cards")))
}

func TestGraph_PreOrderLayout(t *testing.T) {
	tr := NewGraph()
	tr.InsertString("ab")
	tr.InsertString("b")

	data, err := tr.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x00, 0x02, 0x00, 0x00, 0x00, // root: not a word, 2 children
		'a', 0x00, // edge 'a'
		0x00, 0x01, 0x00, 0x00, 0x00, // "a": not a word, 1 child
		'b', 0x00, // edge 'b'
		0x01, 0x00, 0x00, 0x00, 0x00, // "ab": word, leaf
		'b', 0x00, // edge 'b'
		0x01, 0x00, 0x00, 0x00, 0x00, // "b": word, leaf
	}, data)
}

func TestGraph_LevelOrderLayout(t *testing.T) {
	tr := NewGraph(WithFormat(FormatLevelOrder))
	tr.InsertString("ab")
	tr.InsertString("b")

	data, err := tr.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, // root
		'a', 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, // "a"
		'b', 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, // "b"
		'b', 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, // "ab"
	}, data)

	back := NewGraph(WithFormat(FormatLevelOrder))
	require.NoError(t, back.UnmarshalBinary(data))
	assert.Equal(t, []string{"ab", "b"}, back.SearchPrefixString("", Unbounded))
}

func TestGraph_FormatsAreNotInterchangeable(t *testing.T) {
	src := NewGraph()
	for _, w := range []string{"hello", "helium", "hey"} {
		src.InsertString(w)
	}
	path := filepath.Join(t.TempDir(), "a.bin")
	require.NoError(t, src.Save(path))

	other := NewGraph(WithFormat(FormatLevelOrder))
	other.InsertString("keep")
	err := other.Load(path)
	require.Error(t, err)
	assert.True(t, isDecodeErr(err))
	assert.Equal(t, []string{"keep"}, other.SearchPrefixString("", Unbounded))
}

func TestGraph_DecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   []byte
	}{
		{
			name:   "duplicate edge",
			format: FormatPreOrder,
			data: []byte{
				0x00, 0x02, 0x00, 0x00, 0x00,
				'a', 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
				'a', 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
			},
		},
		{
			name:   "child count exceeds data",
			format: FormatPreOrder,
			data:   []byte{0x00, 0xff, 0xff, 0x00, 0x00, 'a', 0x00},
		},
		{
			name:   "invalid bool",
			format: FormatPreOrder,
			data:   []byte{0x02, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:   "root with edge unit",
			format: FormatLevelOrder,
			data:   []byte{'x', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:   "announced children missing",
			format: FormatLevelOrder,
			data:   []byte{0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 'a', 0x00, 0x01, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:   "unclaimed records",
			format: FormatLevelOrder,
			data:   []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 'a', 0x00, 0x01, 0x00, 0x00, 0x00, 0x00},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewGraph(WithFormat(tt.format))
			tr.InsertString("keep")
			err := tr.UnmarshalBinary(tt.data)
			require.Error(t, err)
			assert.True(t, isDecodeErr(err), err.Error())
			assert.True(t, tr.Contains(Units("keep")))
		})
	}
}

func TestGraph_LoadGraph(t *testing.T) {
	src := NewGraph(WithFormat(FormatLevelOrder))
	src.InsertString("hello")
	path := filepath.Join(t.TempDir(), "b.bin")
	require.NoError(t, src.Save(path))

	tr, err := LoadGraph(path, WithFormat(FormatLevelOrder))
	require.NoError(t, err)
	assert.Equal(t, FormatLevelOrder, tr.Format())
	assert.Equal(t, []string{"hello"}, tr.SearchPrefixString("he", Unbounded))

	_, err = LoadGraph(filepath.Join(t.TempDir(), "none"))
	assert.ErrorIs(t, err, ErrOpen)
}

func TestGraph_DeepWordIsIterative(t *testing.T) {
	word := make([]uint16, 200000)
	for i := range word {
		word[i] = uint16('a' + i%26)
	}
	tr := NewGraph()
	tr.Insert(word)

	data, err := tr.MarshalBinary()
	require.NoError(t, err)
	back := NewGraph()
	require.NoError(t, back.UnmarshalBinary(data))
	got := back.SearchPrefix(word[:10], Unbounded)
	require.Len(t, got, 1)
	assert.Equal(t, word, got[0])
	assert.Equal(t, len(word), back.Stat().MaxDepth)
}

func TestGraph_Dump(t *testing.T) {
	tr := NewGraph()
	tr.InsertString("ab")
	tr.InsertString("a")

	var buf bytes.Buffer
	tr.Dump(&buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"-- ROOT (1)",
		"  |__ 'a' * (1)",
		"    |__ 'b' * (0)",
	}, lines)
}
