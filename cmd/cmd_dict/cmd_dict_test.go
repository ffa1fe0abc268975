package cmd_dict

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rskv-p/minitrie/pkg/x_tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	cmd := NewCmd()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestBuildAndSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.bin")

	out := run(t, "tea\nten\r\n\nto\nten\n", "build", "-", "-o", path, "--kind", "graph")
	assert.Equal(t, path+": 3 words, 6 nodes\n", out)

	assert.Equal(t, "tea\nten\n", run(t, "", "search", path, "te", "--kind", "graph"))
	assert.Equal(t, "tea\n", run(t, "", "search", path, "te", "--kind", "graph", "-n", "1"))
	assert.Equal(t, "to\ntea\nten\n", run(t, "", "search", path, "t", "--kind", "graph", "--order", "bfs"))
	assert.Empty(t, run(t, "", "search", path, "x", "--kind", "graph"))
}

func TestBuildKeepEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.bin")
	run(t, "a\n\n", "build", "-", "-o", path, "--keep-empty")

	c, err := x_tree.LoadCompact(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "a"}, c.SearchPrefixString("", x_tree.Unbounded))
}

func TestSearchWrongKindFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.bin")
	run(t, "a\n", "build", "-", "-o", path, "--kind", "compact")

	cmd := NewCmd()
	cmd.SetArgs([]string{"search", path, "a", "--kind", "bogus"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorIs(t, cmd.Execute(), x_tree.ErrKind)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "graph.bin")
	run(t, "b\na\nab\n", "build", "-", "-o", src, "--kind", "graph")

	dst := filepath.Join(dir, "compact.bin")
	assert.Equal(t, dst+": 3 words\n", run(t, "", "convert", src, dst, "--from-kind", "graph", "--to-kind", "compact"))
	c, err := x_tree.LoadCompact(dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "ab", "b"}, c.SearchPrefixString("", x_tree.Unbounded))

	lvl := filepath.Join(dir, "level.bin")
	run(t, "", "convert", dst, lvl, "--from-kind", "compact", "--to-kind", "graph", "--to-format", "levelorder")
	g, err := x_tree.LoadGraph(lvl, x_tree.WithFormat(x_tree.FormatLevelOrder))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.bin")
	run(t, "tea\nten\nto\n", "build", "-", "-o", path)

	var st x_tree.Stats
	require.NoError(t, json.Unmarshal([]byte(run(t, "", "inspect", path)), &st))
	assert.Equal(t, x_tree.Stats{Words: 3, Nodes: 6, Edges: 5, MaxDepth: 3}, st)

	dumped := run(t, "", "inspect", path, "--dump")
	assert.Greater(t, len(dumped), len(run(t, "", "inspect", path)))
}

func TestShellSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.bin")
	var out bytes.Buffer
	sh := &shell{trie: x_tree.NewCompact(), out: &out}

	script := strings.Join([]string{
		`insert tea ten "ice cream"`,
		"search te",
		"search te 1",
		"search zz",
		"contains tea",
		"contains te",
		"search",
		"bogus",
		"save",
		"save " + path,
		"stats",
		"quit",
		"insert ignored",
	}, "\n")
	require.NoError(t, sh.run(strings.NewReader(script)))

	got := out.String()
	assert.Contains(t, got, "added 3\n")
	assert.Contains(t, got, "tea\nten\n")
	assert.Contains(t, got, "> tea\n> ")
	assert.Contains(t, got, "(none)")
	assert.Contains(t, got, "true\n")
	assert.Contains(t, got, "false\n")
	assert.Contains(t, got, "error: usage: search")
	assert.Contains(t, got, `error: unknown command "bogus"`)
	assert.Contains(t, got, "error: no file given")
	assert.Contains(t, got, "save "+path+": 3 words")
	assert.Contains(t, got, "words=3 nodes=")
	assert.False(t, sh.trie.(*x_tree.CompactTrie).Contains(x_tree.Units("ignored")))

	c, err := x_tree.LoadCompact(path)
	require.NoError(t, err)
	assert.True(t, c.Contains(x_tree.Units("ice cream")))
}

func TestShellCommandUsesFileArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.bin")
	run(t, "insert a b\nsave\n", "shell", path)

	c, err := x_tree.LoadCompact(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	out := run(t, "contains b\n", "shell", path)
	assert.Contains(t, out, "> true\n")
}
