package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"dict", "db", "serve", "query", "logs"} {
		assert.Contains(t, names, want)
	}
}

func TestRootInitsLoggerFromLogConfig(t *testing.T) {
	dir := t.TempDir()
	logCfg := filepath.Join(dir, "log.json")
	require.NoError(t, os.WriteFile(logCfg, []byte(`{"Level":"error"}`), 0o644))
	t.Setenv("TRIE_LOG_CONFIG", logCfg)
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	dict := filepath.Join(dir, "dict.bin")
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetArgs([]string{"dict", "build", "-", "-o", dict})
	root.SetIn(strings.NewReader("a\nb\n"))
	root.SetOut(&out)
	root.SetErr(&out)
	require.NoError(t, root.Execute(), out.String())

	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
	assert.FileExists(t, dict)
}
