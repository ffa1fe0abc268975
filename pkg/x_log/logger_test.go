package x_log

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitWithConfig checks the global level follows the config.
func TestInitWithConfig(t *testing.T) {
	for _, tc := range []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	} {
		InitWithConfig(&Config{Level: tc.level}, "test")
		assert.Equal(t, tc.want, zerolog.GlobalLevel(), tc.level)
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// TestInit reads the file named by TRIE_LOG_CONFIG and falls back to
// defaults when it cannot be parsed.
func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Level":"warn","ToConsole":true}`), 0o644))
	t.Setenv(envConfigPath, path)

	Init()
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	Init()
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// TestNew checks the module field is attached.
func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New("trie").Output(&buf)
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"module":"trie"`)
}

// TestFileLogging writes through the rotating file writer.
func TestFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trie.log")
	InitWithConfig(&Config{Level: "info", ToFile: true, LogFile: path}, "file")
	defer Sync()

	Info().Str("path", "words.bin").Msg("saved")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "saved")
	assert.Contains(t, string(data), `"module":"file"`)

	lines, err := Tail(path, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "words.bin")
}

// TestContextLogger checks From prefers the logger stored in ctx.
func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Str("module", "ctx").Logger()
	ctx := WithLogger(context.Background(), &logger)

	From(ctx).Info().Msg("from context")
	assert.Contains(t, buf.String(), `"module":"ctx"`)

	assert.Same(t, &log.Logger, From(context.Background()))
}

// TestTail checks only the last lines are kept.
func TestTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.log")
	require.NoError(t, os.WriteFile(path, []byte("1\n2\n3\n4\n"), 0o644))

	lines, err := Tail(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, lines)

	lines, err = Tail(path, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, lines)

	_, err = Tail(filepath.Join(t.TempDir(), "missing"), 1)
	assert.Error(t, err)
}
