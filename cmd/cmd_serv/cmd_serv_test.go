package cmd_serv

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rskv-p/minitrie/config"
	"github.com/rskv-p/minitrie/pkg/x_tree"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_api"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_serv"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Trie.Path = filepath.Join(t.TempDir(), "dict.bin")
	cfg.NATS.Embedded = true
	cfg.NATS.Port = -1
	cfg.NATS.Prefix = "cli.trie"
	cfg.DB.DSN = ""
	return cfg
}

func TestQueryCommands(t *testing.T) {
	cfg := testConfig(t)
	svc := trie_serv.New(cfg)
	require.NoError(t, svc.Init())
	require.NoError(t, svc.Start())
	t.Cleanup(func() { _ = svc.Stop() })

	remote := []string{"--url", svc.ClientURL(), "--prefix", cfg.NATS.Prefix}
	query := func(args ...string) string {
		out, err := execute(t, NewQueryCmd(), append(args, remote...)...)
		require.NoError(t, err)
		return out
	}

	var ins trie_api.InsertResponse
	require.NoError(t, json.Unmarshal([]byte(query("insert", "car", "cart", "cat")), &ins))
	assert.Equal(t, trie_api.InsertResponse{Added: 3, Total: 3}, ins)

	assert.Equal(t, "car\ncart\ncat\n", query("search", "ca"))
	assert.Equal(t, "car\n", query("search", "ca", "-n", "1"))
	assert.Empty(t, query("search", "z"))

	var st trie_api.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(query("stats")), &st))
	assert.Equal(t, 3, st.Words)

	var saved trie_api.FileResponse
	require.NoError(t, json.Unmarshal([]byte(query("save")), &saved))
	assert.Equal(t, cfg.Trie.Path, saved.Path)
	assert.FileExists(t, cfg.Trie.Path)

	// a load failure comes back as a service error
	_, err := execute(t, NewQueryCmd(), append([]string{"load", "none.bin"}, remote...)...)
	var se *trie_api.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, trie_api.CodeNotFound, se.Code)
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Trie.SaveOnStop = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, serve(ctx, cfg))

	g, err := x_tree.LoadCompact(cfg.Trie.Path)
	require.NoError(t, err)
	assert.Zero(t, g.Len())
}

func TestServeLogsConfigAndOpenAPI(t *testing.T) {
	var buf bytes.Buffer
	prev, lvl := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(zerolog.SyncWriter(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(lvl)
	})

	cfg := testConfig(t)
	cfg.HTTP.Enabled = true
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.HTTP.JWTSecret = "k3y-material"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, serve(ctx, cfg))

	out := buf.String()
	assert.Contains(t, out, "effective config")
	assert.Contains(t, out, "save and load are open")
	assert.NotContains(t, out, "k3y-material")
}

func TestServeRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Trie.Kind = "bogus"
	assert.Error(t, serve(context.Background(), cfg))
}

func TestLogsTail(t *testing.T) {
	file := filepath.Join(t.TempDir(), "trie.log")
	require.NoError(t, os.WriteFile(file, []byte("one\ntwo\nthree\n"), 0o644))

	out, err := execute(t, NewLogsCmd(), "-f", file, "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, "two\nthree\n", out)

	_, err = execute(t, NewLogsCmd(), "-f", filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err)
}
