package trie_client_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/rskv-p/minitrie/config"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_api"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_client"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_serv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Trie.Path = filepath.Join(t.TempDir(), "dict.bin")
	cfg.NATS.Embedded = true
	cfg.NATS.Port = -1

	svc := trie_serv.New(cfg)
	require.NoError(t, svc.Init())
	require.NoError(t, svc.Start())
	defer svc.Stop()

	nc, err := nats.Connect(svc.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	ctx := context.Background()
	c := trie_client.New(nc, cfg.NATS.Prefix)

	ins, err := c.Insert(ctx, "alpha", "alps", "beta")
	require.NoError(t, err)
	assert.Equal(t, 3, ins.Added)

	words, err := c.Search(ctx, "al", -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "alps"}, words)

	words, err = c.Search(ctx, "al", 0)
	require.NoError(t, err)
	assert.Empty(t, words)

	saved, err := c.Save(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Words)

	_, err = c.Insert(ctx, "gamma")
	require.NoError(t, err)
	loaded, err := c.Load(ctx, filepath.Base(saved.Path))
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Words)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Words)

	_, err = c.Load(ctx, "missing.bin")
	var se *trie_api.ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, trie_api.CodeNotFound, se.Code)
}
