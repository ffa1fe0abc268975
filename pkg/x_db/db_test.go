package x_db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DAO {
	t.Helper()
	dao, err := Open(Config{
		Dialect:  DialectSqlite,
		DSN:      filepath.Join(t.TempDir(), "words.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dao.Close() })
	return dao
}

// TestAddWordsSkipsDuplicates checks the per-dictionary unique index.
func TestAddWordsSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	dao := openTemp(t)

	n, err := dao.AddWords(ctx, "en", []string{"car", "cat", "car"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = dao.AddWords(ctx, "en", []string{"cat", "card"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = dao.AddWords(ctx, "de", []string{"cat"})
	require.NoError(t, err)

	words, err := dao.Words(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"car", "cat", "card"}, words)

	count, err := dao.CountWords(ctx, "de")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	dicts, err := dao.Dictionaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"de", "en"}, dicts)
}

// TestEachWord checks streaming and early stop.
func TestEachWord(t *testing.T) {
	ctx := context.Background()
	dao := openTemp(t)
	_, err := dao.AddWords(ctx, "en", []string{"a", "b", "c"})
	require.NoError(t, err)

	var got []string
	require.NoError(t, dao.EachWord(ctx, "en", func(w string) error {
		got = append(got, w)
		return nil
	}))
	assert.Equal(t, []string{"a", "b", "c"}, got)

	stop := errors.New("stop")
	seen := 0
	err = dao.EachWord(ctx, "en", func(string) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

// TestDeleteDictionary removes only the named dictionary.
func TestDeleteDictionary(t *testing.T) {
	ctx := context.Background()
	dao := openTemp(t)
	_, _ = dao.AddWords(ctx, "en", []string{"a", "b"})
	_, _ = dao.AddWords(ctx, "fr", []string{"a"})

	n, err := dao.DeleteDictionary(ctx, "en")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	words, err := dao.Words(ctx, "fr")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, words)
}

// TestUsers covers create, authenticate and lookup failures.
func TestUsers(t *testing.T) {
	ctx := context.Background()
	dao := openTemp(t)

	require.NoError(t, dao.CreateUser(ctx, "admin", "pw", "admin"))
	assert.ErrorIs(t, dao.CreateUser(ctx, "", "pw", "user"), ErrCredentials)
	assert.Error(t, dao.CreateUser(ctx, "admin", "other", "user"), "duplicate username")

	u, err := dao.Authenticate(ctx, "admin", "pw")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
	assert.NotEqual(t, "pw", u.PasswordHash)

	_, err = dao.Authenticate(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrCredentials)

	_, err = dao.FindUser(ctx, "ghost")
	assert.True(t, IsNotFound(err))
}

// TestOpenUnknownDialect rejects unsupported drivers.
func TestOpenUnknownDialect(t *testing.T) {
	_, err := Open(Config{Dialect: "mysql"})
	assert.Error(t, err)
}
