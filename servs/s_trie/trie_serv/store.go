package trie_serv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/rskv-p/minitrie/pkg/x_db"
	"github.com/rskv-p/minitrie/pkg/x_tree"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_api"
)

const importBatch = 1000

// Store guards a trie for concurrent use. Reads share the lock; Load
// decodes into a fresh trie and swaps it in, so readers never observe a
// partial load.
type Store struct {
	mu   sync.RWMutex
	trie x_tree.Trie
	kind x_tree.Kind
	opts []x_tree.Option
	path string
	dir  string
}

var _ trie_api.Dictionary = (*Store)(nil)

// NewStore returns an empty store. path is the default file for Save and
// Load; other files named by callers must live in its directory.
func NewStore(kind x_tree.Kind, path string, opts ...x_tree.Option) (*Store, error) {
	t, err := x_tree.New(kind, opts...)
	if err != nil {
		return nil, err
	}
	return &Store{trie: t, kind: kind, opts: opts, path: path, dir: filepath.Dir(path)}, nil
}

// Open loads the default file. A missing file leaves the store empty and
// reports false.
func (s *Store) Open() (bool, error) {
	if _, err := s.Load(""); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// resolve maps a caller-supplied name onto a file in the dictionary
// directory. Absolute names and names escaping the directory are refused.
func (s *Store) resolve(name string) (string, error) {
	if name == "" {
		return s.path, nil
	}
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", trie_api.ErrPath, name)
	}
	return filepath.Join(s.dir, name), nil
}

// Insert adds words and returns how many were new.
func (s *Store) Insert(words []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.trie.Len()
	for _, w := range words {
		s.trie.Insert(x_tree.Units(w))
	}
	return s.trie.Len() - before
}

// Search returns up to limit words under prefix.
func (s *Store) Search(prefix string, limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return x_tree.Strings(s.trie.SearchPrefix(x_tree.Units(prefix), limit))
}

// Save writes the trie to the named file in the dictionary directory, or
// to the default file when name is empty.
func (s *Store) Save(name string) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return name, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return path, s.trie.Save(path)
}

// Load replaces the trie with the named file, or the default file.
func (s *Store) Load(name string) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return name, err
	}
	t, err := x_tree.LoadFile(s.kind, path, s.opts...)
	if err != nil {
		return path, err
	}
	s.mu.Lock()
	s.trie = t
	s.mu.Unlock()
	return path, nil
}

// Len returns the number of words.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trie.Len()
}

// Stats walks the trie.
func (s *Store) Stats() trie_api.StatsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return trie_api.StatsResponse{Kind: string(s.kind), Path: s.path, Stats: s.trie.Stat()}
}

// Import inserts every word of a SQL dictionary.
func (s *Store) Import(ctx context.Context, dao *x_db.DAO, dictionary string) (int, error) {
	added := 0
	batch := make([]string, 0, importBatch)
	err := dao.EachWord(ctx, dictionary, func(w string) error {
		batch = append(batch, w)
		if len(batch) == importBatch {
			added += s.Insert(batch)
			batch = batch[:0]
		}
		return nil
	})
	if err != nil {
		return added, err
	}
	return added + s.Insert(batch), nil
}

// Export writes every word into a SQL dictionary in lexicographic order.
func (s *Store) Export(ctx context.Context, dao *x_db.DAO, dictionary string) (int, error) {
	return dao.AddWords(ctx, dictionary, s.Search("", x_tree.Unbounded))
}
