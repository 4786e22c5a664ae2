package storage

import (
	"context"
	"os"
	"path/filepath"
)

// fsStore writes artifacts under a local directory. Used by the CLI runner
// and in tests where object storage would be overkill.
type fsStore struct {
	root string
}

// NewFSStore creates a filesystem-backed artifact store rooted at dir.
func NewFSStore(dir string) ArtifactStore {
	return &fsStore{root: dir}
}

func (s *fsStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *fsStore) Put(ctx context.Context, key string, contentType string, data []byte) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *fsStore) PresignGet(ctx context.Context, key string) (string, error) {
	return s.path(key), nil
}

func (s *fsStore) Delete(ctx context.Context, key string) error {
	return os.Remove(s.path(key))
}
