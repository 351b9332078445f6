package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/doctrail/doctrail/artifact"
)

// Store implements artifact.Store on the local filesystem. Keys map to
// file paths under the root directory. Intended for development and
// tests; production deployments use the S3 backend.
type Store struct {
	root string
}

var _ artifact.Store = (*Store)(nil)

// NewStore creates a filesystem store rooted at dir.
// Creates the directory if it doesn't exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", artifact.ErrPutFailed, err)
	}
	return &Store{root: dir}, nil
}

// Put stores the content under a fresh key. O_EXCL enforces the
// no-overwrite contract even on key collision.
func (s *Store) Put(ctx context.Context, identity, name string, content []byte) (string, error) {
	key := artifact.NewKey(identity, name)
	path := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("%w: %v", artifact.ErrPutFailed, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", artifact.ErrKeyExists, key)
		}
		return "", fmt.Errorf("%w: %v", artifact.ErrPutFailed, err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return "", fmt.Errorf("%w: %v", artifact.ErrPutFailed, err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("%w: %v", artifact.ErrPutFailed, err)
	}
	return key, nil
}

// Get retrieves the content stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", artifact.ErrObjectNotFound, key)
		}
		return nil, err
	}
	return content, nil
}
