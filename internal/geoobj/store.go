package geoobj

import (
	"fmt"
	"os"
	"path/filepath"
)

// BlobStore persists attribute blobs under stable keys. The production
// upload client satisfies this; a directory-backed store serves the
// CLIs and tests.
type BlobStore interface {
	Put(key string, data []byte) error
}

// DirStore writes blobs as files in a directory.
type DirStore struct {
	Dir string
}

func (s DirStore) Put(key string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating blob dir %s: %w", s.Dir, err)
	}
	path := filepath.Join(s.Dir, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing blob %s: %w", path, err)
	}
	return nil
}
