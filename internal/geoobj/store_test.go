package geoobj

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestDirStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blobs") // not yet created
	s := DirStore{Dir: dir}

	if err := s.Put("abc123", []byte("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "abc123"))
	if err != nil {
		t.Fatalf("reading blob: %v", err)
	}
	if !bytes.Equal(got, []byte("payload")) {
		t.Errorf("blob = %q", got)
	}
}
