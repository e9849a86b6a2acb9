package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/indexlab/liveness/internal/mmap"
)

// LocalStore implements BlobStore on the local file system. Reads are
// memory mapped. Writes go to the existing path in place: the serving
// process may hold the file open, and replacing the inode under it would
// detach that handle from further updates.
type LocalStore struct {
	root string
}

// NewLocalStore returns a store rooted at dir. An empty root resolves names
// as given, relative or absolute.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, name)
}

// Open maps the blob read-only. Decode paths scan front to back, so the
// mapping is advised for sequential access.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	m, err := mmap.Open(s.path(name))
	if err != nil {
		return nil, err
	}
	_ = m.Advise(mmap.AccessSequential)
	return &localBlob{m: m}, nil
}

// Put rewrites the file in place: truncate, write, fsync.
func (s *LocalStore) Put(_ context.Context, name string, data []byte) error {
	path := s.path(name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("blobstore: write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("blobstore: sync %s: %w", path, err)
	}
	return f.Close()
}

// Delete removes the file. A missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns names under prefix. A prefix naming a directory lists its
// plain files; otherwise the final path element filters by name prefix.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	full := s.path(prefix)

	dir, base := full, ""
	if fi, err := os.Stat(full); err != nil || !fi.IsDir() {
		dir, base = filepath.Dir(full), filepath.Base(full)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || (base != "" && !strings.HasPrefix(e.Name(), base)) {
			continue
		}
		full := filepath.Join(dir, e.Name())
		name := full
		if s.root != "" {
			if rel, err := filepath.Rel(s.root, full); err == nil {
				name = rel
			}
		}
		names = append(names, name)
	}
	return names, nil
}

type localBlob struct {
	m *mmap.Mapping
}

func (b *localBlob) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	data := b.m.Bytes()
	if off < 0 || off >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *localBlob) Size() int64 {
	return int64(b.m.Size())
}

func (b *localBlob) Bytes() ([]byte, error) {
	return b.m.Bytes(), nil
}

func (b *localBlob) Close() error {
	return b.m.Close()
}
