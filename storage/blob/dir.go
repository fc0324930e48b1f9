// Package blob provides a filesystem-backed implementation of
// storage.BlobStore. Uploaded document bytes are written one file per
// storage key under a root directory.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/docrag/storage"
)

// Dir is a BlobStore rooted at a directory on the local filesystem.
type Dir struct {
	root string
}

var _ storage.BlobStore = (*Dir)(nil)

// NewDir creates a blob store rooted at root, creating the directory if
// needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Dir{root: root}, nil
}

// Put writes data under key.
func (d *Dir) Put(ctx context.Context, key string, data []byte) error {
	path, err := d.path(key)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Get reads the data stored under key.
// Returns storage.ErrNotFound if no blob exists for the key.
func (d *Dir) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := d.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: blob %q", storage.ErrNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

// Delete removes the blob stored under key. Missing keys are not an error.
func (d *Dir) Delete(ctx context.Context, key string) error {
	path, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the keys of all stored blobs in lexical order.
func (d *Dir) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			keys = append(keys, e.Name())
		}
	}
	return keys, nil
}

// path maps a storage key to a file path, rejecting keys that would escape
// the root directory.
func (d *Dir) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(d.root, key), nil
}
