package local

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/kbukum/meetingscribe/storage"
)

// Storage implements storage.Storage using a base directory.
type Storage struct {
	basePath string
}

// NewStorage creates a local filesystem storage rooted at basePath.
func NewStorage(basePath string) (*Storage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Storage{basePath: abs}, nil
}

// Upload writes data from reader to a local file under the base directory.
func (s *Storage) Upload(_ context.Context, key string, reader io.Reader) error {
	fullPath := filepath.Join(s.basePath, filepath.Clean(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("storage: write file: %w", err)
	}
	return nil
}

// Download returns a reader for the local file at the given key.
func (s *Storage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, filepath.Clean(key))
	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage: file not found: %s", key)
		}
		return nil, fmt.Errorf("storage: open file: %w", err)
	}
	return f, nil
}

// Delete removes a local file. Returns nil if the file does not exist.
func (s *Storage) Delete(_ context.Context, key string) error {
	fullPath := filepath.Join(s.basePath, filepath.Clean(key))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

// URL returns a file:// URL for the local file.
func (s *Storage) URL(_ context.Context, key string) (string, error) {
	u := &url.URL{Scheme: "file", Path: filepath.Join(s.basePath, key)}
	return u.String(), nil
}

// compile-time check
var _ storage.Storage = (*Storage)(nil)
