package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// TempAudio creates a small non-empty audio fixture in a temp directory and
// returns its path. The content is arbitrary; the pipeline never decodes it.
func TempAudio(t *testing.T, name string) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), name, "RIFF....fake-audio-bytes")
}

// ReadFile reads path and fails the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
