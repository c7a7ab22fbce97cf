package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/meetingscribe/errors"
	"github.com/kbukum/meetingscribe/logger"
)

// SupportedExtensions lists the audio formats accepted for upload.
var SupportedExtensions = []string{".mp3", ".wav", ".m4a", ".flac", ".ogg"}

// Gateway validates a local audio file and uploads it under a
// collision-resistant key, so repeated uploads of the same file never
// overwrite each other.
type Gateway struct {
	store Storage
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

// NewGateway creates a gateway over the given storage backend.
func NewGateway(store Storage, log *logger.Logger) *Gateway {
	return &Gateway{
		store: store,
		log:   log.WithComponent("storage.gateway"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Upload validates localPath and writes it to the backend. Validation happens
// before any network call. Network and auth failures are returned as storage
// errors with the underlying cause attached; the gateway does not retry.
func (g *Gateway) Upload(ctx context.Context, localPath string) (*Ref, error) {
	ext := strings.ToLower(filepath.Ext(localPath))
	if !isSupported(ext) {
		return nil, apperrors.UnsupportedFormat(ext, SupportedExtensions)
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return nil, apperrors.Storage("stat", err).WithDetail("path", localPath)
	}
	if info.Size() == 0 {
		return nil, apperrors.Storage("stat", fmt.Errorf("file is empty: %s", localPath))
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, apperrors.Storage("open", err).WithDetail("path", localPath)
	}
	defer f.Close()

	fileName := filepath.Base(localPath)
	key := fmt.Sprintf("uploads/%d_%s_%s", g.now().Unix(), shortID(g.newID()), fileName)

	g.log.Info("uploading audio", map[string]any{"key": key, "size": info.Size()})
	if err := g.store.Upload(ctx, key, f); err != nil {
		return nil, apperrors.Storage("upload", err).WithDetail("key", key)
	}

	uri, err := g.store.URL(ctx, key)
	if err != nil {
		return nil, apperrors.Storage("resolve uri", err).WithDetail("key", key)
	}

	return &Ref{Key: key, URI: uri, FileName: fileName}, nil
}

// Discard removes a previously uploaded object. Best effort; callers treat a
// failure as a warning, not a run failure.
func (g *Gateway) Discard(ctx context.Context, ref *Ref) error {
	if ref == nil {
		return nil
	}
	if err := g.store.Delete(ctx, ref.Key); err != nil {
		return apperrors.Storage("delete", err).WithDetail("key", ref.Key)
	}
	return nil
}

func isSupported(ext string) bool {
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
