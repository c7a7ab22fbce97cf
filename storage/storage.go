package storage

import (
	"context"
	"io"
)

// Storage defines the object storage operations the pipeline uses.
type Storage interface {
	// Upload writes data from reader to the given key.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download returns a reader for the object at the given key.
	// The caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object at the given key.
	// Returns nil if the object does not exist.
	Delete(ctx context.Context, key string) error

	// URL returns a URI referencing the object at the given key, in the form
	// the transcription service accepts (s3://... or file://...).
	URL(ctx context.Context, key string) (string, error)
}

// Ref identifies one uploaded audio object.
type Ref struct {
	// Key is the object key within the backend.
	Key string
	// URI is the backend-specific reference handed to the transcription job.
	URI string
	// FileName is the original base name of the uploaded file.
	FileName string
}
