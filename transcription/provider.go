package transcription

import (
	"context"

	"github.com/kbukum/meetingscribe/provider"
	"github.com/kbukum/meetingscribe/storage"
)

// Provider is the interface that transcription backends must implement.
// Transcribe drives a transcription of the referenced audio to completion and
// returns the raw segment payload; the diarization assembler turns it into an
// ordered Transcript.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	Transcribe(ctx context.Context, ref *storage.Ref, opts Options) (*RawResult, error)
}

// NewRegistry creates a provider registry for transcription backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
