package notes

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/meetingscribe/diarization"
	apperrors "github.com/kbukum/meetingscribe/errors"
	"github.com/kbukum/meetingscribe/logger"
	"github.com/kbukum/meetingscribe/transcription"
)

// Paths names the files one formatting run produced. Empty entries were not
// written, either by design or because that write failed.
type Paths struct {
	Transcript        string `json:"transcript"`
	SpeakerTranscript string `json:"speaker_transcript,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// Formatter writes the pipeline outputs to disk. No network access.
type Formatter struct {
	log *logger.Logger
	now func() time.Time
}

// NewFormatter creates an output formatter.
func NewFormatter(log *logger.Logger) *Formatter {
	return &Formatter{
		log: log.WithComponent("notes"),
		now: time.Now,
	}
}

// Write stores up to three files under outputDir: the plain transcript, the
// speaker-attributed transcript (only when at least one segment carries a
// speaker label), and the rendered notes document (only when n is non-nil).
// The writes are independent: a failure on one file never prevents the
// others, and all failures come back together in errs. Paths holds whatever
// was actually written.
func (f *Formatter) Write(transcript *transcription.Transcript, n *MeetingNotes, meetingDate time.Time, outputDir, baseName string) (Paths, []error) {
	var paths Paths
	var errs []error

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return paths, []error{apperrors.Formatting(outputDir, err)}
	}

	write := func(name, content string) (string, bool) {
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			f.log.Error("write failed", map[string]any{"path": path, "error": err.Error()})
			errs = append(errs, apperrors.Formatting(path, err))
			return "", false
		}
		f.log.Info("wrote output file", map[string]any{"path": path})
		return path, true
	}

	transcriptName := baseName + "_transcript.txt"
	if path, ok := write(transcriptName, transcript.PlainText); ok {
		paths.Transcript = path
	}

	if speakerText := diarization.SpeakerText(transcript); speakerText != "" {
		if path, ok := write(baseName+"_transcript_with_speakers.txt", speakerText); ok {
			paths.SpeakerTranscript = path
		}
	}

	if n != nil {
		doc := RenderMarkdown(n, meetingDate, transcriptName, f.now())
		if path, ok := write(baseName+"_meeting_notes.md", doc); ok {
			paths.Notes = path
		}
	}

	return paths, errs
}
