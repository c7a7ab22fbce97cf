package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbukum/meetingscribe/diarization"
	apperrors "github.com/kbukum/meetingscribe/errors"
	"github.com/kbukum/meetingscribe/logger"
	"github.com/kbukum/meetingscribe/notes"
	"github.com/kbukum/meetingscribe/storage"
	"github.com/kbukum/meetingscribe/transcription"
)

// Stage names as reported through progress callbacks and Result.FailedStage.
const (
	StageUpload        = "upload"
	StageTranscription = "transcription"
	StageAssembly      = "assembly"
	StageSummarization = "summarization"
	StageFormatting    = "formatting"
)

// ProgressFunc receives stage-boundary and poll-tick progress. fraction is in
// [0, 1]. Called from the goroutine running the pipeline.
type ProgressFunc func(stage string, fraction float64, message string)

// Uploader puts local audio into object storage.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*storage.Ref, error)
	Discard(ctx context.Context, ref *storage.Ref) error
}

// Summarizer turns a transcript into structured notes.
type Summarizer interface {
	Summarize(ctx context.Context, transcript *transcription.Transcript) (*notes.MeetingNotes, error)
}

// Formatter writes the output files.
type Formatter interface {
	Write(transcript *transcription.Transcript, n *notes.MeetingNotes, meetingDate time.Time, outputDir, baseName string) (notes.Paths, []error)
}

// Runner wires the five stages together. All collaborators are required
// except Fallback and OnProgress.
type Runner struct {
	Gateway     Uploader
	Transcriber transcription.Provider
	Summarizer  Summarizer
	Formatter   Formatter

	// Fallback, when set, produces degraded notes after the Summarizer
	// fails. Its output replaces nothing on success paths.
	Fallback func(*transcription.Transcript) *notes.MeetingNotes

	Log        *logger.Logger
	OnProgress ProgressFunc
}

// Request describes one pipeline run.
type Request struct {
	// AudioPath is the local audio file to process.
	AudioPath string
	// Options configures the transcription job.
	Options transcription.Options
	// MeetingDate stamps the notes title. Zero means time.Now.
	MeetingDate time.Time
	// OutputDir receives the generated files.
	OutputDir string
	// BaseName overrides the output file prefix. Defaults to the audio file
	// name without extension.
	BaseName string
	// DeleteUpload removes the uploaded object after the run.
	DeleteUpload bool
}

// Result is the outcome of a run that produced at least a transcript.
type Result struct {
	Transcript *transcription.Transcript
	// Notes is nil only when FailedStage is "summarization".
	Notes *notes.MeetingNotes
	Paths notes.Paths
	// Warnings carries non-fatal degradations, verbatim.
	Warnings []string
	// FailedStage is empty on full success, or names the stage that
	// degraded the result.
	FailedStage string
}

// Run executes the pipeline for one audio file. The first three stages are
// fatal on error; summarization failure yields a partial Result (nil error)
// with the failure recorded in Warnings and FailedStage.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	log := r.Log.WithComponent("pipeline")
	baseName := req.BaseName
	if baseName == "" {
		fileName := filepath.Base(req.AudioPath)
		baseName = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}
	meetingDate := req.MeetingDate
	if meetingDate.IsZero() {
		meetingDate = time.Now()
	}

	r.progress(StageUpload, 0.0, "uploading audio")
	ref, err := r.Gateway.Upload(ctx, req.AudioPath)
	if err != nil {
		return nil, err
	}
	if req.DeleteUpload {
		defer func() {
			if derr := r.Gateway.Discard(context.WithoutCancel(ctx), ref); derr != nil {
				log.Warn("could not remove uploaded audio", map[string]any{"key": ref.Key, "error": derr.Error()})
			}
		}()
	}

	r.progress(StageTranscription, 0.2, "transcription job running")
	opts := req.Options
	userOnPoll := opts.OnPoll
	opts.OnPoll = func(elapsed time.Duration) {
		r.progress(StageTranscription, 0.2, fmt.Sprintf("transcribing (%s elapsed)", elapsed.Round(time.Second)))
		if userOnPoll != nil {
			userOnPoll(elapsed)
		}
	}
	raw, err := r.Transcriber.Transcribe(ctx, ref, opts)
	if err != nil {
		return nil, err
	}

	r.progress(StageAssembly, 0.6, "assembling transcript")
	transcript := diarization.Assemble(raw, req.Options.EnableSpeakerLabels)

	result := &Result{Transcript: transcript}
	if transcript.Empty() {
		result.Warnings = append(result.Warnings, "transcription produced no text")
		log.Warn("empty transcript", map[string]any{"audio": req.AudioPath})
	}

	r.progress(StageSummarization, 0.7, "generating meeting notes")
	n, err := r.Summarizer.Summarize(ctx, transcript)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Error("summarization failed, delivering transcript only", map[string]any{"error": err.Error()})
		result.Warnings = append(result.Warnings, err.Error())
		result.FailedStage = StageSummarization
		if r.Fallback != nil {
			if fb := r.Fallback(transcript); !fb.Empty() {
				n = fb
				result.Warnings = append(result.Warnings, "notes were produced by the extractive fallback, not the model")
			}
		}
	}
	result.Notes = n

	r.progress(StageFormatting, 0.9, "writing output files")
	paths, writeErrs := r.Formatter.Write(transcript, n, meetingDate, req.OutputDir, baseName)
	result.Paths = paths
	for _, werr := range writeErrs {
		result.Warnings = append(result.Warnings, werr.Error())
	}
	if paths.Transcript == "" {
		// Without the plain transcript on disk the run delivered nothing.
		result.FailedStage = StageFormatting
		if len(writeErrs) > 0 {
			return result, writeErrs[0]
		}
		return result, apperrors.Formatting(req.OutputDir, fmt.Errorf("transcript file was not written"))
	}

	r.progress("done", 1.0, "pipeline complete")
	log.Info("pipeline complete", map[string]any{
		"transcript":   paths.Transcript,
		"notes":        paths.Notes,
		"failed_stage": result.FailedStage,
	})
	return result, nil
}

func (r *Runner) progress(stage string, fraction float64, message string) {
	if r.OnProgress != nil {
		r.OnProgress(stage, fraction, message)
	}
}
