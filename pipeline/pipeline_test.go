package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/meetingscribe/errors"
	"github.com/kbukum/meetingscribe/logger"
	"github.com/kbukum/meetingscribe/notes"
	"github.com/kbukum/meetingscribe/storage"
	"github.com/kbukum/meetingscribe/summarize"
	"github.com/kbukum/meetingscribe/transcription"
)

type stubGateway struct {
	uploadErr error
	discarded bool
}

func (s *stubGateway) Upload(_ context.Context, localPath string) (*storage.Ref, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	fileName := filepath.Base(localPath)
	return &storage.Ref{Key: "uploads/1_ab_" + fileName, URI: "s3://b/uploads/1_ab_" + fileName, FileName: fileName}, nil
}

func (s *stubGateway) Discard(_ context.Context, _ *storage.Ref) error {
	s.discarded = true
	return nil
}

type stubTranscriber struct {
	raw *transcription.RawResult
	err error
}

func (s *stubTranscriber) Name() string { return "stub" }

func (s *stubTranscriber) IsAvailable(_ context.Context) bool { return true }

func (s *stubTranscriber) Transcribe(_ context.Context, _ *storage.Ref, opts transcription.Options) (*transcription.RawResult, error) {
	if opts.OnPoll != nil {
		opts.OnPoll(3 * time.Second)
	}
	return s.raw, s.err
}

type stubSummarizer struct {
	notes *notes.MeetingNotes
	err   error
}

func (s *stubSummarizer) Summarize(_ context.Context, _ *transcription.Transcript) (*notes.MeetingNotes, error) {
	return s.notes, s.err
}

func rawResult() *transcription.RawResult {
	return &transcription.RawResult{Segments: []transcription.RawSegment{
		{Start: 0, End: 2, Speaker: "spk_0", Text: "We will ship Friday."},
		{Start: 2, End: 4, Speaker: "spk_1", Text: "Agreed."},
	}}
}

func goodNotes() *notes.MeetingNotes {
	return &notes.MeetingNotes{Summary: "Shipping agreed for Friday."}
}

func testRunner(t *testing.T, gw *stubGateway, tr *stubTranscriber, sm *stubSummarizer) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	return &Runner{
		Gateway:     gw,
		Transcriber: tr,
		Summarizer:  sm,
		Formatter:   notes.NewFormatter(logger.Nop()),
		Log:         logger.Nop(),
	}, dir
}

func request(dir string) Request {
	return Request{
		AudioPath:   "meeting.mp3",
		Options:     transcription.Options{LanguageCode: "en-US", EnableSpeakerLabels: true},
		MeetingDate: time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
		OutputDir:   dir,
	}
}

func TestRunFullSuccess(t *testing.T) {
	r, dir := testRunner(t, &stubGateway{}, &stubTranscriber{raw: rawResult()}, &stubSummarizer{notes: goodNotes()})

	var stages []string
	r.OnProgress = func(stage string, _ float64, _ string) { stages = append(stages, stage) }

	res, err := r.Run(context.Background(), request(dir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.FailedStage != "" {
		t.Errorf("failed stage = %q, want empty", res.FailedStage)
	}
	if res.Notes == nil || res.Notes.Summary != "Shipping agreed for Friday." {
		t.Errorf("notes = %+v", res.Notes)
	}
	if res.Transcript.PlainText != "We will ship Friday. Agreed." {
		t.Errorf("transcript = %q", res.Transcript.PlainText)
	}
	if res.Paths.Transcript == "" || res.Paths.SpeakerTranscript == "" || res.Paths.Notes == "" {
		t.Errorf("paths = %+v, want all three", res.Paths)
	}
	if filepath.Base(res.Paths.Transcript) != "meeting_transcript.txt" {
		t.Errorf("transcript file = %q", res.Paths.Transcript)
	}

	want := []string{StageUpload, StageTranscription, StageTranscription, StageAssembly, StageSummarization, StageFormatting, "done"}
	if strings.Join(stages, ",") != strings.Join(want, ",") {
		t.Errorf("stages = %v, want %v", stages, want)
	}
}

func TestRunSummarizationFailureDegrades(t *testing.T) {
	quota := apperrors.Summarization(errors.New("quota exceeded for model invocations"))
	r, dir := testRunner(t, &stubGateway{}, &stubTranscriber{raw: rawResult()}, &stubSummarizer{err: quota})

	res, err := r.Run(context.Background(), request(dir))
	if err != nil {
		t.Fatalf("Run returned error for non-fatal summarization failure: %v", err)
	}
	if res.FailedStage != StageSummarization {
		t.Errorf("failed stage = %q, want %q", res.FailedStage, StageSummarization)
	}
	if res.Notes != nil {
		t.Errorf("notes = %+v, want nil", res.Notes)
	}

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "quota exceeded for model invocations") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings %v do not carry the summarization error verbatim", res.Warnings)
	}

	// Transcript files are still written, notes file is not.
	if res.Paths.Transcript == "" || res.Paths.SpeakerTranscript == "" {
		t.Errorf("transcript paths missing: %+v", res.Paths)
	}
	if res.Paths.Notes != "" {
		t.Errorf("notes file written despite failure: %q", res.Paths.Notes)
	}
}

func TestRunSummarizationFallback(t *testing.T) {
	r, dir := testRunner(t, &stubGateway{}, &stubTranscriber{raw: rawResult()},
		&stubSummarizer{err: apperrors.Summarization(errors.New("unreachable"))})
	r.Fallback = summarize.Extractive

	res, err := r.Run(context.Background(), request(dir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.FailedStage != StageSummarization {
		t.Errorf("failed stage = %q", res.FailedStage)
	}
	if res.Notes == nil || res.Notes.Summary == "" {
		t.Errorf("fallback notes missing: %+v", res.Notes)
	}
	if res.Paths.Notes == "" {
		t.Error("fallback notes not written to disk")
	}
}

func TestRunTranscriptionFailureIsFatal(t *testing.T) {
	jobErr := apperrors.TranscriptionJob("transcribe_x_1", "bad media format")
	r, dir := testRunner(t, &stubGateway{}, &stubTranscriber{err: jobErr}, &stubSummarizer{notes: goodNotes()})

	_, err := r.Run(context.Background(), request(dir))
	if apperrors.CodeOf(err) != apperrors.ErrCodeTranscriptionJob {
		t.Fatalf("err = %v", err)
	}

	// No output files on a fatal stage failure.
	entries, derr := os.ReadDir(dir)
	if derr != nil {
		t.Fatal(derr)
	}
	if len(entries) != 0 {
		t.Errorf("output dir not empty after fatal failure: %v", entries)
	}
}

func TestRunUploadFailureIsFatal(t *testing.T) {
	upErr := apperrors.Storage("upload", errors.New("access denied"))
	r, dir := testRunner(t, &stubGateway{uploadErr: upErr}, &stubTranscriber{raw: rawResult()}, &stubSummarizer{notes: goodNotes()})

	_, err := r.Run(context.Background(), request(dir))
	if apperrors.CodeOf(err) != apperrors.ErrCodeStorage {
		t.Fatalf("err = %v", err)
	}
}

func TestRunEmptyTranscriptWarns(t *testing.T) {
	r, dir := testRunner(t, &stubGateway{},
		&stubTranscriber{raw: &transcription.RawResult{}},
		&stubSummarizer{notes: &notes.MeetingNotes{}})

	res, err := r.Run(context.Background(), request(dir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], "no text") {
		t.Errorf("warnings = %v, want empty-transcript warning", res.Warnings)
	}
}

func TestRunDeleteUpload(t *testing.T) {
	gw := &stubGateway{}
	r, dir := testRunner(t, gw, &stubTranscriber{raw: rawResult()}, &stubSummarizer{notes: goodNotes()})

	req := request(dir)
	req.DeleteUpload = true
	if _, err := r.Run(context.Background(), req); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !gw.discarded {
		t.Error("uploaded object was not discarded")
	}
}

func TestRunTranscriptWriteFailure(t *testing.T) {
	r, dir := testRunner(t, &stubGateway{}, &stubTranscriber{raw: rawResult()}, &stubSummarizer{notes: goodNotes()})

	// Occupy the transcript path with a directory so that write fails.
	if err := os.MkdirAll(filepath.Join(dir, "meeting_transcript.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := r.Run(context.Background(), request(dir))
	if err == nil {
		t.Fatal("Run succeeded without a transcript on disk")
	}
	if res == nil || res.FailedStage != StageFormatting {
		t.Errorf("result = %+v", res)
	}
}
