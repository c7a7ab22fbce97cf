package awstranscribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	transcribetypes "github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/aws/smithy-go"

	apperrors "github.com/kbukum/meetingscribe/errors"
	"github.com/kbukum/meetingscribe/logger"
	"github.com/kbukum/meetingscribe/storage"
	"github.com/kbukum/meetingscribe/transcription"
)

type stubAPI struct {
	startErr  error
	started   *transcribe.StartTranscriptionJobInput
	statuses  []transcribetypes.TranscriptionJobStatus
	polls     int
	pollErr   error
	failure   string
	resultURI string
}

func (s *stubAPI) StartTranscriptionJob(_ context.Context, params *transcribe.StartTranscriptionJobInput, _ ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error) {
	if s.startErr != nil {
		return nil, s.startErr
	}
	s.started = params
	return &transcribe.StartTranscriptionJobOutput{}, nil
}

func (s *stubAPI) GetTranscriptionJob(_ context.Context, params *transcribe.GetTranscriptionJobInput, _ ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error) {
	if s.pollErr != nil {
		s.polls++
		return nil, s.pollErr
	}
	status := s.statuses[len(s.statuses)-1]
	if s.polls < len(s.statuses) {
		status = s.statuses[s.polls]
	}
	s.polls++

	job := &transcribetypes.TranscriptionJob{
		TranscriptionJobName:   params.TranscriptionJobName,
		TranscriptionJobStatus: status,
	}
	if status == transcribetypes.TranscriptionJobStatusFailed {
		job.FailureReason = aws.String(s.failure)
	}
	if status == transcribetypes.TranscriptionJobStatusCompleted {
		job.Transcript = &transcribetypes.Transcript{TranscriptFileUri: aws.String(s.resultURI)}
	}
	return &transcribe.GetTranscriptionJobOutput{TranscriptionJob: job}, nil
}

func testProvider(t *testing.T, stub *stubAPI) *Provider {
	t.Helper()
	return newProvider(stub, Config{
		Region:       "us-east-1",
		PollInterval: time.Millisecond,
		MaxWait:      250 * time.Millisecond,
	}, logger.Nop())
}

func audioRef() *storage.Ref {
	return &storage.Ref{
		Key:      "uploads/1700000000_abcd1234_standup.mp3",
		URI:      "s3://meetings/uploads/1700000000_abcd1234_standup.mp3",
		FileName: "standup.mp3",
	}
}

func TestTranscribeCompletes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(twoSpeakerDoc))
	}))
	defer srv.Close()

	stub := &stubAPI{
		statuses: []transcribetypes.TranscriptionJobStatus{
			transcribetypes.TranscriptionJobStatusInProgress,
			transcribetypes.TranscriptionJobStatusInProgress,
			transcribetypes.TranscriptionJobStatusCompleted,
		},
		resultURI: srv.URL,
	}
	p := testProvider(t, stub)

	var ticks int
	raw, err := p.Transcribe(context.Background(), audioRef(), transcription.Options{
		LanguageCode:        "en-US",
		EnableSpeakerLabels: true,
		MaxSpeakers:         4,
		OnPoll:              func(time.Duration) { ticks++ },
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(raw.Segments) != 2 {
		t.Errorf("segments = %d, want 2", len(raw.Segments))
	}
	if ticks != 3 {
		t.Errorf("OnPoll ticks = %d, want 3", ticks)
	}

	name := aws.ToString(stub.started.TranscriptionJobName)
	if !strings.HasPrefix(name, "transcribe_standup_") {
		t.Errorf("job name %q lacks transcribe_standup_ prefix", name)
	}
	if stub.started.MediaFormat != transcribetypes.MediaFormatMp3 {
		t.Errorf("media format = %q, want mp3", stub.started.MediaFormat)
	}
	if stub.started.Settings == nil || !aws.ToBool(stub.started.Settings.ShowSpeakerLabels) {
		t.Error("speaker labels not requested")
	}
	if got := aws.ToInt32(stub.started.Settings.MaxSpeakerLabels); got != 4 {
		t.Errorf("max speakers = %d, want 4", got)
	}
}

func TestTranscribeJobFailureReasonVerbatim(t *testing.T) {
	stub := &stubAPI{
		statuses: []transcribetypes.TranscriptionJobStatus{transcribetypes.TranscriptionJobStatusFailed},
		failure:  "The media format that you specified doesn't match the detected media format.",
	}
	p := testProvider(t, stub)

	_, err := p.Transcribe(context.Background(), audioRef(), transcription.Options{LanguageCode: "en-US"})
	if apperrors.CodeOf(err) != apperrors.ErrCodeTranscriptionJob {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.ErrCodeTranscriptionJob)
	}
	if !strings.Contains(err.Error(), stub.failure) {
		t.Errorf("error %q does not carry the remote failure reason", err)
	}
}

func TestTranscribeSubmitFailure(t *testing.T) {
	stub := &stubAPI{startErr: errors.New("AccessDeniedException")}
	p := testProvider(t, stub)

	_, err := p.Transcribe(context.Background(), audioRef(), transcription.Options{LanguageCode: "en-US"})
	if apperrors.CodeOf(err) != apperrors.ErrCodeJobSubmission {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.ErrCodeJobSubmission)
	}
	if stub.polls != 0 {
		t.Errorf("polled %d times after failed submission, want 0", stub.polls)
	}
}

func TestTranscribeTimeout(t *testing.T) {
	stub := &stubAPI{
		statuses: []transcribetypes.TranscriptionJobStatus{transcribetypes.TranscriptionJobStatusInProgress},
	}
	p := testProvider(t, stub)
	p.cfg.MaxWait = 5 * time.Millisecond

	_, err := p.Transcribe(context.Background(), audioRef(), transcription.Options{LanguageCode: "en-US"})
	if apperrors.CodeOf(err) != apperrors.ErrCodeTranscriptionTimeout {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.ErrCodeTranscriptionTimeout)
	}
}

type stubAPIError struct{ code string }

func (e *stubAPIError) Error() string                 { return e.code }
func (e *stubAPIError) ErrorCode() string             { return e.code }
func (e *stubAPIError) ErrorMessage() string          { return e.code }
func (e *stubAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func TestTranscribeTerminalPollErrorNotRetried(t *testing.T) {
	stub := &stubAPI{pollErr: &stubAPIError{code: "BadRequestException"}}
	p := testProvider(t, stub)

	_, err := p.Transcribe(context.Background(), audioRef(), transcription.Options{LanguageCode: "en-US"})
	if apperrors.CodeOf(err) != apperrors.ErrCodeUnavailable {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.ErrCodeUnavailable)
	}
	if stub.polls != 1 {
		t.Errorf("polled %d times for a terminal service error, want 1", stub.polls)
	}
}

func TestTransientPollError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"throttling", &stubAPIError{code: "ThrottlingException"}, true},
		{"limit exceeded", &stubAPIError{code: "LimitExceededException"}, true},
		{"internal failure", &stubAPIError{code: "InternalFailureException"}, true},
		{"bad request", &stubAPIError{code: "BadRequestException"}, false},
		{"not found", &stubAPIError{code: "NotFoundException"}, false},
		{"network", errors.New("connection reset"), true},
		{"cancelled", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transientPollError(tt.err); got != tt.want {
				t.Errorf("transientPollError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestTranscribeCancellation(t *testing.T) {
	stub := &stubAPI{
		statuses: []transcribetypes.TranscriptionJobStatus{transcribetypes.TranscriptionJobStatusInProgress},
	}
	p := testProvider(t, stub)
	p.cfg.PollInterval = time.Hour
	p.cfg.MaxWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Transcribe(ctx, audioRef(), transcription.Options{LanguageCode: "en-US"})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Transcribe did not return after cancellation")
	}
}
