package awstranscribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	transcribetypes "github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	apperrors "github.com/kbukum/meetingscribe/errors"
	"github.com/kbukum/meetingscribe/logger"
	"github.com/kbukum/meetingscribe/resilience"
	"github.com/kbukum/meetingscribe/storage"
	"github.com/kbukum/meetingscribe/transcription"
)

// api is the subset of the AWS Transcribe client the driver uses.
// Narrowed for testability.
type api interface {
	StartTranscriptionJob(ctx context.Context, params *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
}

// Provider implements transcription.Provider using AWS Transcribe.
type Provider struct {
	client api
	httpc  *http.Client
	cfg    Config
	log    *logger.Logger
	newID  func() string
}

// NewProvider creates an AWS Transcribe backend from the given config.
func NewProvider(ctx context.Context, cfg Config, log *logger.Logger) (*Provider, error) {
	cfg.ApplyDefaults()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("transcribe: load aws config: %w", err)
	}

	return newProvider(transcribe.NewFromConfig(awsCfg), cfg, log), nil
}

func newProvider(client api, cfg Config, log *logger.Logger) *Provider {
	cfg.ApplyDefaults()
	return &Provider{
		client: client,
		httpc:  &http.Client{Timeout: cfg.HTTPTimeout},
		cfg:    cfg,
		log:    log.WithComponent("transcription.aws"),
		newID:  uuid.NewString,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the backend is configured.
func (p *Provider) IsAvailable(_ context.Context) bool {
	return p.client != nil && p.cfg.Region != ""
}

// Transcribe submits an asynchronous job for the uploaded audio and drives it
// to completion. Submission failures are terminal and not retried. Transient
// errors while polling are retried with exponential backoff; a job status of
// FAILED is terminal and carries the remote failure reason verbatim.
// Cancellation is cooperative: the context is checked between polls, never
// preempting an in-flight call.
func (p *Provider) Transcribe(ctx context.Context, ref *storage.Ref, opts transcription.Options) (*transcription.RawResult, error) {
	jobName := p.jobName(ref.FileName)

	input := &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
		Media:                &transcribetypes.Media{MediaFileUri: aws.String(ref.URI)},
		MediaFormat:          mediaFormat(ref.FileName),
		LanguageCode:         transcribetypes.LanguageCode(opts.LanguageCode),
	}
	if opts.EnableSpeakerLabels {
		maxSpeakers := opts.MaxSpeakers
		if maxSpeakers <= 0 {
			maxSpeakers = 10
		}
		input.Settings = &transcribetypes.Settings{
			ShowSpeakerLabels: aws.Bool(true),
			MaxSpeakerLabels:  aws.Int32(int32(maxSpeakers)),
		}
	}

	p.log.Info("starting transcription job", map[string]any{
		"job":            jobName,
		"uri":            ref.URI,
		"speaker_labels": opts.EnableSpeakerLabels,
	})
	if _, err := p.client.StartTranscriptionJob(ctx, input); err != nil {
		return nil, apperrors.JobSubmission(jobName, err)
	}

	job, err := p.waitForJob(ctx, jobName, opts.OnPoll)
	if err != nil {
		return nil, err
	}

	resultURI := ""
	if job.Transcript != nil {
		resultURI = aws.ToString(job.Transcript.TranscriptFileUri)
	}
	if resultURI == "" {
		return nil, apperrors.TranscriptionJob(jobName, "job completed without a transcript URI")
	}

	payload, err := p.fetchPayload(ctx, resultURI)
	if err != nil {
		return nil, apperrors.Unavailable("transcript download", err).WithDetail("job", jobName)
	}

	raw, err := ParseResultDoc(payload, opts.EnableSpeakerLabels)
	if err != nil {
		return nil, apperrors.TranscriptionJob(jobName, fmt.Sprintf("unreadable result payload: %v", err))
	}
	return raw, nil
}

// waitForJob polls the job on a fixed interval until it reaches a terminal
// status or the wait bound is exceeded. The remote job is never cancelled;
// timing out only abandons the local wait.
func (p *Provider) waitForJob(ctx context.Context, jobName string, onPoll func(time.Duration)) (*transcribetypes.TranscriptionJob, error) {
	start := time.Now()
	pollRetry := resilience.RetryConfig{
		MaxAttempts:    4,
		InitialBackoff: time.Second,
		BackoffFactor:  2.0,
		RetryIf:        transientPollError,
	}

	for {
		out, err := resilience.Retry(ctx, pollRetry, func() (*transcribe.GetTranscriptionJobOutput, error) {
			return p.client.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
				TranscriptionJobName: aws.String(jobName),
			})
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, apperrors.Unavailable("AWS Transcribe", err).WithDetail("job", jobName)
		}

		job := out.TranscriptionJob
		elapsed := time.Since(start)
		if onPoll != nil {
			onPoll(elapsed)
		}

		switch job.TranscriptionJobStatus {
		case transcribetypes.TranscriptionJobStatusCompleted:
			p.log.Info("transcription job completed", map[string]any{"job": jobName, "elapsed": elapsed.String()})
			return job, nil
		case transcribetypes.TranscriptionJobStatusFailed:
			return nil, apperrors.TranscriptionJob(jobName, aws.ToString(job.FailureReason))
		}

		if elapsed >= p.cfg.MaxWait {
			return nil, apperrors.TranscriptionTimeout(jobName, elapsed)
		}

		p.log.Debug("transcription job still running", map[string]any{"job": jobName, "status": string(job.TranscriptionJobStatus)})
		timer := time.NewTimer(p.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// transientPollError reports whether a failed status poll is worth another
// attempt. Service rejections (bad request, missing job, auth) surface at
// once; throttling and transport failures get the backoff.
func transientPollError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "LimitExceededException",
			"InternalFailureException", "ServiceUnavailableException":
			return true
		}
		return false
	}
	return true
}

// fetchPayload downloads the result document from the pre-signed URI the
// service hands back on completion.
func (p *Provider) fetchPayload(ctx context.Context, uri string) ([]byte, error) {
	return resilience.Retry(ctx, resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		BackoffFactor:  2.0,
	}, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, http.NoBody)
		if err != nil {
			return nil, err
		}
		resp, err := p.httpc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("transcript download failed (status %d): %s", resp.StatusCode, string(body))
		}
		return io.ReadAll(resp.Body)
	})
}

var jobNameSanitizer = regexp.MustCompile(`[^0-9A-Za-z._-]+`)

func (p *Provider) jobName(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	base = jobNameSanitizer.ReplaceAllString(base, "-")
	if base == "" {
		base = "audio"
	}
	name := fmt.Sprintf("transcribe_%s_%d_%s", base, time.Now().Unix(), shortID(p.newID()))
	if len(name) > 200 {
		name = name[:200]
	}
	return name
}

func mediaFormat(fileName string) transcribetypes.MediaFormat {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	return transcribetypes.MediaFormat(ext)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
