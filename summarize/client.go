package summarize

import (
	"context"
	"time"

	apperrors "github.com/kbukum/meetingscribe/errors"
	"github.com/kbukum/meetingscribe/llm"
	"github.com/kbukum/meetingscribe/logger"
	"github.com/kbukum/meetingscribe/notes"
	"github.com/kbukum/meetingscribe/resilience"
	"github.com/kbukum/meetingscribe/transcription"
)

const defaultSystemPrompt = "You are an expert meeting assistant. You write professional, actionable meeting notes from transcripts, preserving every specific number, date, and commitment."

// Config holds the summarization settings.
type Config struct {
	ModelID           string  `mapstructure:"model_id"`
	Temperature       float64 `mapstructure:"temperature" validate:"gte=0,lte=1"`
	MaxTokens         int     `mapstructure:"max_tokens" validate:"gte=0"`
	SystemPrompt      string  `mapstructure:"system_prompt"`
	InputBudgetTokens int     `mapstructure:"input_budget_tokens" validate:"gte=0"`
	MaxAttempts       int     `mapstructure:"max_attempts" validate:"gte=0"`
}

// ApplyDefaults fills unset fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Temperature == 0 {
		c.Temperature = 0.3
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = defaultSystemPrompt
	}
	if c.InputBudgetTokens == 0 {
		c.InputBudgetTokens = 10000
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
}

// Client produces meeting notes from transcripts.
type Client struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
	backoff  time.Duration
}

// NewClient creates a summarization client on top of an LLM provider.
func NewClient(provider llm.Provider, cfg Config, log *logger.Logger) *Client {
	cfg.ApplyDefaults()
	return &Client{
		provider: provider,
		cfg:      cfg,
		log:      log.WithComponent("summarize"),
		backoff:  2 * time.Second,
	}
}

// Summarize generates structured notes for the transcript. An empty
// transcript short-circuits to empty notes without a model call. Throttling
// and transient provider failures are retried with exponential backoff; when
// attempts are exhausted the last error is wrapped as a summarization
// failure so the caller can degrade to a transcript-only result.
func (c *Client) Summarize(ctx context.Context, transcript *transcription.Transcript) (*notes.MeetingNotes, error) {
	if transcript == nil || transcript.Empty() {
		c.log.Warn("transcript is empty, skipping summarization", nil)
		return &notes.MeetingNotes{}, nil
	}

	text, truncated := TruncateTranscript(transcript.PlainText, c.cfg.InputBudgetTokens)
	if truncated {
		c.log.Warn("transcript exceeds input budget, middle dropped", map[string]any{
			"tokens": EstimateTokens(transcript.PlainText),
			"budget": c.cfg.InputBudgetTokens,
		})
	}

	req := llm.CompletionRequest{
		Model:        c.cfg.ModelID,
		SystemPrompt: c.cfg.SystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: BuildPrompt(text)}},
		Temperature:  c.cfg.Temperature,
		MaxTokens:    c.cfg.MaxTokens,
	}

	retryCfg := resilience.RetryConfig{
		MaxAttempts:    c.cfg.MaxAttempts,
		InitialBackoff: c.backoff,
		MaxBackoff:     30 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         0.1,
		RetryIf:        apperrors.IsRetryable,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			c.log.Warn("model invocation failed, retrying", map[string]any{
				"attempt": attempt,
				"backoff": backoff.String(),
				"error":   err.Error(),
			})
		},
	}

	resp, err := resilience.Retry(ctx, retryCfg, func() (*llm.CompletionResponse, error) {
		return c.provider.Complete(ctx, req)
	})
	if err != nil {
		return nil, apperrors.Summarization(err)
	}

	c.log.Info("model response received", map[string]any{
		"model": resp.Model,
		"chars": len(resp.Content),
	})
	return ParseResponse(resp.Content), nil
}
