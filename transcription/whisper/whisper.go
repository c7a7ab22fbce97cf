package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/meetingscribe/logger"
	"github.com/kbukum/meetingscribe/storage"
	"github.com/kbukum/meetingscribe/transcription"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultURL     = "http://localhost:8387"
	defaultModel   = "base"
	defaultTimeout = 10 * time.Minute
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	URL     string        `mapstructure:"url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ApplyDefaults fills unset fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements transcription.Provider using a faster-whisper sidecar.
// Audio is pulled back out of the storage backend and posted as multipart
// form data, so the sidecar needs no access to the bucket.
type Provider struct {
	cfg    Config
	store  storage.Storage
	client *http.Client
	log    *logger.Logger
}

// NewProvider creates a Whisper transcription provider.
func NewProvider(cfg Config, store storage.Storage, log *logger.Logger) *Provider {
	cfg.ApplyDefaults()
	return &Provider{
		cfg:    cfg,
		store:  store,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.WithComponent("transcription.whisper"),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the Whisper sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Transcribe posts the uploaded audio to the sidecar and converts its
// response into raw segments.
func (p *Provider) Transcribe(ctx context.Context, ref *storage.Ref, opts transcription.Options) (*transcription.RawResult, error) {
	if opts.EnableSpeakerLabels {
		p.log.Warn("speaker labels are not supported by whisper, continuing without them", map[string]any{"key": ref.Key})
	}

	audio, err := p.store.Download(ctx, ref.Key)
	if err != nil {
		return nil, fmt.Errorf("fetch audio %s: %w", ref.Key, err)
	}
	defer audio.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", ref.FileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}
	_ = writer.WriteField("model", p.cfg.Model)
	if lang := shortLanguage(opts.LanguageCode); lang != "" {
		_ = writer.WriteField("language", lang)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL+"/transcribe", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whisper error (status %d): %s", resp.StatusCode, string(body))
	}

	var result whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}
	return toRawResult(&result), nil
}

// shortLanguage maps a BCP 47 tag like "en-US" to the bare language code
// whisper expects.
func shortLanguage(code string) string {
	lang, _, _ := strings.Cut(code, "-")
	return strings.ToLower(lang)
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func toRawResult(resp *whisperResponse) *transcription.RawResult {
	segments := make([]transcription.RawSegment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = transcription.RawSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		}
	}
	return &transcription.RawResult{Segments: segments}
}
