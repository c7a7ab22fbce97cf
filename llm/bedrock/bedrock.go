package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"

	apperrors "github.com/kbukum/meetingscribe/errors"
	"github.com/kbukum/meetingscribe/llm"
	"github.com/kbukum/meetingscribe/logger"
)

const (
	// ProviderName is the registered name for the Bedrock provider.
	ProviderName = "bedrock"

	defaultModelID = "anthropic.claude-v2"
	defaultTimeout = 2 * time.Minute
)

// Config holds configuration for the Bedrock provider.
type Config struct {
	Region    string        `mapstructure:"region" validate:"required"`
	AccessKey string        `mapstructure:"access_key"`
	SecretKey string        `mapstructure:"secret_key"`
	ModelID   string        `mapstructure:"model_id"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ApplyDefaults fills unset fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ModelID == "" {
		c.ModelID = defaultModelID
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// api is the subset of the Bedrock runtime client the provider uses.
type api interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Provider implements llm.Provider using the AWS Bedrock runtime.
type Provider struct {
	client api
	cfg    Config
	log    *logger.Logger
}

// NewProvider creates a Bedrock LLM provider from the given config.
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
		return nil, fmt.Errorf("bedrock: load aws config: %w", err)
	}

	return newProvider(bedrockruntime.NewFromConfig(awsCfg), cfg, log), nil
}

func newProvider(client api, cfg Config, log *logger.Logger) *Provider {
	cfg.ApplyDefaults()
	return &Provider{
		client: client,
		cfg:    cfg,
		log:    log.WithComponent("llm.bedrock"),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the backend is configured.
func (p *Provider) IsAvailable(_ context.Context) bool {
	return p.client != nil && p.cfg.Region != ""
}

// Complete invokes the configured model once, bounded by Config.Timeout.
// Throttling, transient service failures, and a timed-out invocation come
// back as retryable errors so the caller's retry policy can act on them;
// everything else is terminal.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	modelID := p.cfg.ModelID
	if req.Model != "" {
		modelID = req.Model
	}

	body, err := buildInvokeBody(modelID, req)
	if err != nil {
		return nil, apperrors.ModelInvocation(modelID, err)
	}

	callCtx := ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	p.log.Debug("invoking model", map[string]any{"model": modelID, "body_bytes": len(body)})
	out, err := p.client.InvokeModel(callCtx, &bedrockruntime.InvokeModelInput{
		ModelId:     &modelID,
		ContentType: strPtr("application/json"),
		Accept:      strPtr("application/json"),
		Body:        body,
	})
	if err != nil {
		// Distinguish the per-call deadline from the caller's own context:
		// only the former becomes a retryable timeout error.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, apperrors.Unavailable("AWS Bedrock", err).
				WithDetail("model", modelID).
				WithDetail("timeout", p.cfg.Timeout.String())
		}
		return nil, classifyInvokeError(modelID, err)
	}

	content, err := parseInvokeBody(modelID, out.Body)
	if err != nil {
		return nil, apperrors.ModelInvocation(modelID, err)
	}

	return &llm.CompletionResponse{
		Content: strings.TrimSpace(content),
		Model:   modelID,
	}, nil
}

// classifyInvokeError maps service error codes onto the retryable and
// terminal error kinds.
func classifyInvokeError(modelID string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException":
			return apperrors.Throttled("AWS Bedrock", err)
		case "ServiceUnavailableException", "ModelTimeoutException",
			"ModelNotReadyException", "InternalServerException":
			return apperrors.Unavailable("AWS Bedrock", err)
		}
		return apperrors.ModelInvocation(modelID, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	// Transport-level failures are worth another attempt.
	return apperrors.Unavailable("AWS Bedrock", err)
}

// buildInvokeBody serializes the request in the dialect the model family
// expects.
func buildInvokeBody(modelID string, req llm.CompletionRequest) ([]byte, error) {
	prompt := req.UserText()
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + prompt
	}

	switch {
	case strings.HasPrefix(modelID, "anthropic."):
		return json.Marshal(map[string]any{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": req.MaxTokens,
			"temperature":          req.Temperature,
		})
	case strings.HasPrefix(modelID, "amazon.titan"):
		return json.Marshal(map[string]any{
			"inputText": prompt,
			"textGenerationConfig": map[string]any{
				"maxTokenCount": req.MaxTokens,
				"temperature":   req.Temperature,
				"topP":          0.9,
			},
		})
	default:
		return json.Marshal(map[string]any{
			"prompt":      prompt,
			"max_tokens":  req.MaxTokens,
			"temperature": req.Temperature,
		})
	}
}

// parseInvokeBody extracts the generated text from the model family's
// response shape.
func parseInvokeBody(modelID string, body []byte) (string, error) {
	switch {
	case strings.HasPrefix(modelID, "anthropic."):
		var resp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("decode anthropic response: %w", err)
		}
		return resp.Completion, nil
	case strings.HasPrefix(modelID, "amazon.titan"):
		var resp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("decode titan response: %w", err)
		}
		if len(resp.Results) == 0 {
			return "", fmt.Errorf("titan response has no results")
		}
		return resp.Results[0].OutputText, nil
	default:
		var resp struct {
			Generation string `json:"generation"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("decode model response: %w", err)
		}
		return resp.Generation, nil
	}
}

func strPtr(s string) *string { return &s }
