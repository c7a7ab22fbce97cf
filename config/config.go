package config

import (
	"time"

	"github.com/kbukum/meetingscribe/llm/bedrock"
	"github.com/kbukum/meetingscribe/llm/ollama"
	"github.com/kbukum/meetingscribe/logger"
	"github.com/kbukum/meetingscribe/summarize"
	apptranscribe "github.com/kbukum/meetingscribe/transcription/awstranscribe"
	"github.com/kbukum/meetingscribe/transcription/whisper"
	"github.com/kbukum/meetingscribe/validation"
)

// AWSConfig holds the credentials and region shared by the AWS backends.
type AWSConfig struct {
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	S3Bucket  string `mapstructure:"s3_bucket"`
}

// TranscribeConfig selects and tunes the transcription backend.
type TranscribeConfig struct {
	Provider            string         `mapstructure:"provider" validate:"oneof=aws whisper"`
	LanguageCode        string         `mapstructure:"language_code"`
	EnableSpeakerLabels bool           `mapstructure:"enable_speaker_labels"`
	MaxSpeakers         int            `mapstructure:"max_speakers" validate:"gte=0"`
	PollInterval        time.Duration  `mapstructure:"poll_interval"`
	MaxWait             time.Duration  `mapstructure:"max_wait"`
	Whisper             whisper.Config `mapstructure:"whisper"`
}

// ModelConfig selects and tunes the summarization backend.
type ModelConfig struct {
	Provider           string           `mapstructure:"provider" validate:"oneof=bedrock ollama"`
	FallbackExtractive bool             `mapstructure:"fallback_extractive"`
	Summarize          summarize.Config `mapstructure:"summarize"`
	Ollama             ollama.Config    `mapstructure:"ollama"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir          string `mapstructure:"dir"`
	DeleteUpload bool   `mapstructure:"delete_upload"`
}

// Config is the full application configuration.
type Config struct {
	Logging    logger.Config    `mapstructure:"logging"`
	AWS        AWSConfig        `mapstructure:"aws"`
	Transcribe TranscribeConfig `mapstructure:"transcribe"`
	Model      ModelConfig      `mapstructure:"model"`
	Output     OutputConfig     `mapstructure:"output"`
}

// ApplyDefaults fills unset fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	if c.Transcribe.Provider == "" {
		c.Transcribe.Provider = apptranscribe.ProviderName
	}
	if c.Transcribe.LanguageCode == "" {
		c.Transcribe.LanguageCode = "en-US"
	}
	if c.Transcribe.MaxSpeakers == 0 {
		c.Transcribe.MaxSpeakers = 10
	}
	c.Transcribe.Whisper.ApplyDefaults()
	if c.Model.Provider == "" {
		c.Model.Provider = bedrock.ProviderName
	}
	c.Model.Summarize.ApplyDefaults()
	c.Model.Ollama.ApplyDefaults()
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	return validation.Struct(c)
}

// TranscribeProviderConfig assembles the AWS Transcribe backend settings
// from the shared AWS section and the transcribe tuning knobs.
func (c *Config) TranscribeProviderConfig() apptranscribe.Config {
	return apptranscribe.Config{
		Region:       c.AWS.Region,
		AccessKey:    c.AWS.AccessKey,
		SecretKey:    c.AWS.SecretKey,
		PollInterval: c.Transcribe.PollInterval,
		MaxWait:      c.Transcribe.MaxWait,
	}
}

// BedrockConfig assembles the Bedrock backend settings.
func (c *Config) BedrockConfig() bedrock.Config {
	return bedrock.Config{
		Region:    c.AWS.Region,
		AccessKey: c.AWS.AccessKey,
		SecretKey: c.AWS.SecretKey,
		ModelID:   c.Model.Summarize.ModelID,
	}
}
