package awstranscribe

import "time"

const (
	// ProviderName is the registered name for the AWS Transcribe backend.
	ProviderName = "aws"

	defaultPollInterval = 5 * time.Second
	defaultMaxWait      = 30 * time.Minute
	defaultHTTPTimeout  = 60 * time.Second
)

// Config holds configuration for the AWS Transcribe backend. Credentials are
// passed explicitly; the backend never reads ambient environment state.
type Config struct {
	// Region is the AWS region.
	Region string `mapstructure:"region" validate:"required"`
	// AccessKey is the AWS access key ID. Empty falls back to the default
	// AWS credential chain.
	AccessKey string `mapstructure:"access_key"`
	// SecretKey is the AWS secret access key.
	SecretKey string `mapstructure:"secret_key"`
	// PollInterval is the delay between job status polls.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// MaxWait bounds the total time spent waiting for job completion.
	// Exceeding it abandons the local wait; the remote job keeps running.
	MaxWait time.Duration `mapstructure:"max_wait"`
	// HTTPTimeout bounds the transcript payload download.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.MaxWait <= 0 {
		c.MaxWait = defaultMaxWait
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
}
