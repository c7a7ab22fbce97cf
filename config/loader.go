package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps the environment variables the app honors onto config
// keys. The AWS names match the standard SDK variables so existing
// credentials files keep working.
var envBindings = map[string]string{
	"aws.region":               "AWS_REGION",
	"aws.access_key":           "AWS_ACCESS_KEY_ID",
	"aws.secret_key":           "AWS_SECRET_ACCESS_KEY",
	"aws.s3_bucket":            "AWS_S3_BUCKET",
	"transcribe.provider":      "TRANSCRIBE_PROVIDER",
	"transcribe.language_code": "TRANSCRIBE_LANGUAGE_CODE",
	"transcribe.whisper.url":   "WHISPER_URL",
	"model.provider":           "MODEL_PROVIDER",
	"model.summarize.model_id": "BEDROCK_MODEL_ID",
	"model.ollama.base_url":    "OLLAMA_URL",
	"output.dir":               "OUTPUT_DIR",
	"logging.level":            "LOG_LEVEL",
}

// Load reads the configuration. Precedence, lowest to highest: YAML config
// file, .env file, process environment. Both file paths are optional; empty
// means search the working directory.
func Load(configFile, envFile string) (*Config, error) {
	if envFile == "" {
		if _, err := os.Stat(".env"); err == nil {
			envFile = ".env"
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("meetingscribe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
