package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const sampleEnv = `# AWS credentials (required for AWS Transcribe and Bedrock)
AWS_ACCESS_KEY_ID=your_access_key_here
AWS_SECRET_ACCESS_KEY=your_secret_key_here
AWS_REGION=us-east-1
AWS_S3_BUCKET=your-bucket-name

# Summarization model
BEDROCK_MODEL_ID=anthropic.claude-v2

# Offline backends (used when provider is whisper/ollama)
# TRANSCRIBE_PROVIDER=whisper
# WHISPER_URL=http://localhost:8387
# MODEL_PROVIDER=ollama
# OLLAMA_URL=http://localhost:11434
`

// NewInitCmd builds the command that writes a sample .env file.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a sample .env file in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Never overwrite existing credentials.
			if _, err := os.Stat(".env"); err == nil {
				fmt.Println(".env file already exists, skipping")
				return nil
			}
			if err := os.WriteFile(".env", []byte(sampleEnv), 0o600); err != nil {
				return fmt.Errorf("write .env: %w", err)
			}
			fmt.Println("Created sample .env file. Update it with your credentials.")
			return nil
		},
	}
}
