package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/meetingscribe/config"
	"github.com/kbukum/meetingscribe/llm"
	"github.com/kbukum/meetingscribe/llm/bedrock"
	"github.com/kbukum/meetingscribe/llm/ollama"
	"github.com/kbukum/meetingscribe/logger"
	"github.com/kbukum/meetingscribe/notes"
	"github.com/kbukum/meetingscribe/pipeline"
	"github.com/kbukum/meetingscribe/storage"
	"github.com/kbukum/meetingscribe/storage/local"
	"github.com/kbukum/meetingscribe/storage/s3"
	"github.com/kbukum/meetingscribe/summarize"
	"github.com/kbukum/meetingscribe/transcription"
	"github.com/kbukum/meetingscribe/transcription/awstranscribe"
	"github.com/kbukum/meetingscribe/transcription/whisper"
)

// NewRunCmd builds the command that processes one audio file end to end.
func NewRunCmd() *cobra.Command {
	var (
		configFile    string
		envFile       string
		outputDir     string
		meetingDate   string
		baseName      string
		speakerLabels bool
		deleteUpload  bool
	)

	cmd := &cobra.Command{
		Use:   "run <audio-file>",
		Short: "Transcribe an audio file and write meeting notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("speaker-labels") {
				cfg.Transcribe.EnableSpeakerLabels = speakerLabels
			}
			if outputDir != "" {
				cfg.Output.Dir = outputDir
			}
			if deleteUpload {
				cfg.Output.DeleteUpload = true
			}

			date := time.Now()
			if meetingDate != "" {
				date, err = time.Parse("2006-01-02", meetingDate)
				if err != nil {
					return fmt.Errorf("invalid --meeting-date %q, want YYYY-MM-DD", meetingDate)
				}
			} else if info, err := os.Stat(args[0]); err == nil {
				// Default the notes title to when the recording was made.
				date = info.ModTime()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runPipeline(ctx, cfg, args[0], date, baseName)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to a .env file")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for generated files")
	cmd.Flags().StringVar(&meetingDate, "meeting-date", "", "Meeting date for the notes title (YYYY-MM-DD, default: audio file mtime)")
	cmd.Flags().StringVar(&baseName, "base-name", "", "Output file prefix (default: audio file name)")
	cmd.Flags().BoolVar(&speakerLabels, "speaker-labels", true, "Enable speaker diarization")
	cmd.Flags().BoolVar(&deleteUpload, "delete-upload", false, "Remove the uploaded object when the run finishes")

	return cmd
}

func runPipeline(ctx context.Context, cfg *config.Config, audioPath string, meetingDate time.Time, baseName string) error {
	log := logger.New(&cfg.Logging, "meetingscribe")

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	transcriber, err := buildTranscriber(ctx, cfg, store, log)
	if err != nil {
		return err
	}
	provider, err := buildLLM(ctx, cfg, log)
	if err != nil {
		return err
	}

	runner := &pipeline.Runner{
		Gateway:     storage.NewGateway(store, log),
		Transcriber: transcriber,
		Summarizer:  summarize.NewClient(provider, cfg.Model.Summarize, log),
		Formatter:   notes.NewFormatter(log),
		Log:         log,
		OnProgress: func(stage string, fraction float64, message string) {
			fmt.Printf("[%3.0f%%] %s: %s\n", fraction*100, stage, message)
		},
	}
	if cfg.Model.FallbackExtractive {
		runner.Fallback = summarize.Extractive
	}

	result, err := runner.Run(ctx, pipeline.Request{
		AudioPath: audioPath,
		Options: transcription.Options{
			LanguageCode:        cfg.Transcribe.LanguageCode,
			EnableSpeakerLabels: cfg.Transcribe.EnableSpeakerLabels,
			MaxSpeakers:         cfg.Transcribe.MaxSpeakers,
		},
		MeetingDate:  meetingDate,
		OutputDir:    cfg.Output.Dir,
		BaseName:     baseName,
		DeleteUpload: cfg.Output.DeleteUpload,
	})
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	fmt.Printf("\ntranscript: %s\n", result.Paths.Transcript)
	if result.Paths.SpeakerTranscript != "" {
		fmt.Printf("speaker transcript: %s\n", result.Paths.SpeakerTranscript)
	}
	if result.Paths.Notes != "" {
		fmt.Printf("meeting notes: %s\n", result.Paths.Notes)
	}
	if result.FailedStage != "" {
		fmt.Fprintf(os.Stderr, "completed with degraded stage: %s\n", result.FailedStage)
	}
	return nil
}

func buildStore(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	// The AWS backends need the audio in S3; whisper pulls it back out of
	// whatever store holds it, so offline runs use the local backend.
	if cfg.Transcribe.Provider == whisper.ProviderName {
		return local.NewStorage(filepath.Join(os.TempDir(), "meetingscribe"))
	}
	return s3.NewStorage(ctx, s3.Config{
		Bucket:    cfg.AWS.S3Bucket,
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKey,
		SecretKey: cfg.AWS.SecretKey,
	})
}

func buildTranscriber(ctx context.Context, cfg *config.Config, store storage.Storage, log *logger.Logger) (transcription.Provider, error) {
	registry := transcription.NewRegistry()
	registry.Register(whisper.NewProvider(cfg.Transcribe.Whisper, store, log))
	if cfg.AWS.Region != "" {
		aws, err := awstranscribe.NewProvider(ctx, cfg.TranscribeProviderConfig(), log)
		if err != nil {
			return nil, err
		}
		registry.Register(aws)
	}
	return registry.Get(cfg.Transcribe.Provider)
}

func buildLLM(ctx context.Context, cfg *config.Config, log *logger.Logger) (llm.Provider, error) {
	registry := llm.NewRegistry()
	registry.Register(ollama.NewProvider(cfg.Model.Ollama))
	if cfg.AWS.Region != "" {
		br, err := bedrock.NewProvider(ctx, cfg.BedrockConfig(), log)
		if err != nil {
			return nil, err
		}
		registry.Register(br)
	}
	return registry.Get(cfg.Model.Provider)
}
