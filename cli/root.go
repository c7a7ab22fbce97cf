package cli

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/meetingscribe/version"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "meetingscribe",
		Short:         "Transcribe meeting audio and generate meeting notes",
		Long:          "meetingscribe uploads a meeting recording, transcribes it with speaker attribution, and turns the transcript into structured meeting notes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewInitCmd())

	return rootCmd
}
