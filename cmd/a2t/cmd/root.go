package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"voice-whisper/cmd/a2t/cmd/common"
	"voice-whisper/cmd/a2t/cmd/convert"
	"voice-whisper/cmd/a2t/cmd/serve"
	"voice-whisper/cmd/a2t/cmd/transcribe"
	"voice-whisper/cmd/a2t/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "a2t",
	Short: "Transcode a voice message and transcribe it with OpenAI Whisper",
	Long: `Transcode a voice message and transcribe it with OpenAI Whisper.
- The source recording (e.g. an Ogg/Opus voice message) is re-encoded with ffmpeg
- The result is uploaded to the OpenAI speech-to-text API
- The transcript is printed on stdout`,
	TraverseChildren: true,
	SilenceUsage:     true,
	SilenceErrors:    true,
}

// Execute runs the command tree with args. Errors are returned to main, which picks the exit status.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

// Root returns the command tree.
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(convert.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&common.Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&common.ConfigPath, "config", "", "YAML settings file")
}
