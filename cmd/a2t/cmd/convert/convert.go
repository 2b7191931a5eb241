package convert

import (
	"fmt"

	"github.com/spf13/cobra"

	"voice-whisper/cmd/a2t/cmd/common"
	"voice-whisper/internal/app"
	"voice-whisper/internal/app/converter"
)

var paths common.TranscoderFlags

func init() {
	paths.Bind(Cmd)
	Cmd.MarkFlagRequired("input")
}

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Only transcode an audio file, without transcribing it",
	Long: `Only transcode an audio file, without transcribing it

- The output extension selects the codec: mp3, ogg, webm, m4a, wav or flac
- No API key is needed
- The written path is printed on stdout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := common.LoadSettings()
		if err != nil {
			return err
		}
		logger, err := common.NewLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		c := app.InitializeTranscodeOnly(settings, logger, converter.ProgressConfig{})
		defer c.Close()

		target, err := c.Convert(cmd.Context(), converter.Job{Source: paths.Input, Target: paths.Output})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), target)
		return err
	},
}
