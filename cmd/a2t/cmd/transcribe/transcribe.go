package transcribe

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"voice-whisper/cmd/a2t/cmd/common"
	"voice-whisper/internal/app"
	"voice-whisper/internal/app/converter"
	apperrors "voice-whisper/internal/app/errors"
	"voice-whisper/internal/config"
)

var (
	paths       common.TranscoderFlags
	format      string
	model       string
	language    string
	temperature float32
	prompt      string
	progress    bool
	mediaURL    string
	mediaDir    string
)

func init() {
	paths.Bind(Cmd)
	Cmd.Flags().StringVar(&format, "format", config.DefaultOutputFormat, "output format: json, text, yaml or table")
	Cmd.Flags().StringVar(&model, "model", config.DefaultModel, "transcription model")
	Cmd.Flags().StringVar(&language, "language", config.DefaultLanguage, "spoken language, ISO-639-1")
	Cmd.Flags().Float32Var(&temperature, "temperature", config.DefaultTemperature, "sampling temperature between 0 and 1")
	Cmd.Flags().StringVar(&prompt, "prompt", "", "optional text to guide the transcription style")
	Cmd.Flags().BoolVar(&progress, "progress", false, "show stage progress on stderr when it is a terminal")
	Cmd.Flags().StringVar(&mediaURL, "url", "", "download the source recording from this http(s) url instead of reading --input")
	Cmd.Flags().StringVar(&mediaDir, "media-dir", "", "keep downloaded recordings in this directory (default: a temporary directory)")
	Cmd.MarkFlagsOneRequired("input", "url")
	Cmd.MarkFlagsMutuallyExclusive("input", "url")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcode an audio file, transcribe it and print the transcript",
	Long: `Transcode an audio file, transcribe it and print the transcript

- The input is converted to the output path (MP3 by default) with ffmpeg
- The converted file is uploaded to the OpenAI transcription endpoint
- The full response is printed on stdout; OPENAI_API_KEY must be set
- With --url the recording is downloaded first, using TWILIO_ACCOUNT_SID and
  TWILIO_AUTH_TOKEN as basic auth when both are set`,
	Example: `  a2t transcribe -i voice-message.ogg
  a2t transcribe -i voice-message.ogg -o /tmp/voice.mp3 --format text
  a2t transcribe --url https://api.twilio.com/2010-04-01/Accounts/AC.../Media/ME...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := common.LoadValidSettings(func(settings *config.Settings) {
			applyFlags(cmd, settings)
		})
		if err != nil {
			return err
		}

		logger, err := common.NewLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		c, err := app.InitializeConverter(settings, cmd.OutOrStdout(), logger, converter.ProgressConfig{
			Enabled: converter.ShouldShowProgress(progress, os.Stderr),
			Writer:  os.Stderr,
		})
		if err != nil {
			return err
		}
		defer c.Close()

		job := converter.Job{Source: paths.Input, Target: paths.Output}
		if mediaURL != "" {
			source, cleanup, err := download(cmd.Context(), app.InitializeMediaFetcher(settings, logger))
			if err != nil {
				return err
			}
			defer cleanup()
			job.Source = source
		}
		return c.Run(cmd.Context(), job)
	},
}

type fetcher interface {
	Fetch(ctx context.Context, rawURL, dir string) (string, error)
}

// download fetches --url into --media-dir, or into a temporary directory that cleanup removes.
func download(ctx context.Context, f fetcher) (string, func(), error) {
	dir, cleanup := mediaDir, func() {}
	if dir == "" {
		tmp, err := os.MkdirTemp("", "a2t-media-")
		if err != nil {
			return "", nil, apperrors.Wrap(apperrors.KindIO, err, "cannot create download directory")
		}
		dir, cleanup = tmp, func() { os.RemoveAll(tmp) }
	}

	source, err := f.Fetch(ctx, mediaURL, dir)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return source, cleanup, nil
}

// applyFlags overrides file settings with the flags given on the command line.
func applyFlags(cmd *cobra.Command, settings *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		settings.OutputFormat = format
	}
	if flags.Changed("model") {
		settings.Model = model
	}
	if flags.Changed("language") {
		settings.Language = language
	}
	if flags.Changed("temperature") {
		settings.SetTemperature(temperature)
	}
	if flags.Changed("prompt") {
		settings.Prompt = prompt
	}
}
