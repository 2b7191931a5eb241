package serve

import (
	"github.com/spf13/cobra"

	"voice-whisper/cmd/a2t/cmd/common"
	"voice-whisper/internal/app"
	"voice-whisper/internal/config"
)

var (
	addr      string
	mediaDir  string
	reply     bool
	sendText  bool
	sendVoice bool
)

func init() {
	Cmd.Flags().StringVar(&addr, "addr", config.DefaultServerAddr, "listen address")
	Cmd.Flags().StringVar(&mediaDir, "media-dir", "", "directory for downloaded recordings (default: the system temp directory)")
	Cmd.Flags().BoolVar(&reply, "reply", false, "answer each transcript with a chat model")
	Cmd.Flags().BoolVar(&sendText, "send-text", false, "send the answer back as a WhatsApp message")
	Cmd.Flags().BoolVar(&sendVoice, "send-voice", false, "call the sender and read the answer aloud")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a webhook that transcribes incoming WhatsApp voice messages",
	Long: `Serve a webhook that transcribes incoming WhatsApp voice messages

- POST /whatsapp/voice takes a Twilio form with MediaUrl0 and From
- The media is downloaded with TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN, transcoded and transcribed
- With --reply a chat model answers the transcript
- With --send-text or --send-voice the answer goes back to the sender from TWILIO_PHONE_NUMBER
- GET /health reports liveness`,
	Example: `  a2t serve --addr :8080
  a2t serve --reply --send-text --send-voice`,
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

		s, err := app.InitializeWebhookServer(settings, logger)
		if err != nil {
			return err
		}
		return s.Run(cmd.Context())
	},
}

func applyFlags(cmd *cobra.Command, settings *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		settings.Server.Addr = addr
	}
	if flags.Changed("media-dir") {
		settings.Server.MediaDir = mediaDir
	}
	if flags.Changed("reply") {
		settings.Server.Reply = reply
	}
	if flags.Changed("send-text") {
		settings.Server.SendText = sendText
	}
	if flags.Changed("send-voice") {
		settings.Server.SendVoice = sendVoice
	}
}
