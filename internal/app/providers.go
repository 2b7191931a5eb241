package app

import (
	"io"
	"time"

	"github.com/google/wire"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/twilio/twilio-go"
	"go.uber.org/zap"

	"voice-whisper/internal/api/handlers"
	"voice-whisper/internal/api/server"
	"voice-whisper/internal/app/api"
	"voice-whisper/internal/app/api/openai"
	"voice-whisper/internal/app/api/openai/chat"
	"voice-whisper/internal/app/api/openai/whisper"
	"voice-whisper/internal/app/audio"
	"voice-whisper/internal/app/converter"
	"voice-whisper/internal/app/notify"
	"voice-whisper/internal/app/output"
	"voice-whisper/internal/config"
	"voice-whisper/internal/downloader"
)

// APIKey is the credential read from the environment.
type APIKey string

// provideAPIKey fails before any client is built when the credential is missing.
func provideAPIKey(settings *config.Settings) (APIKey, error) {
	key, err := config.RequireAPIKey(settings.APIKeyEnv)
	if err != nil {
		return "", err
	}
	return APIKey(key), nil
}

func provideOpenAIClient(key APIKey, settings *config.Settings) *goopenai.Client {
	return openai.NewClient(string(key), settings.BaseURL, nil)
}

func provideRemoteTranscriber(client *goopenai.Client, settings *config.Settings, logger *zap.Logger) api.Transcriber {
	return whisper.NewRemoteTranscriber(client, whisper.Config{
		Model:          settings.Model,
		Language:       settings.Language,
		Temperature:    settings.TemperatureValue(),
		ResponseFormat: settings.ResponseFormat,
		Prompt:         settings.Prompt,
	}, logger.Named("whisper"))
}

func provideTranscoder(settings *config.Settings, logger *zap.Logger) *audio.Transcoder {
	return audio.NewTranscoder(
		audio.WithBinaries(settings.FFmpegPath, settings.FFprobePath),
		audio.WithBitrate(settings.Bitrate),
		audio.WithLogger(logger.Named("audio")),
	)
}

func provideEmitter(stdout io.Writer, settings *config.Settings) (*output.Emitter, error) {
	format, err := output.ParseFormat(settings.OutputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewEmitter(stdout, format), nil
}

// Transcode-only runs never reach the service or print a transcript.
func provideNoTranscriber() api.Transcriber { return nil }

func provideNoEmitter() converter.TranscriptEmitter { return nil }

// provideTwilioCredentials reads whatever Twilio variables are set; downloads
// authenticate only when both the SID and the token are present.
func provideTwilioCredentials() config.TwilioCredentials {
	return config.LookupTwilioCredentials()
}

// provideWebhookCredentials needs the account credentials for media downloads, and the
// sender number when replies are sent.
func provideWebhookCredentials(settings *config.Settings) (config.TwilioCredentials, error) {
	creds := config.LookupTwilioCredentials()
	if settings.Server.SendText || settings.Server.SendVoice {
		return creds, creds.RequireSender()
	}
	return creds, creds.RequireAuth()
}

func provideMediaFetcher(settings *config.Settings, creds config.TwilioCredentials, logger *zap.Logger) *downloader.Fetcher {
	opts := []downloader.Option{
		downloader.WithMaxBytes(settings.Server.MaxMediaBytes),
		downloader.WithLogger(logger.Named("downloader")),
	}
	if creds.HasAuth() {
		opts = append(opts, downloader.WithBasicAuth(creds.AccountSID, creds.AuthToken))
	}
	return downloader.NewFetcher(opts...)
}

// provideResponder returns nil when chat replies are disabled.
func provideResponder(client *goopenai.Client, settings *config.Settings, logger *zap.Logger) api.Responder {
	if !settings.Server.Reply {
		return nil
	}
	return chat.NewResponder(client, chat.Config{
		Model:        settings.Server.ChatModel,
		SystemPrompt: settings.Server.ReplyPrompt,
	}, logger.Named("chat"))
}

// provideReplySender returns nil when neither text nor voice replies are enabled.
func provideReplySender(settings *config.Settings, creds config.TwilioCredentials, logger *zap.Logger) handlers.ReplySender {
	if !settings.Server.SendText && !settings.Server.SendVoice {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: creds.AccountSID,
		Password: creds.AuthToken,
	})
	return notify.NewNotifier(client.Api, notify.Config{
		From:          creds.PhoneNumber,
		Voice:         settings.Server.Voice,
		VoiceLanguage: settings.Server.VoiceLanguage,
	}, logger.Named("notify"))
}

func provideVoiceHandler(fetcher handlers.MediaFetcher, pipeline handlers.TranscriptionPipeline,
	responder api.Responder, sender handlers.ReplySender, settings *config.Settings, logger *zap.Logger) *handlers.VoiceHandler {
	return handlers.NewVoiceHandler(fetcher, pipeline, responder, sender, handlers.VoiceConfig{
		MediaDir:  settings.Server.MediaDir,
		SendText:  settings.Server.SendText,
		SendVoice: settings.Server.SendVoice,
	}, logger.Named("webhook"))
}

func provideServerConfig(settings *config.Settings, logger *zap.Logger) server.Config {
	return server.Config{
		Addr:         settings.Server.Addr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
		Debug:        logger.Core().Enabled(zap.DebugLevel),
	}
}

// The webhook never draws progress bars.
func provideNoProgress() converter.ProgressConfig { return converter.ProgressConfig{} }

var transcoderSet = wire.NewSet(
	provideTranscoder,
	converter.NewProgressManager,
	wire.Bind(new(converter.AudioTranscoder), new(*audio.Transcoder)),
)

var openAISet = wire.NewSet(
	provideAPIKey,
	provideOpenAIClient,
	provideRemoteTranscriber,
)

var transcriptionSet = wire.NewSet(
	openAISet,
	provideEmitter,
	wire.Bind(new(converter.TranscriptEmitter), new(*output.Emitter)),
)

var webhookSet = wire.NewSet(
	transcoderSet,
	openAISet,
	provideNoEmitter,
	provideNoProgress,
	converter.NewConverter,
	provideWebhookCredentials,
	provideMediaFetcher,
	provideResponder,
	provideReplySender,
	provideVoiceHandler,
	provideServerConfig,
	server.NewServer,
	wire.Bind(new(handlers.MediaFetcher), new(*downloader.Fetcher)),
	wire.Bind(new(handlers.TranscriptionPipeline), new(*converter.Converter)),
)
