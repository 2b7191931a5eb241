//go:build wireinject
// +build wireinject

package app

import (
	"io"

	"github.com/google/wire"
	"go.uber.org/zap"

	"voice-whisper/internal/api/server"
	"voice-whisper/internal/app/converter"
	"voice-whisper/internal/config"
	"voice-whisper/internal/downloader"
)

// InitializeConverter builds the full transcode, transcribe, print pipeline.
// It fails with a configuration error when the API key is not set.
func InitializeConverter(settings *config.Settings, stdout io.Writer, logger *zap.Logger,
	progress converter.ProgressConfig) (*converter.Converter, error) {
	wire.Build(transcoderSet, transcriptionSet, converter.NewConverter)
	return &converter.Converter{}, nil
}

// InitializeTranscodeOnly builds a converter that can only transcode; it needs no credentials.
func InitializeTranscodeOnly(settings *config.Settings, logger *zap.Logger,
	progress converter.ProgressConfig) *converter.Converter {
	wire.Build(transcoderSet, provideNoTranscriber, provideNoEmitter, converter.NewConverter)
	return &converter.Converter{}
}

// InitializeWebhookServer builds the voice message webhook. It fails with a configuration
// error when the OpenAI key or a needed Twilio variable is not set.
func InitializeWebhookServer(settings *config.Settings, logger *zap.Logger) (*server.Server, error) {
	wire.Build(webhookSet)
	return &server.Server{}, nil
}

// InitializeMediaFetcher builds the downloader for remote recordings. It authenticates
// with the Twilio account when its variables are set.
func InitializeMediaFetcher(settings *config.Settings, logger *zap.Logger) *downloader.Fetcher {
	wire.Build(provideTwilioCredentials, provideMediaFetcher)
	return &downloader.Fetcher{}
}
