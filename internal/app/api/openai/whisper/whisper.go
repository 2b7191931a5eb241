package whisper

import (
	"context"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"voice-whisper/internal/app/api"
	clientpkg "voice-whisper/internal/app/api/openai"
	apperrors "voice-whisper/internal/app/errors"
	"voice-whisper/internal/app/model"
)

var _ api.Transcriber = (*RemoteTranscriber)(nil)

// Config holds the fixed request parameters sent with every upload.
type Config struct {
	Model          string
	Language       string
	Temperature    float32
	ResponseFormat string
	Prompt         string
}

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client *openai.Client
	config Config
	logger *zap.Logger
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, config Config, logger *zap.Logger) *RemoteTranscriber {
	if config.Model == "" {
		config.Model = openai.Whisper1
	}
	if config.ResponseFormat == "" {
		config.ResponseFormat = string(openai.AudioResponseFormatVerboseJSON)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteTranscriber{client: client, config: config, logger: logger}
}

// Transcribe uploads audio under name and blocks until the service answers.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, name string, audio io.Reader) (*model.Transcript, error) {
	req := openai.AudioRequest{
		Model:       rt.config.Model,
		FilePath:    name,
		Reader:      audio,
		Language:    rt.config.Language,
		Temperature: rt.config.Temperature,
		Prompt:      rt.config.Prompt,
		Format:      responseFormat(rt.config.ResponseFormat),
	}

	rt.logger.Info("uploading audio for transcription",
		zap.String("file", name),
		zap.String("model", req.Model),
		zap.String("language", req.Language),
		zap.Float32("temperature", req.Temperature),
	)

	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, clientpkg.ClassifyError(apperrors.KindTranscription, err, "OpenAI transcription request failed")
	}

	transcript := convertResponse(resp)
	transcript.Model = req.Model

	rt.logger.Info("transcription received",
		zap.String("language", transcript.Language),
		zap.Float64("duration_sec", transcript.Duration),
		zap.Int("segments", len(transcript.Segments)),
	)
	return transcript, nil
}

func responseFormat(format string) openai.AudioResponseFormat {
	switch strings.ToLower(format) {
	case "json":
		return openai.AudioResponseFormatJSON
	case "text":
		return openai.AudioResponseFormatText
	case "srt":
		return openai.AudioResponseFormatSRT
	case "vtt":
		return openai.AudioResponseFormatVTT
	default:
		return openai.AudioResponseFormatVerboseJSON
	}
}

func convertResponse(resp openai.AudioResponse) *model.Transcript {
	transcript := &model.Transcript{
		Task:     resp.Task,
		Language: resp.Language,
		Duration: resp.Duration,
		Text:     resp.Text,
	}
	for _, s := range resp.Segments {
		transcript.Segments = append(transcript.Segments, model.Segment{
			ID:               s.ID,
			Start:            s.Start,
			End:              s.End,
			Text:             s.Text,
			Temperature:      s.Temperature,
			AvgLogprob:       s.AvgLogprob,
			CompressionRatio: s.CompressionRatio,
			NoSpeechProb:     s.NoSpeechProb,
		})
	}
	for _, w := range resp.Words {
		transcript.Words = append(transcript.Words, model.Word{Word: w.Word, Start: w.Start, End: w.End})
	}
	return transcript
}
