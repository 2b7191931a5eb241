package chat

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"voice-whisper/internal/app/api"
	clientpkg "voice-whisper/internal/app/api/openai"
	apperrors "voice-whisper/internal/app/errors"
)

var _ api.Responder = (*Responder)(nil)

type Config struct {
	Model        string
	SystemPrompt string
}

// Responder asks a chat model to answer a transcript.
type Responder struct {
	client *openai.Client
	config Config
	logger *zap.Logger
}

func NewResponder(client *openai.Client, config Config, logger *zap.Logger) *Responder {
	if config.Model == "" {
		config.Model = openai.GPT3Dot5Turbo
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Responder{client: client, config: config, logger: logger}
}

// Reply sends message as the user turn, after the system prompt when one is set.
func (r *Responder) Reply(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperrors.New(apperrors.KindReply, "nothing to reply to: transcript is empty")
	}

	var messages []openai.ChatCompletionMessage
	if r.config.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: r.config.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    r.config.Model,
		Messages: messages,
	})
	if err != nil {
		return "", clientpkg.ClassifyError(apperrors.KindReply, err, "OpenAI chat request failed")
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Remote(apperrors.KindReply, apperrors.ReasonService, nil, "chat response has no choices")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	r.logger.Debug("reply generated",
		zap.String("model", resp.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Int("reply_length", len(reply)),
	)
	return reply, nil
}
