package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientpkg "voice-whisper/internal/app/api/openai"
	apperrors "voice-whisper/internal/app/errors"
)

const chatResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "model": "gpt-3.5-turbo",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "  Great sentence! Try 'I went'.  "}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28}
}`

func newTestResponder(t *testing.T, handler http.HandlerFunc, config Config) *Responder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewResponder(clientpkg.NewClient("test-api-key", server.URL+"/v1", nil), config, nil)
}

func TestReplySendsSystemPromptAndTranscript(t *testing.T) {
	var req openai.ChatCompletionRequest
	var path string
	r := newTestResponder(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse))
	}, Config{SystemPrompt: "You're an English teacher helping students learn."})

	reply, err := r.Reply(context.Background(), "I goed to the store.")
	require.NoError(t, err)

	assert.Equal(t, "Great sentence! Try 'I went'.", reply)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, openai.GPT3Dot5Turbo, req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Equal(t, "You're an English teacher helping students learn.", req.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[1].Role)
	assert.Equal(t, "I goed to the store.", req.Messages[1].Content)
}

func TestReplyWithoutSystemPrompt(t *testing.T) {
	var req openai.ChatCompletionRequest
	r := newTestResponder(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse))
	}, Config{Model: "gpt-4o-mini"})

	_, err := r.Reply(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[0].Role)
}

func TestReplyFailures(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		reason apperrors.Reason
	}{
		{name: "bad key", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key","type":"invalid_request_error"}}`, reason: apperrors.ReasonAuth},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":{"message":"slow down","type":"requests"}}`, reason: apperrors.ReasonRateLimited},
		{name: "no choices", status: http.StatusOK, body: `{"id":"chatcmpl-2","choices":[]}`, reason: apperrors.ReasonService},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestResponder(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}, Config{})

			_, err := r.Reply(context.Background(), "hello")
			assert.ErrorIs(t, err, apperrors.ErrReply)
			assert.Equal(t, tc.reason, apperrors.ReasonOf(err))
		})
	}
}

func TestReplyEmptyTranscriptMakesNoRequest(t *testing.T) {
	called := false
	r := newTestResponder(t, func(w http.ResponseWriter, r *http.Request) { called = true }, Config{})

	_, err := r.Reply(context.Background(), "   ")
	assert.ErrorIs(t, err, apperrors.ErrReply)
	assert.False(t, called)
}
