package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "voice-whisper/internal/app/errors"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a2t.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, "whisper-1", settings.Model)
	assert.Equal(t, "en", settings.Language)
	assert.InDelta(t, 0.5, settings.TemperatureValue(), 1e-6)
	assert.Equal(t, "verbose_json", settings.ResponseFormat)
	assert.Equal(t, DefaultAPIKeyEnv, settings.APIKeyEnv)
	assert.Equal(t, "ffmpeg", settings.FFmpegPath)
	assert.Equal(t, "ffprobe", settings.FFprobePath)
	assert.Equal(t, "json", settings.OutputFormat)
}

func TestLoadSettingsFromFile(t *testing.T) {
	t.Setenv("A2T_TEST_PROMPT", "Voice message from a customer.")
	path := writeSettings(t, `
model: whisper-1
language: de
temperature: 0
response_format: json
prompt: ${A2T_TEST_PROMPT}
base_url: https://proxy.example.com/v1
ffmpeg_path: /opt/ffmpeg/bin/ffmpeg
output_format: yaml
`)

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "de", settings.Language)
	assert.Equal(t, float32(0), settings.TemperatureValue(), "explicit zero is kept")
	assert.Equal(t, "json", settings.ResponseFormat)
	assert.Equal(t, "Voice message from a customer.", settings.Prompt)
	assert.Equal(t, "https://proxy.example.com/v1", settings.BaseURL)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", settings.FFmpegPath)
	assert.Equal(t, "ffprobe", settings.FFprobePath)
	assert.Equal(t, "yaml", settings.OutputFormat)
}

func TestLoadSettingsErrors(t *testing.T) {
	testCases := []struct {
		name          string
		content       string
		missing       bool
		errorContains string
	}{
		{
			name:          "missing file",
			missing:       true,
			errorContains: "failed to read settings file",
		},
		{
			name:          "malformed yaml",
			content:       "model: [unterminated",
			errorContains: "failed to parse settings file",
		},
		{
			name:          "temperature out of range",
			content:       "temperature: 1.5",
			errorContains: "temperature must be between 0.0 and 1.0",
		},
		{
			name:          "unknown response format",
			content:       "response_format: xml",
			errorContains: "responseformat must be one of",
		},
		{
			name:          "unknown output format",
			content:       "output_format: csv",
			errorContains: "outputformat must be one of",
		},
		{
			name:          "invalid base url",
			content:       "base_url: not a url",
			errorContains: "baseurl must be a valid URL",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.yaml")
			if !tc.missing {
				path = writeSettings(t, tc.content)
			}

			_, err := LoadSettings(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConfiguration)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}
}

func TestDefaultSettingsAreValid(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())
}

func TestLoadSettingsServerSection(t *testing.T) {
	defaults, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", defaults.Server.Addr)
	assert.Equal(t, int64(25<<20), defaults.Server.MaxMediaBytes)
	assert.Equal(t, "gpt-3.5-turbo", defaults.Server.ChatModel)
	assert.Equal(t, DefaultReplyPrompt, defaults.Server.ReplyPrompt)
	assert.False(t, defaults.Server.Reply)

	t.Setenv("A2T_TEST_ADDR", "127.0.0.1:9000")
	path := writeSettings(t, `
server:
  addr: ${A2T_TEST_ADDR}
  reply: true
  send_text: true
  chat_model: gpt-4
  voice: Polly.Amy
`)
	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", settings.Server.Addr)
	assert.True(t, settings.Server.Reply)
	assert.True(t, settings.Server.SendText)
	assert.False(t, settings.Server.SendVoice)
	assert.Equal(t, "gpt-4", settings.Server.ChatModel)
	assert.Equal(t, "Polly.Amy", settings.Server.Voice)
	assert.Equal(t, "en-US", settings.Server.VoiceLanguage)
}

func TestLoadSettingsInvalidServerSection(t *testing.T) {
	path := writeSettings(t, `
server:
  max_media_bytes: -1
`)
	_, err := LoadSettings(path)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.Contains(t, err.Error(), "server.maxmediabytes must be positive")
}
