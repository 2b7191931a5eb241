package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "voice-whisper/internal/app/errors"
)

// Settings holds everything a run needs besides the credential itself.
type Settings struct {
	// Transcription request parameters
	Model          string   `yaml:"model" validate:"required"`
	Language       string   `yaml:"language" validate:"omitempty,min=2,max=8"`
	Temperature    *float32 `yaml:"temperature" validate:"required,gte=0,lte=1"`
	ResponseFormat string   `yaml:"response_format" validate:"oneof=json text srt vtt verbose_json"`
	Prompt         string   `yaml:"prompt,omitempty"`
	BaseURL        string   `yaml:"base_url,omitempty" validate:"omitempty,url"`
	APIKeyEnv      string   `yaml:"api_key_env" validate:"required"`

	// Transcoder
	FFmpegPath  string `yaml:"ffmpeg_path" validate:"required"`
	FFprobePath string `yaml:"ffprobe_path" validate:"required"`
	Bitrate     string `yaml:"bitrate,omitempty"`

	// Emitter
	OutputFormat string `yaml:"output_format" validate:"oneof=json text yaml table"`

	// Webhook server
	Server ServerSettings `yaml:"server"`
}

// ServerSettings configures the voice-message webhook.
type ServerSettings struct {
	Addr          string `yaml:"addr" validate:"required"`
	MediaDir      string `yaml:"media_dir,omitempty"`
	MaxMediaBytes int64  `yaml:"max_media_bytes" validate:"gt=0"`

	// Reply sends the transcript to a chat model and answers with its response.
	Reply       bool   `yaml:"reply"`
	ChatModel   string `yaml:"chat_model" validate:"required"`
	ReplyPrompt string `yaml:"reply_prompt,omitempty"`

	// SendText and SendVoice deliver the answer back to the sender through Twilio.
	SendText      bool   `yaml:"send_text"`
	SendVoice     bool   `yaml:"send_voice"`
	Voice         string `yaml:"voice" validate:"required"`
	VoiceLanguage string `yaml:"voice_language" validate:"required"`
}

// LoadSettings reads a YAML settings file. An empty path yields the defaults.
// String values of the form ${VAR} are replaced with the environment value.
func LoadSettings(path string) (*Settings, error) {
	settings := &Settings{}

	if path != "" {
		path = os.ExpandEnv(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.KindConfiguration, err, "failed to read settings file %s", path)
		}
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, apperrors.Wrapf(apperrors.KindConfiguration, err, "failed to parse settings file %s", path)
		}
		settings.expandEnvironmentVariables()
	}

	settings.setDefaults()

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// TemperatureValue returns the sampling temperature, falling back to the default.
func (s *Settings) TemperatureValue() float32 {
	if s.Temperature == nil {
		return DefaultTemperature
	}
	return *s.Temperature
}

// SetTemperature overrides the sampling temperature.
func (s *Settings) SetTemperature(t float32) {
	s.Temperature = &t
}

func (s *Settings) expandEnvironmentVariables() {
	for _, field := range []*string{&s.Model, &s.Language, &s.Prompt, &s.BaseURL, &s.FFmpegPath, &s.FFprobePath,
		&s.Server.Addr, &s.Server.MediaDir, &s.Server.ReplyPrompt} {
		value := *field
		if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
			*field = os.Getenv(strings.TrimSuffix(strings.TrimPrefix(value, "${"), "}"))
		}
	}
}

func (s *Settings) setDefaults() {
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.Temperature == nil {
		s.SetTemperature(DefaultTemperature)
	}
	if s.ResponseFormat == "" {
		s.ResponseFormat = DefaultResponseFormat
	}
	if s.APIKeyEnv == "" {
		s.APIKeyEnv = DefaultAPIKeyEnv
	}
	if s.FFmpegPath == "" {
		s.FFmpegPath = DefaultFFmpegPath
	}
	if s.FFprobePath == "" {
		s.FFprobePath = DefaultFFprobePath
	}
	if s.Bitrate == "" {
		s.Bitrate = DefaultBitrate
	}
	if s.OutputFormat == "" {
		s.OutputFormat = DefaultOutputFormat
	}

	if s.Server.Addr == "" {
		s.Server.Addr = DefaultServerAddr
	}
	if s.Server.MaxMediaBytes == 0 {
		s.Server.MaxMediaBytes = DefaultMaxMediaBytes
	}
	if s.Server.ChatModel == "" {
		s.Server.ChatModel = DefaultChatModel
	}
	if s.Server.ReplyPrompt == "" {
		s.Server.ReplyPrompt = DefaultReplyPrompt
	}
	if s.Server.Voice == "" {
		s.Server.Voice = DefaultVoice
	}
	if s.Server.VoiceLanguage == "" {
		s.Server.VoiceLanguage = DefaultVoiceLanguage
	}
}
