package config

// Transcription defaults, matching the reference run: whisper-1, English, temperature 0.5.
const (
	DefaultModel          = "whisper-1"
	DefaultLanguage       = "en"
	DefaultTemperature    = 0.5
	DefaultResponseFormat = "verbose_json"

	DefaultFFmpegPath  = "ffmpeg"
	DefaultFFprobePath = "ffprobe"
	DefaultBitrate     = "64k"

	DefaultOutputFormat = "json"
)

// Webhook defaults.
const (
	DefaultServerAddr    = ":8080"
	DefaultMaxMediaBytes = 25 << 20
	DefaultChatModel     = "gpt-3.5-turbo"
	DefaultReplyPrompt   = "You're an English teacher helping students learn."
	DefaultVoice         = "Polly.Joanna"
	DefaultVoiceLanguage = "en-US"
)

// DefaultSettings returns the settings used when no config file is given.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.setDefaults()
	return s
}
