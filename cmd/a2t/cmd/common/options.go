package common

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appcommon "voice-whisper/internal/app/common"
	"voice-whisper/internal/config"
)

// Flags shared by every subcommand, bound by the root command.
var (
	Verbose    bool
	ConfigPath string
)

// TranscoderFlags are the flags both transcribe and convert accept.
type TranscoderFlags struct {
	Input  string
	Output string
}

func (f *TranscoderFlags) Bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Input, "input", "i", "", "source audio file, e.g. ./voice-message.ogg")
	cmd.Flags().StringVarP(&f.Output, "output", "o", "",
		"transcoded file; the extension picks the format (default: input with .mp3 extension)")
}

// LoadSettings reads --config, if given, on top of the defaults.
func LoadSettings() (*config.Settings, error) {
	return config.LoadSettings(ConfigPath)
}

func NewLogger() (*zap.Logger, error) {
	return appcommon.NewLogger(Verbose)
}

// LoadValidSettings loads the settings, lets override adjust them and validates the result.
func LoadValidSettings(override func(*config.Settings)) (*config.Settings, error) {
	settings, err := LoadSettings()
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(settings)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
