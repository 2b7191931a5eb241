package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	apperrors "voice-whisper/internal/app/errors"
)

// DefaultAPIKeyEnv is the variable holding the transcription service credential.
const DefaultAPIKeyEnv = "OPENAI_API_KEY"

// DefaultEnvPaths are searched in order; the first existing file wins.
var DefaultEnvPaths = []string{
	".env",
	".env.local",
	"../.env",
}

// LoadEnv loads environment variables from the first .env file that exists.
// Variables already present in the process environment are left untouched.
// It returns the path that was loaded, or "" when no file was found.
func LoadEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = DefaultEnvPaths
	}

	// Look for .env file, but don't fail if not found (environment variables might be set system-wide)
	for _, envPath := range paths {
		info, err := os.Stat(envPath)
		if err != nil || info.IsDir() {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return "", apperrors.Wrapf(apperrors.KindConfiguration, err, "error loading %s file", envPath)
		}
		return envPath, nil
	}

	return "", nil
}

// RequireAPIKey returns the credential stored in the named variable.
// An absent or blank value is a configuration error.
func RequireAPIKey(name string) (string, error) {
	if name == "" {
		name = DefaultAPIKeyEnv
	}
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", apperrors.Newf(apperrors.KindConfiguration,
			"%s is not set - export it or add it to a .env file", name)
	}
	return value, nil
}

// Variables holding the Twilio account used by the webhook.
const (
	TwilioAccountSIDEnv  = "TWILIO_ACCOUNT_SID"
	TwilioAuthTokenEnv   = "TWILIO_AUTH_TOKEN"
	TwilioPhoneNumberEnv = "TWILIO_PHONE_NUMBER"
)

// TwilioCredentials authenticate media downloads and outgoing messages.
type TwilioCredentials struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// LookupTwilioCredentials reads the Twilio variables; any of them may be empty.
func LookupTwilioCredentials() TwilioCredentials {
	return TwilioCredentials{
		AccountSID:  strings.TrimSpace(os.Getenv(TwilioAccountSIDEnv)),
		AuthToken:   strings.TrimSpace(os.Getenv(TwilioAuthTokenEnv)),
		PhoneNumber: strings.TrimSpace(os.Getenv(TwilioPhoneNumberEnv)),
	}
}

// HasAuth reports whether both the account SID and the auth token are set.
func (c TwilioCredentials) HasAuth() bool {
	return c.AccountSID != "" && c.AuthToken != ""
}

// RequireAuth fails with a configuration error naming the first missing variable.
func (c TwilioCredentials) RequireAuth() error {
	if c.AccountSID == "" {
		return apperrors.Newf(apperrors.KindConfiguration, "%s is not set", TwilioAccountSIDEnv)
	}
	if c.AuthToken == "" {
		return apperrors.Newf(apperrors.KindConfiguration, "%s is not set", TwilioAuthTokenEnv)
	}
	return nil
}

// RequireSender additionally needs the number messages are sent from.
func (c TwilioCredentials) RequireSender() error {
	if err := c.RequireAuth(); err != nil {
		return err
	}
	if c.PhoneNumber == "" {
		return apperrors.Newf(apperrors.KindConfiguration, "%s is not set", TwilioPhoneNumberEnv)
	}
	return nil
}
