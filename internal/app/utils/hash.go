package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	apperrors "voice-whisper/internal/app/errors"
)

// Fingerprint identifies the bytes of an audio artifact.
type Fingerprint struct {
	Size   int64
	SHA256 string
}

// FingerprintFile hashes the file at path. Missing, unreadable or empty files are IO errors.
func FingerprintFile(path string) (Fingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, apperrors.Wrapf(apperrors.KindIO, err, "failed to open %s", path)
	}
	defer file.Close()

	hash := sha256.New()
	size, err := io.Copy(hash, file)
	if err != nil {
		return Fingerprint{}, apperrors.Wrapf(apperrors.KindIO, err, "failed to read %s", path)
	}
	if size == 0 {
		return Fingerprint{}, apperrors.Newf(apperrors.KindIO, "%s is empty", path)
	}

	return Fingerprint{Size: size, SHA256: hex.EncodeToString(hash.Sum(nil))}, nil
}
