package api

import (
	"context"
	"io"
	"os"
	"path/filepath"

	apperrors "voice-whisper/internal/app/errors"
	"voice-whisper/internal/app/model"
)

// Opener opens a file for binary reading.
type Opener func(path string) (io.ReadCloser, error)

// OpenFile is the default Opener.
func OpenFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// TranscribeFile uploads the file at path through t. The handle is closed exactly once,
// whether or not the transcription succeeds.
func TranscribeFile(ctx context.Context, t Transcriber, open Opener, path string) (transcript *model.Transcript, err error) {
	if open == nil {
		open = OpenFile
	}

	f, err := open(path)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.KindIO, err, "open %s for upload", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			transcript = nil
			err = apperrors.Wrapf(apperrors.KindIO, cerr, "close %s", path)
		}
	}()

	return t.Transcribe(ctx, filepath.Base(path), f)
}
