package api

import (
	"context"
	"io"

	"voice-whisper/internal/app/model"
)

// Transcriber converts an audio stream into a structured transcript.
// name is the file name reported to the service; it carries the container format.
type Transcriber interface {
	Transcribe(ctx context.Context, name string, audio io.Reader) (*model.Transcript, error)
}

// Responder answers a transcribed message with generated text.
type Responder interface {
	Reply(ctx context.Context, message string) (string, error)
}
