package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"voice-whisper/internal/app/model"
)

// SampleText is the recognized text used across fixtures.
const SampleText = "Hi, it's me. I'm running a bit late, see you at the station around six."

// VerboseJSONResponse is a verbose_json body as returned by /v1/audio/transcriptions.
const VerboseJSONResponse = `{
  "task": "transcribe",
  "language": "english",
  "duration": 4.84,
  "text": "Hi, it's me. I'm running a bit late, see you at the station around six.",
  "segments": [
    {
      "id": 0,
      "seek": 0,
      "start": 0.0,
      "end": 1.6,
      "text": " Hi, it's me.",
      "tokens": [50364, 2421, 11, 309, 311, 385, 13],
      "temperature": 0.5,
      "avg_logprob": -0.31,
      "compression_ratio": 1.12,
      "no_speech_prob": 0.02
    },
    {
      "id": 1,
      "seek": 0,
      "start": 1.6,
      "end": 4.84,
      "text": " I'm running a bit late, see you at the station around six.",
      "tokens": [50444, 286, 478, 2614, 257, 857, 3469, 13],
      "temperature": 0.5,
      "avg_logprob": -0.27,
      "compression_ratio": 1.12,
      "no_speech_prob": 0.01
    }
  ]
}`

// SampleTranscript returns the model form of VerboseJSONResponse.
func SampleTranscript() *model.Transcript {
	return &model.Transcript{
		Task:     "transcribe",
		Language: "english",
		Duration: 4.84,
		Text:     SampleText,
		Model:    "whisper-1",
		Segments: []model.Segment{
			{ID: 0, Start: 0, End: 1.6, Text: " Hi, it's me.", Temperature: 0.5, AvgLogprob: -0.31, CompressionRatio: 1.12, NoSpeechProb: 0.02},
			{ID: 1, Start: 1.6, End: 4.84, Text: " I'm running a bit late, see you at the station around six.", Temperature: 0.5, AvgLogprob: -0.27, CompressionRatio: 1.12, NoSpeechProb: 0.01},
		},
	}
}

// WriteAudioFile writes payload to name inside a fresh test directory and returns the path.
func WriteAudioFile(t testing.TB, name string, payload []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return path
}
