package testutil

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"voice-whisper/internal/app/api"
	"voice-whisper/internal/app/model"
)

var _ api.Transcriber = (*MockTranscriber)(nil)

// MockTranscriber is a testify/mock implementation of api.Transcriber.
// It drains the audio stream before consulting the expectations, so tests can
// match on the uploaded payload and inspect the call history afterwards.
type MockTranscriber struct {
	mock.Mock
	mu sync.RWMutex

	CallHistory []TranscriptionCall
}

// TranscriptionCall represents a single transcription call for tracking
type TranscriptionCall struct {
	Name      string
	Payload   []byte
	Timestamp time.Time
	Response  *model.Transcript
	Error     error
}

// NewMockTranscriber creates a new MockTranscriber
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{}
}

// Transcribe implements the api.Transcriber interface
func (m *MockTranscriber) Transcribe(ctx context.Context, name string, audio io.Reader) (*model.Transcript, error) {
	startTime := time.Now()

	payload, err := io.ReadAll(audio)
	if err != nil {
		m.record(TranscriptionCall{Name: name, Timestamp: startTime, Error: err})
		return nil, err
	}

	args := m.Called(ctx, name, payload)

	var transcript *model.Transcript
	if v := args.Get(0); v != nil {
		transcript = v.(*model.Transcript)
	}
	err = args.Error(1)

	m.record(TranscriptionCall{
		Name:      name,
		Payload:   payload,
		Timestamp: startTime,
		Response:  transcript,
		Error:     err,
	})
	return transcript, err
}

func (m *MockTranscriber) record(call TranscriptionCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallHistory = append(m.CallHistory, call)
}

// GetCallCount returns the total number of calls made
func (m *MockTranscriber) GetCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.CallHistory)
}

// GetLastCall returns the last transcription call
func (m *MockTranscriber) GetLastCall() *TranscriptionCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.CallHistory) == 0 {
		return nil
	}
	call := m.CallHistory[len(m.CallHistory)-1]
	return &call
}
