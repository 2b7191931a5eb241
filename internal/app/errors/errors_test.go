package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorySentinels(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		sentinel error
		others   []error
	}{
		{
			name:     "configuration",
			err:      RequiredField("OPENAI_API_KEY"),
			sentinel: ErrConfiguration,
			others:   []error{ErrDecode, ErrIO, ErrTranscription},
		},
		{
			name:     "decode",
			err:      Wrap(KindDecode, fs.ErrNotExist, "probe source"),
			sentinel: ErrDecode,
			others:   []error{ErrConfiguration, ErrIO, ErrTranscription},
		},
		{
			name:     "io",
			err:      Wrapf(KindIO, fs.ErrPermission, "write %s", "/out.mp3"),
			sentinel: ErrIO,
			others:   []error{ErrConfiguration, ErrDecode, ErrTranscription},
		},
		{
			name:     "transcription",
			err:      Transcription(ReasonAuth, fmt.Errorf("401"), "whisper request failed"),
			sentinel: ErrTranscription,
			others:   []error{ErrConfiguration, ErrDecode, ErrIO},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.err, tc.sentinel)
			for _, other := range tc.others {
				assert.NotErrorIs(t, tc.err, other)
			}

			wrapped := fmt.Errorf("run: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.sentinel)
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(KindIO, fs.ErrPermission, "create output")
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, "create output: permission denied", err.Error())

	assert.Nil(t, Wrap(KindIO, nil, "ignored"))
	assert.Nil(t, Wrapf(KindIO, nil, "ignored %d", 1))
}

func TestKindAndReasonOf(t *testing.T) {
	err := fmt.Errorf("pipeline: %w", Transcription(ReasonRateLimited, stderrors.New("429"), "whisper"))

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindTranscription, kind)
	assert.Equal(t, ReasonRateLimited, ReasonOf(err))

	_, ok = KindOf(stderrors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, Reason(""), ReasonOf(RequiredField("x")))
}

func TestTranscriptionDefaultsReason(t *testing.T) {
	err := Transcription("", stderrors.New("boom"), "whisper")
	assert.Equal(t, ReasonUnknown, ReasonOf(err))
}

func TestIsMatchesSameMessage(t *testing.T) {
	a := New(KindDecode, "no audio stream")
	b := New(KindDecode, "no audio stream")
	c := New(KindIO, "no audio stream")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestRemoteReplyError(t *testing.T) {
	err := Remote(KindReply, ReasonAuth, stderrors.New("status 401"), "chat completion failed")

	assert.ErrorIs(t, err, ErrReply)
	assert.NotErrorIs(t, err, ErrTranscription)
	assert.Equal(t, ReasonAuth, ReasonOf(err))
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindReply, kind)
}
