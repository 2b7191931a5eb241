package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-whisper/internal/app/converter"
	apperrors "voice-whisper/internal/app/errors"
	"voice-whisper/internal/app/model"
	"voice-whisper/internal/app/testutil"
)

type fakeFetcher struct {
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL, dir string) (string, error) {
	f.urls = append(f.urls, rawURL)
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(dir, "media-1.ogg")
	return path, os.WriteFile(path, []byte("OggS"), 0o644)
}

type fakePipeline struct {
	err  error
	jobs []converter.Job
}

func (f *fakePipeline) Transcribe(_ context.Context, job converter.Job) (*model.Transcript, error) {
	f.jobs = append(f.jobs, job)
	if err := os.WriteFile(job.Target, []byte("ID3"), 0o644); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return testutil.SampleTranscript(), nil
}

type fakeResponder struct {
	err      error
	messages []string
}

func (f *fakeResponder) Reply(_ context.Context, message string) (string, error) {
	f.messages = append(f.messages, message)
	if f.err != nil {
		return "", f.err
	}
	return "Well said!", nil
}

type sent struct{ channel, to, body string }

type fakeSender struct {
	err  error
	sent []sent
}

func (f *fakeSender) SendText(_ context.Context, to, body string) error {
	f.sent = append(f.sent, sent{"text", to, body})
	return f.err
}

func (f *fakeSender) SendVoice(_ context.Context, to, body string) error {
	f.sent = append(f.sent, sent{"voice", to, body})
	return f.err
}

func post(t *testing.T, h *VoiceHandler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.Register(router)

	req := httptest.NewRequest(http.MethodPost, "/whatsapp/voice", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func voiceForm() url.Values {
	return url.Values{
		"MediaUrl0": {"https://api.twilio.com/2010-04-01/Accounts/AC1/Messages/MM1/Media/ME1"},
		"From":      {"whatsapp:+15552223333"},
	}
}

func TestHandleVoiceRepliesByTextAndVoice(t *testing.T) {
	dir := t.TempDir()
	fetcher, pipeline, responder, sender := &fakeFetcher{}, &fakePipeline{}, &fakeResponder{}, &fakeSender{}
	h := NewVoiceHandler(fetcher, pipeline, responder, sender,
		VoiceConfig{MediaDir: dir, SendText: true, SendVoice: true}, nil)

	w := post(t, h, voiceForm())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp VoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, testutil.SampleText, resp.Transcript)
	assert.Equal(t, "Well said!", resp.Reply)

	assert.Equal(t, voiceForm()["MediaUrl0"], fetcher.urls)
	require.Len(t, pipeline.jobs, 1)
	assert.Equal(t, filepath.Join(dir, "media-1.ogg"), pipeline.jobs[0].Source)
	assert.Equal(t, filepath.Join(dir, "media-1.mp3"), pipeline.jobs[0].Target)
	assert.Equal(t, []string{testutil.SampleText}, responder.messages)
	assert.Equal(t, []sent{
		{"text", "whatsapp:+15552223333", "Well said!"},
		{"voice", "whatsapp:+15552223333", "Well said!"},
	}, sender.sent)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "downloaded and transcoded files are removed")
}

func TestHandleVoiceWithoutReply(t *testing.T) {
	sender := &fakeSender{}
	h := NewVoiceHandler(&fakeFetcher{}, &fakePipeline{}, nil, sender,
		VoiceConfig{MediaDir: t.TempDir(), SendText: true}, nil)

	w := post(t, h, voiceForm())
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"transcript":"`+testutil.SampleText+`"}`, w.Body.String())
	assert.Equal(t, []sent{{"text", "whatsapp:+15552223333", testutil.SampleText}}, sender.sent)
}

func TestHandleVoiceAcceptsRecordingURL(t *testing.T) {
	fetcher := &fakeFetcher{}
	h := NewVoiceHandler(fetcher, &fakePipeline{}, nil, nil, VoiceConfig{MediaDir: t.TempDir()}, nil)

	w := post(t, h, url.Values{"RecordingUrl": {"https://api.twilio.com/2010-04-01/Accounts/AC1/Recordings/RE1"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"https://api.twilio.com/2010-04-01/Accounts/AC1/Recordings/RE1"}, fetcher.urls)
}

func TestHandleVoiceMissingMediaURL(t *testing.T) {
	fetcher := &fakeFetcher{}
	h := NewVoiceHandler(fetcher, &fakePipeline{}, nil, nil, VoiceConfig{MediaDir: t.TempDir()}, nil)

	w := post(t, h, url.Values{"From": {"whatsapp:+15552223333"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No media URL provided"}`, w.Body.String())
	assert.Empty(t, fetcher.urls)
}

func TestHandleVoiceFailures(t *testing.T) {
	testCases := []struct {
		name      string
		fetcher   *fakeFetcher
		pipeline  *fakePipeline
		responder *fakeResponder
		sender    *fakeSender
		form      url.Values
		status    int
	}{
		{
			name:    "media is not audio",
			fetcher: &fakeFetcher{err: apperrors.New(apperrors.KindDecode, "media is text/html, not audio")},
			status:  http.StatusUnprocessableEntity,
		},
		{
			name:    "media host down",
			fetcher: &fakeFetcher{err: apperrors.New(apperrors.KindIO, "connection refused")},
			status:  http.StatusInternalServerError,
		},
		{
			name:     "transcription rejected",
			pipeline: &fakePipeline{err: apperrors.Transcription(apperrors.ReasonAuth, errors.New("401"), "request failed")},
			status:   http.StatusBadGateway,
		},
		{
			name:      "chat failed",
			responder: &fakeResponder{err: apperrors.Remote(apperrors.KindReply, apperrors.ReasonService, errors.New("500"), "chat failed")},
			status:    http.StatusBadGateway,
		},
		{
			name:   "send failed",
			sender: &fakeSender{err: apperrors.New(apperrors.KindReply, "twilio said no")},
			status: http.StatusBadGateway,
		},
		{
			name:   "no sender address",
			form:   url.Values{"MediaUrl0": {"https://example.com/m.ogg"}},
			status: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.fetcher == nil {
				tc.fetcher = &fakeFetcher{}
			}
			if tc.pipeline == nil {
				tc.pipeline = &fakePipeline{}
			}
			if tc.responder == nil {
				tc.responder = &fakeResponder{}
			}
			if tc.sender == nil {
				tc.sender = &fakeSender{}
			}
			if tc.form == nil {
				tc.form = voiceForm()
			}
			dir := t.TempDir()
			h := NewVoiceHandler(tc.fetcher, tc.pipeline, tc.responder, tc.sender,
				VoiceConfig{MediaDir: dir, SendText: true}, nil)

			w := post(t, h, tc.form)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(apperrors.New(apperrors.KindDecode, "x")))
	assert.Equal(t, http.StatusBadGateway, StatusFor(apperrors.New(apperrors.KindTranscription, "x")))
	assert.Equal(t, http.StatusBadGateway, StatusFor(apperrors.New(apperrors.KindReply, "x")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(apperrors.New(apperrors.KindIO, "x")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("plain")))
}
