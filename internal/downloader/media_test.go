package downloader

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "voice-whisper/internal/app/errors"
)

// opusPage returns the first bytes of an ogg/opus voice note.
func opusPage() []byte {
	page := append([]byte("OggS\x00"), bytes.Repeat([]byte{0}, 23)...)
	page = append(page, []byte("OpusHead")...)
	return append(page, bytes.Repeat([]byte{1}, 16)...)
}

func serve(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL
}

func TestFetchStoresOggWithBasicAuth(t *testing.T) {
	var user, pass string
	var ok bool
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok = r.BasicAuth()
		w.Write(opusPage())
	})

	dir := t.TempDir()
	f := NewFetcher(WithBasicAuth("AC123", "secret"))
	path, err := f.Fetch(context.Background(), url+"/media/ME1", dir)
	require.NoError(t, err)

	assert.True(t, ok)
	assert.Equal(t, "AC123", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".ogg", filepath.Ext(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "media-"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, opusPage(), data)
}

func TestFetchWithoutCredentialsSendsNoAuth(t *testing.T) {
	var hasAuth bool
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _, hasAuth = r.BasicAuth()
		w.Write([]byte("ID3\x04\x00\x00\x00\x00\x00\x00fake mp3"))
	})

	path, err := NewFetcher().Fetch(context.Background(), url, t.TempDir())
	require.NoError(t, err)
	assert.False(t, hasAuth)
	assert.Equal(t, ".mp3", filepath.Ext(path))
}

func TestFetchUsesPrivatePaths(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) { w.Write(opusPage()) })

	dir := t.TempDir()
	f := NewFetcher()
	first, err := f.Fetch(context.Background(), url, dir)
	require.NoError(t, err)
	second, err := f.Fetch(context.Background(), url, dir)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestFetchFailures(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    []byte
		maxSize int64
		want    error
	}{
		{name: "not found", status: http.StatusNotFound, body: []byte("gone"), want: apperrors.ErrDecode},
		{name: "unauthorized", status: http.StatusUnauthorized, want: apperrors.ErrDecode},
		{name: "server error", status: http.StatusBadGateway, want: apperrors.ErrIO},
		{name: "not audio", status: http.StatusOK, body: []byte("<html>hello</html>"), want: apperrors.ErrDecode},
		{name: "empty", status: http.StatusOK, body: nil, want: apperrors.ErrDecode},
		{name: "too large", status: http.StatusOK, body: opusPage(), maxSize: 10, want: apperrors.ErrDecode},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			url := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write(tc.body)
			})

			dir := t.TempDir()
			_, err := NewFetcher(WithMaxBytes(tc.maxSize)).Fetch(context.Background(), url, dir)
			assert.ErrorIs(t, err, tc.want)

			entries, readErr := os.ReadDir(dir)
			require.NoError(t, readErr)
			assert.Empty(t, entries, "nothing is written on failure")
		})
	}
}

func TestFetchRejectsInvalidURLs(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com/a.ogg", "file:///etc/passwd", "not a url"} {
		_, err := NewFetcher().Fetch(context.Background(), raw, t.TempDir())
		assert.ErrorIs(t, err, apperrors.ErrDecode, raw)
	}
}

func TestFetchUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewFetcher().Fetch(context.Background(), url, t.TempDir())
	assert.ErrorIs(t, err, apperrors.ErrIO)
}

func TestFetchCreatesMissingDirectory(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) { w.Write(opusPage()) })

	dir := filepath.Join(t.TempDir(), "media", "incoming")
	path, err := NewFetcher().Fetch(context.Background(), url, dir)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
