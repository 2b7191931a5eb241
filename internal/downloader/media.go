package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "voice-whisper/internal/app/errors"
)

const (
	defaultTimeout  = 2 * time.Minute
	defaultMaxBytes = 25 << 20
	sniffLength     = 3072
)

// Fetcher downloads remote voice messages into local files.
type Fetcher struct {
	client   *http.Client
	username string
	password string
	maxBytes int64
	logger   *zap.Logger
}

type Option func(*Fetcher)

// WithHTTPClient replaces the client used for downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithBasicAuth sends the credentials with every download.
// Media links of messaging providers usually require the account credentials.
func WithBasicAuth(username, password string) Option {
	return func(f *Fetcher) {
		f.username = username
		f.password = password
	}
}

// WithMaxBytes caps the accepted body size. Non-positive values keep the default.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: defaultTimeout},
		maxBytes: defaultMaxBytes,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL into dir and returns the written path.
// The file is named after a fresh id and the extension of the sniffed content type,
// so two concurrent downloads never share a path.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperrors.Newf(apperrors.KindDecode, "media url %q is not an http(s) url", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.KindDecode, err, "cannot build request for %s", u.Redacted())
	}
	if f.username != "" {
		req.SetBasicAuth(f.username, f.password)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.KindIO, err, "downloading %s", u.Redacted())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return "", apperrors.Newf(apperrors.KindIO, "downloading %s: server answered %s", u.Redacted(), resp.Status)
	case resp.StatusCode >= 400:
		return "", apperrors.Newf(apperrors.KindDecode, "downloading %s: server answered %s", u.Redacted(), resp.Status)
	case resp.StatusCode != http.StatusOK:
		return "", apperrors.Newf(apperrors.KindDecode, "downloading %s: unexpected status %s", u.Redacted(), resp.Status)
	}
	if resp.ContentLength > f.maxBytes {
		return "", apperrors.Newf(apperrors.KindDecode, "media is %d bytes, the limit is %d", resp.ContentLength, f.maxBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", apperrors.Wrapf(apperrors.KindIO, err, "reading media from %s", u.Redacted())
	}
	if int64(len(body)) > f.maxBytes {
		return "", apperrors.Newf(apperrors.KindDecode, "media exceeds the limit of %d bytes", f.maxBytes)
	}
	if len(body) == 0 {
		return "", apperrors.Newf(apperrors.KindDecode, "media at %s is empty", u.Redacted())
	}

	ext, err := audioExtension(body)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrapf(apperrors.KindIO, err, "cannot create media directory %s", dir)
	}
	path := filepath.Join(dir, fmt.Sprintf("media-%s%s", uuid.NewString(), ext))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", apperrors.Wrapf(apperrors.KindIO, err, "cannot write media to %s", path)
	}

	f.logger.Debug("media downloaded",
		zap.String("url", u.Redacted()),
		zap.String("path", path),
		zap.Int("bytes", len(body)),
	)
	return path, nil
}

// audioExtension sniffs the payload and returns the file extension to store it under.
func audioExtension(body []byte) (string, error) {
	head := body
	if len(head) > sniffLength {
		head = head[:sniffLength]
	}
	mtype := mimetype.Detect(head)

	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("application/ogg") {
			return ".ogg", nil
		}
	}
	if strings.HasPrefix(mtype.String(), "audio/") || strings.HasPrefix(mtype.String(), "video/") {
		if ext := mtype.Extension(); ext != "" {
			return ext, nil
		}
		return ".bin", nil
	}
	return "", apperrors.Newf(apperrors.KindDecode, "media is %s, not audio", mtype.String())
}
