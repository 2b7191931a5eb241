package testutil

import (
	"io"
	"os"
	"sync"
)

// TrackingReadCloser wraps a reader and counts Close calls.
type TrackingReadCloser struct {
	io.Reader
	mu         sync.Mutex
	closeCount int
	closeErr   error
	closer     io.Closer
}

// Close records the call and closes the underlying file, if any.
func (t *TrackingReadCloser) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeCount++
	if t.closer != nil && t.closeCount == 1 {
		if err := t.closer.Close(); err != nil {
			return err
		}
	}
	return t.closeErr
}

// CloseCount returns how many times Close was called.
func (t *TrackingReadCloser) CloseCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeCount
}

// TrackingOpener hands out TrackingReadClosers over real files.
type TrackingOpener struct {
	mu       sync.Mutex
	handles  []*TrackingReadCloser
	OpenErr  error
	CloseErr error
}

func NewTrackingOpener() *TrackingOpener {
	return &TrackingOpener{}
}

// Open satisfies api.Opener.
func (o *TrackingOpener) Open(path string) (io.ReadCloser, error) {
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	handle := &TrackingReadCloser{Reader: f, closer: f, closeErr: o.CloseErr}
	o.mu.Lock()
	o.handles = append(o.handles, handle)
	o.mu.Unlock()
	return handle, nil
}

// Handles returns every handle opened so far.
func (o *TrackingOpener) Handles() []*TrackingReadCloser {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*TrackingReadCloser(nil), o.handles...)
}

// Last returns the most recently opened handle, or nil.
func (o *TrackingOpener) Last() *TrackingReadCloser {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.handles) == 0 {
		return nil
	}
	return o.handles[len(o.handles)-1]
}
