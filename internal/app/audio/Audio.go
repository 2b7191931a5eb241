package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "voice-whisper/internal/app/errors"
	"voice-whisper/internal/app/model"
)

// codecs maps an output extension to the ffmpeg encoder that produces it.
var codecs = map[string]string{
	".mp3":  "libmp3lame",
	".ogg":  "libopus",
	".webm": "libopus",
	".m4a":  "aac",
	".wav":  "pcm_s16le",
	".flac": "flac",
}

var lossyCodecs = []string{"libmp3lame", "libopus", "aac"}

// stderr fragments ffmpeg prints when the output side fails.
var outputFailureHints = []string{
	"Permission denied",
	"No such file or directory",
	"Read-only file system",
	"No space left on device",
	"Could not open file",
}

// CommandRunner runs an external program and captures its output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Transcoder re-encodes audio files with ffmpeg.
type Transcoder struct {
	ffmpeg  string
	ffprobe string
	bitrate string
	runner  CommandRunner
	logger  *zap.Logger
}

type Option func(*Transcoder)

// WithRunner replaces the subprocess runner.
func WithRunner(runner CommandRunner) Option {
	return func(t *Transcoder) { t.runner = runner }
}

// WithBinaries sets the ffmpeg and ffprobe executables. Empty values keep the defaults.
func WithBinaries(ffmpeg, ffprobe string) Option {
	return func(t *Transcoder) {
		if ffmpeg != "" {
			t.ffmpeg = ffmpeg
		}
		if ffprobe != "" {
			t.ffprobe = ffprobe
		}
	}
}

// WithBitrate sets the target bitrate for lossy encoders, e.g. "64k".
func WithBitrate(bitrate string) Option {
	return func(t *Transcoder) { t.bitrate = bitrate }
}

func WithLogger(logger *zap.Logger) Option {
	return func(t *Transcoder) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func NewTranscoder(opts ...Option) *Transcoder {
	t := &Transcoder{
		ffmpeg:  "ffmpeg",
		ffprobe: "ffprobe",
		runner:  execRunner{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SupportedOutputFormats lists the output extensions Transcode accepts.
func SupportedOutputFormats() []string {
	return lo.Keys(codecs)
}

// Probe inspects a source file. Missing, unreadable or audio-less files are decode errors.
func (t *Transcoder) Probe(ctx context.Context, path string) (*model.FFProbeOutput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.KindDecode, err, "cannot read source %s", path)
	}
	if info.IsDir() {
		return nil, apperrors.Newf(apperrors.KindDecode, "source %s is a directory", path)
	}

	stdout, stderr, err := t.runner.Run(ctx, t.ffprobe,
		"-v", "error", "-print_format", "json", "-show_streams", "-show_format", path)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.KindDecode, err, "ffprobe %s: %s", path, strings.TrimSpace(string(stderr)))
	}

	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(stdout, &probeOutput); err != nil {
		return nil, apperrors.Wrapf(apperrors.KindDecode, err, "ffprobe %s: unexpected output", path)
	}
	if len(probeOutput.AudioStreams()) == 0 {
		return nil, apperrors.Newf(apperrors.KindDecode, "source %s has no audio stream", path)
	}

	return &probeOutput, nil
}

// Duration returns the probed duration of path in seconds.
func (t *Transcoder) Duration(ctx context.Context, path string) (float64, error) {
	probeOutput, err := t.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return probeOutput.DurationSeconds(), nil
}

// Transcode decodes src and writes it to dst in the format implied by dst's extension,
// replacing any existing file. It returns dst.
func (t *Transcoder) Transcode(ctx context.Context, src, dst string) (string, error) {
	probeOutput, err := t.Probe(ctx, src)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(dst))
	codec, ok := codecs[ext]
	if !ok {
		return "", apperrors.Newf(apperrors.KindIO, "unsupported output format %q for %s", ext, dst)
	}

	if err := checkWritableDir(filepath.Dir(dst)); err != nil {
		return "", err
	}

	args := []string{"-y", "-v", "error", "-i", src, "-vn", "-acodec", codec}
	if t.bitrate != "" && lo.Contains(lossyCodecs, codec) {
		args = append(args, "-b:a", t.bitrate)
	}
	args = append(args, "-map_metadata", "-1", "-fflags", "+bitexact", dst)

	t.logger.Info("transcoding audio",
		zap.String("source", src),
		zap.String("target", dst),
		zap.String("codec", codec),
		zap.Float64("duration_sec", probeOutput.DurationSeconds()),
	)

	_, stderr, err := t.runner.Run(ctx, t.ffmpeg, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", apperrors.Wrapf(apperrors.KindIO, ctxErr, "transcoding %s interrupted", src)
		}
		message := strings.TrimSpace(string(stderr))
		if isOutputFailure(message) {
			return "", apperrors.Wrapf(apperrors.KindIO, err, "ffmpeg could not write %s: %s", dst, message)
		}
		return "", apperrors.Wrapf(apperrors.KindDecode, err, "ffmpeg could not transcode %s: %s", src, message)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.KindIO, err, "ffmpeg reported success but %s is missing", dst)
	}
	if info.Size() == 0 {
		return "", apperrors.Newf(apperrors.KindDecode, "ffmpeg produced an empty file from %s", src)
	}

	t.logger.Info("transcoding completed", zap.String("target", dst), zap.Int64("bytes", info.Size()))
	return dst, nil
}

func checkWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return apperrors.Wrapf(apperrors.KindIO, err, "output directory %s", dir)
	}
	if !info.IsDir() {
		return apperrors.Newf(apperrors.KindIO, "output directory %s is not a directory", dir)
	}

	f, err := os.CreateTemp(dir, ".a2t-write-check-*")
	if err != nil {
		return apperrors.Wrapf(apperrors.KindIO, err, "output directory %s is not writable", dir)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}

func isOutputFailure(stderr string) bool {
	return lo.SomeBy(outputFailureHints, func(hint string) bool {
		return strings.Contains(stderr, hint)
	})
}
