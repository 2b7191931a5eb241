package converter

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voice-whisper/internal/app/api"
	apperrors "voice-whisper/internal/app/errors"
	"voice-whisper/internal/app/model"
	"voice-whisper/internal/app/utils"
)

const defaultTargetExt = ".mp3"

// AudioTranscoder re-encodes src into dst.
type AudioTranscoder interface {
	Transcode(ctx context.Context, src, dst string) (string, error)
}

// TranscriptEmitter prints a transcript.
type TranscriptEmitter interface {
	Emit(transcript *model.Transcript) error
}

// Job names the source recording and where its transcoded copy goes.
type Job struct {
	Source string
	Target string
}

// Converter runs the transcode, transcribe, print sequence for one recording.
type Converter struct {
	transcoder  AudioTranscoder
	transcriber api.Transcriber
	emitter     TranscriptEmitter
	open        api.Opener
	logger      *zap.Logger
	progress    *ProgressManager
}

func NewConverter(transcoder AudioTranscoder, transcriber api.Transcriber, emitter TranscriptEmitter,
	logger *zap.Logger, progress *ProgressManager) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if progress == nil {
		progress = NewProgressManager(ProgressConfig{})
	}
	return &Converter{
		transcoder:  transcoder,
		transcriber: transcriber,
		emitter:     emitter,
		open:        api.OpenFile,
		logger:      logger,
		progress:    progress,
	}
}

// WithOpener replaces the function used to open the transcoded file for upload.
func (c *Converter) WithOpener(open api.Opener) *Converter {
	c.open = open
	return c
}

func (c *Converter) Close() error {
	c.progress.Shutdown()
	return nil
}

// DefaultTarget derives the transcoded file path from the source path.
func DefaultTarget(source string) string {
	target := strings.TrimSuffix(source, filepath.Ext(source)) + defaultTargetExt
	if target == source {
		target = strings.TrimSuffix(source, filepath.Ext(source)) + "_transcoded" + defaultTargetExt
	}
	return target
}

func (j Job) normalize() (Job, error) {
	if strings.TrimSpace(j.Source) == "" {
		return j, apperrors.New(apperrors.KindDecode, "source audio path is required")
	}
	if j.Target == "" {
		j.Target = DefaultTarget(j.Source)
	}
	if filepath.Clean(j.Target) == filepath.Clean(j.Source) {
		return j, apperrors.Newf(apperrors.KindIO, "target %s would overwrite the source recording", j.Target)
	}
	return j, nil
}

// Run transcodes the source, uploads the result and prints the transcript.
// The first failing stage aborts the run; its typed error is returned unchanged.
func (c *Converter) Run(ctx context.Context, job Job) error {
	if c.emitter == nil {
		return apperrors.New(apperrors.KindConfiguration, "converter was built without a transcript printer")
	}
	job, err := c.prepare(job)
	if err != nil {
		return err
	}

	logger := c.logger.With(zap.String("run_id", uuid.NewString()), zap.String("source", job.Source))
	bar := c.progress.CreateStageBar("a2t", 3)
	start := time.Now()

	target, transcript, err := c.transcribe(ctx, job, logger, bar)
	if err != nil {
		return err
	}

	bar.Start("printing")
	if err := c.emitter.Emit(transcript); err != nil {
		logger.Error("printing transcript failed", zap.Error(err))
		bar.Abort()
		return err
	}
	bar.Done()
	c.progress.Wait()

	logger.Info("run completed",
		zap.String("target", target),
		zap.Int("text_length", len(transcript.Text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Transcribe transcodes and uploads like Run but returns the transcript instead of printing it.
func (c *Converter) Transcribe(ctx context.Context, job Job) (*model.Transcript, error) {
	job, err := c.prepare(job)
	if err != nil {
		return nil, err
	}

	logger := c.logger.With(zap.String("run_id", uuid.NewString()), zap.String("source", job.Source))
	_, transcript, err := c.transcribe(ctx, job, logger, &StageBar{})
	return transcript, err
}

func (c *Converter) prepare(job Job) (Job, error) {
	if c.transcriber == nil {
		return job, apperrors.New(apperrors.KindConfiguration, "converter was built without a transcriber")
	}
	return job.normalize()
}

func (c *Converter) transcribe(ctx context.Context, job Job, logger *zap.Logger, bar *StageBar) (string, *model.Transcript, error) {
	bar.Start("transcoding")
	target, err := c.transcoder.Transcode(ctx, job.Source, job.Target)
	if err != nil {
		bar.Abort()
		logger.Error("transcoding failed", zap.Error(err))
		return "", nil, err
	}
	fingerprint, err := utils.FingerprintFile(target)
	if err != nil {
		bar.Abort()
		logger.Error("transcoded file is unusable", zap.String("target", target), zap.Error(err))
		return "", nil, err
	}
	logger.Debug("transcoded file ready",
		zap.String("target", target),
		zap.Int64("bytes", fingerprint.Size),
		zap.String("sha256", fingerprint.SHA256),
	)
	bar.Done()

	bar.Start("transcribing")
	transcript, err := api.TranscribeFile(ctx, c.transcriber, c.open, target)
	if err != nil {
		bar.Abort()
		logger.Error("transcription failed", zap.String("target", target), zap.Error(err))
		return "", nil, err
	}
	bar.Done()
	return target, transcript, nil
}

// Convert only transcodes the source and returns the written path.
func (c *Converter) Convert(ctx context.Context, job Job) (string, error) {
	job, err := job.normalize()
	if err != nil {
		return "", err
	}

	target, err := c.transcoder.Transcode(ctx, job.Source, job.Target)
	if err != nil {
		c.logger.Error("transcoding failed", zap.String("source", job.Source), zap.Error(err))
		return "", err
	}
	return target, nil
}
