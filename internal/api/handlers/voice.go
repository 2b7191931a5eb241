package handlers

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"voice-whisper/internal/api/middleware"
	"voice-whisper/internal/app/api"
	"voice-whisper/internal/app/converter"
	apperrors "voice-whisper/internal/app/errors"
	"voice-whisper/internal/app/model"
)

// MediaFetcher downloads the media a webhook points at.
type MediaFetcher interface {
	Fetch(ctx context.Context, rawURL, dir string) (string, error)
}

// TranscriptionPipeline transcodes and transcribes one local recording.
type TranscriptionPipeline interface {
	Transcribe(ctx context.Context, job converter.Job) (*model.Transcript, error)
}

// ReplySender delivers the answer back to the sender of a voice message.
type ReplySender interface {
	SendText(ctx context.Context, to, body string) error
	SendVoice(ctx context.Context, to, body string) error
}

type VoiceConfig struct {
	MediaDir  string
	SendText  bool
	SendVoice bool
}

// VoiceResponse is the body of a successful webhook call.
type VoiceResponse struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript"`
	Reply      string `json:"reply,omitempty"`
}

// VoiceHandler serves the incoming voice message webhook.
type VoiceHandler struct {
	fetcher   MediaFetcher
	pipeline  TranscriptionPipeline
	responder api.Responder
	sender    ReplySender
	config    VoiceConfig
	logger    *zap.Logger
}

// NewVoiceHandler builds the handler. responder and sender may be nil to skip the
// chat reply and the outbound messages.
func NewVoiceHandler(fetcher MediaFetcher, pipeline TranscriptionPipeline, responder api.Responder,
	sender ReplySender, config VoiceConfig, logger *zap.Logger) *VoiceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VoiceHandler{
		fetcher:   fetcher,
		pipeline:  pipeline,
		responder: responder,
		sender:    sender,
		config:    config,
		logger:    logger,
	}
}

// Register mounts the webhook routes on router.
func (h *VoiceHandler) Register(router gin.IRoutes) {
	router.POST("/whatsapp/voice", h.HandleVoice)
}

// HandleVoice downloads MediaUrl0 (or a call's RecordingUrl), transcribes it and optionally
// answers the sender. Downloaded and transcoded files are removed before the response is written.
func (h *VoiceHandler) HandleVoice(c *gin.Context) {
	mediaURL := strings.TrimSpace(c.PostForm("MediaUrl0"))
	if mediaURL == "" {
		mediaURL = strings.TrimSpace(c.PostForm("RecordingUrl"))
	}
	if mediaURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No media URL provided"})
		return
	}
	from := c.PostForm("From")
	ctx := c.Request.Context()
	logger := h.logger.With(
		zap.String(middleware.RequestIDKey, c.GetString(middleware.RequestIDKey)),
		zap.String("from", from),
	)

	source, err := h.fetcher.Fetch(ctx, mediaURL, h.config.MediaDir)
	if err != nil {
		h.fail(c, logger, "fetching media failed", err)
		return
	}
	job := converter.Job{Source: source, Target: converter.DefaultTarget(source)}
	defer removeFiles(logger, job.Source, job.Target)

	transcript, err := h.pipeline.Transcribe(ctx, job)
	if err != nil {
		h.fail(c, logger, "transcription failed", err)
		return
	}

	resp := VoiceResponse{Success: true, Transcript: transcript.Text}
	message := transcript.Text
	if h.responder != nil {
		reply, err := h.responder.Reply(ctx, transcript.Text)
		if err != nil {
			h.fail(c, logger, "generating reply failed", err)
			return
		}
		resp.Reply = reply
		message = reply
	}

	if err := h.deliver(ctx, from, message); err != nil {
		h.fail(c, logger, "sending reply failed", err)
		return
	}

	logger.Info("voice message processed",
		zap.Int("text_length", len(resp.Transcript)),
		zap.Bool("replied", resp.Reply != ""),
	)
	c.JSON(http.StatusOK, resp)
}

func (h *VoiceHandler) deliver(ctx context.Context, to, message string) error {
	if h.sender == nil || (!h.config.SendText && !h.config.SendVoice) {
		return nil
	}
	if strings.TrimSpace(to) == "" {
		return apperrors.New(apperrors.KindDecode, "webhook has no From address to reply to")
	}
	if h.config.SendText {
		if err := h.sender.SendText(ctx, to, message); err != nil {
			return err
		}
	}
	if h.config.SendVoice {
		if err := h.sender.SendVoice(ctx, to, message); err != nil {
			return err
		}
	}
	return nil
}

func (h *VoiceHandler) fail(c *gin.Context, logger *zap.Logger, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	c.Error(err)
	c.JSON(StatusFor(err), gin.H{"error": err.Error()})
}

// StatusFor maps a typed pipeline error to the HTTP status returned to the webhook caller.
func StatusFor(err error) int {
	kind, _ := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindDecode:
		return http.StatusUnprocessableEntity
	case apperrors.KindTranscription, apperrors.KindReply:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func removeFiles(logger *zap.Logger, paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("cannot remove temporary file", zap.String("path", path), zap.Error(err))
		}
	}
}
