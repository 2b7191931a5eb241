package notify

import (
	"context"
	"encoding/xml"
	"strings"

	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	apperrors "voice-whisper/internal/app/errors"
)

const whatsappPrefix = "whatsapp:"

// MessagingAPI is the part of the Twilio REST client the notifier calls.
type MessagingAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
	CreateCall(params *openapi.CreateCallParams) (*openapi.ApiV2010Call, error)
}

type Config struct {
	From          string
	Voice         string
	VoiceLanguage string
}

// Notifier answers the sender of a voice message by WhatsApp text or by a phone call.
type Notifier struct {
	api    MessagingAPI
	config Config
	logger *zap.Logger
}

func NewNotifier(api MessagingAPI, config Config, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{api: api, config: config, logger: logger}
}

// SendText sends body to the WhatsApp number to.
func (n *Notifier) SendText(ctx context.Context, to, body string) error {
	if err := n.check(ctx, to); err != nil {
		return err
	}
	params := &openapi.CreateMessageParams{}
	params.SetTo(whatsappAddress(to))
	params.SetFrom(whatsappAddress(n.config.From))
	params.SetBody(body)

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return apperrors.Remote(apperrors.KindReply, apperrors.ReasonService, err, "sending WhatsApp message failed")
	}
	n.logger.Debug("text reply sent", zap.String("to", to), zap.String("sid", deref(resp.Sid)))
	return nil
}

// SendVoice calls to and reads body aloud.
func (n *Notifier) SendVoice(ctx context.Context, to, body string) error {
	if err := n.check(ctx, to); err != nil {
		return err
	}
	twiml, err := SayTwiML(body, n.config.Voice, n.config.VoiceLanguage)
	if err != nil {
		return err
	}
	params := &openapi.CreateCallParams{}
	params.SetTo(phoneNumber(to))
	params.SetFrom(phoneNumber(n.config.From))
	params.SetTwiml(twiml)

	resp, err := n.api.CreateCall(params)
	if err != nil {
		return apperrors.Remote(apperrors.KindReply, apperrors.ReasonService, err, "placing voice reply call failed")
	}
	n.logger.Debug("voice reply sent", zap.String("to", to), zap.String("sid", deref(resp.Sid)))
	return nil
}

func (n *Notifier) check(ctx context.Context, to string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Remote(apperrors.KindReply, apperrors.ReasonNetwork, err, "reply cancelled")
	}
	if phoneNumber(to) == "" {
		return apperrors.New(apperrors.KindReply, "reply recipient is empty")
	}
	if phoneNumber(n.config.From) == "" {
		return apperrors.New(apperrors.KindConfiguration, "reply sender number is not configured")
	}
	return nil
}

type say struct {
	Voice    string `xml:"voice,attr,omitempty"`
	Language string `xml:"language,attr,omitempty"`
	Text     string `xml:",chardata"`
}

type response struct {
	XMLName xml.Name `xml:"Response"`
	Say     say      `xml:"Say"`
}

// SayTwiML renders a TwiML document that reads text with the given voice.
func SayTwiML(text, voice, language string) (string, error) {
	out, err := xml.Marshal(response{Say: say{Voice: voice, Language: language, Text: text}})
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindReply, err, "cannot render TwiML")
	}
	return string(out), nil
}

func phoneNumber(address string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(address), whatsappPrefix))
}

func whatsappAddress(address string) string {
	return whatsappPrefix + phoneNumber(address)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
