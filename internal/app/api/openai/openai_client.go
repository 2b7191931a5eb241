package openai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/sashabaranov/go-openai"

	apperrors "voice-whisper/internal/app/errors"
)

// NewClient builds an API client from an explicit credential.
// An empty baseURL keeps the public OpenAI endpoint; httpClient may be nil.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(config)
}

// ClassifyError converts a go-openai client error into a typed error of kind with a reason.
func ClassifyError(kind apperrors.Kind, err error, message string) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apperrors.Remote(kind, ReasonForStatus(apiErr.HTTPStatusCode), err, message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return apperrors.Remote(kind, ReasonForStatus(reqErr.HTTPStatusCode), err, message)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Remote(kind, apperrors.ReasonNetwork, err, message+" (interrupted)")
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return apperrors.Remote(kind, apperrors.ReasonNetwork, err, message)
	}

	return apperrors.Remote(kind, apperrors.ReasonUnknown, err, message)
}

// ReasonForStatus maps an HTTP status of the OpenAI API to a failure reason.
func ReasonForStatus(status int) apperrors.Reason {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.ReasonAuth
	case status == http.StatusTooManyRequests:
		return apperrors.ReasonRateLimited
	case status == http.StatusBadRequest,
		status == http.StatusRequestEntityTooLarge,
		status == http.StatusUnsupportedMediaType,
		status == http.StatusUnprocessableEntity:
		return apperrors.ReasonRejected
	case status >= 500:
		return apperrors.ReasonService
	default:
		return apperrors.ReasonUnknown
	}
}
