package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

const (
	// DefaultDeepSeekEndpoint is the default API endpoint for DeepSeek.
	DefaultDeepSeekEndpoint = "https://api.deepseek.com/v1"
)

// DeepSeekProvider implements Completer for DeepSeek.
// DeepSeek uses an OpenAI-compatible API, so the go-openai client is reused.
type DeepSeekProvider struct {
	client *openai.Client
	config ProviderConfig
}

// NewDeepSeekProvider creates a new DeepSeek provider.
func NewDeepSeekProvider(config ProviderConfig) (*DeepSeekProvider, error) {
	if err := validateDeepSeekConfig(config); err != nil {
		return nil, err
	}

	if config.Endpoint == "" {
		config.Endpoint = DefaultDeepSeekEndpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.Endpoint
	clientConfig.HTTPClient = newHTTPClient(config.Timeout)

	return &DeepSeekProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// validateDeepSeekConfig validates the DeepSeek provider configuration.
func validateDeepSeekConfig(config ProviderConfig) error {
	if config.APIKey == "" {
		return apperrors.NewMissingAPIKeyError(ProviderNameDeepSeek)
	}
	if len(config.APIKey) < 20 {
		return apperrors.New(apperrors.ErrInvalidConfig, "API key appears to be invalid (too short)")
	}
	return nil
}

// Name returns the provider name.
func (p *DeepSeekProvider) Name() string {
	return ProviderNameDeepSeek
}

// Complete sends the messages to the DeepSeek chat API once.
func (p *DeepSeekProvider) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	return chatComplete(ctx, p.client, p.Name(), p.config.Endpoint, model, messages, wrapDeepSeekAPIError)
}

// wrapDeepSeekAPIError wraps a DeepSeek API error with a user-friendly message.
func wrapDeepSeekAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return apperrors.NewAuthenticationError("DeepSeek")
		case http.StatusTooManyRequests:
			return apperrors.NewRateLimitError("DeepSeek")
		case http.StatusBadRequest:
			return apperrors.Wrap(err, apperrors.ErrAIProviderFailed, fmt.Sprintf("DeepSeek invalid request: %s", apiErr.Message))
		case http.StatusPaymentRequired:
			return apperrors.Wrap(err, apperrors.ErrAIProviderFailed, "DeepSeek payment required").
				WithSuggestion("Please check your DeepSeek account balance")
		case http.StatusForbidden:
			return apperrors.Wrap(err, apperrors.ErrAIProviderFailed, "DeepSeek access forbidden").
				WithSuggestion("Please check your API key permissions")
		default:
			return apperrors.Wrap(err, apperrors.ErrAIProviderFailed, fmt.Sprintf("DeepSeek API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message))
		}
	}

	return wrapTransportError("DeepSeek", err)
}
