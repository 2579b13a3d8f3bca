package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
	"github.com/howto-cli/howto/internal/pkg/security"
)

const (
	// DefaultTimeout is the default timeout for API calls.
	DefaultTimeout = 60 * time.Second
)

// OpenAIProvider implements Completer for OpenAI and compatible endpoints.
type OpenAIProvider struct {
	client *openai.Client
	config ProviderConfig
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(config ProviderConfig) (*OpenAIProvider, error) {
	if err := validateOpenAIConfig(config); err != nil {
		return nil, err
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	clientConfig := openai.DefaultConfig(config.APIKey)

	// OpenAI-compatible APIs
	if config.Endpoint != "" {
		clientConfig.BaseURL = config.Endpoint
	}
	clientConfig.HTTPClient = newHTTPClient(config.Timeout)

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// newHTTPClient creates an HTTP client with timeout and connection pooling.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// validateOpenAIConfig validates the OpenAI provider configuration.
func validateOpenAIConfig(config ProviderConfig) error {
	if config.APIKey == "" {
		return apperrors.NewMissingAPIKeyError(ProviderNameOpenAI)
	}
	if len(config.APIKey) < 20 {
		return apperrors.New(apperrors.ErrInvalidConfig, "API key appears to be invalid (too short)").
			WithSuggestion("Check OPENAI_HOWTO_TOKEN or provider.api_key in the howto config")
	}
	return nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return ProviderNameOpenAI
}

// Complete sends the messages to the chat completions API once.
func (p *OpenAIProvider) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	return chatComplete(ctx, p.client, p.Name(), p.config.Endpoint, model, messages, wrapAPIError)
}

// toOpenAIMessages converts messages into the go-openai wire form.
func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case RoleSystem:
			role = openai.ChatMessageRoleSystem
		case RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

// chatComplete performs a single chat completion through a go-openai client.
func chatComplete(
	ctx context.Context,
	client *openai.Client,
	provider, endpoint, model string,
	messages []Message,
	wrap func(error) error,
) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
	}

	apperrors.LogAPIRequest(provider, endpoint, model, len(messages), promptLength(messages))
	if len(messages) > 0 {
		apperrors.Debug("question: %s", security.Preview(messages[len(messages)-1].Content, 80))
	}
	startTime := time.Now()

	resp, err := client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", wrap(err)
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	apperrors.LogAPIResponse(provider, http.StatusOK, len(text), time.Since(startTime))

	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewEmptyResponseError(provider)
	}
	return text, nil
}

func promptLength(messages []Message) int {
	n := 0
	for _, m := range messages {
		n += len(m.Content)
	}
	return n
}

// wrapTransportError maps errors that did not come from the API itself.
func wrapTransportError(provider string, err error) error {
	if errors.Is(err, context.Canceled) {
		return apperrors.NewInterruptedError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return apperrors.NewTimeoutError(err)
		}
		return apperrors.NewNetworkError(err)
	}
	return apperrors.NewAIProviderError(provider, err)
}

// wrapAPIError wraps an API error with a user-friendly message.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return apperrors.NewAuthenticationError("OpenAI")
		case http.StatusTooManyRequests:
			return apperrors.NewRateLimitError("OpenAI")
		case http.StatusBadRequest:
			return apperrors.Wrap(err, apperrors.ErrAIProviderFailed, fmt.Sprintf("invalid request: %s", apiErr.Message))
		default:
			return apperrors.Wrap(err, apperrors.ErrAIProviderFailed, fmt.Sprintf("API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message))
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return apperrors.NewAuthenticationError("OpenAI")
		case http.StatusTooManyRequests:
			return apperrors.NewRateLimitError("OpenAI")
		default:
			return apperrors.Wrap(err, apperrors.ErrAIProviderFailed, fmt.Sprintf("request failed (status %d)", reqErr.HTTPStatusCode))
		}
	}

	return wrapTransportError("OpenAI", err)
}
