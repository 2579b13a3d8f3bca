package ai

import (
	"strings"

	"github.com/tmc/langchaingo/llms/ollama"

	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

const (
	// DefaultOllamaEndpoint is the default API endpoint for Ollama.
	DefaultOllamaEndpoint = "http://localhost:11434"
)

// NewOllamaProvider creates a Completer for a local Ollama server.
// The model is chosen per call, so one provider serves every configured model.
func NewOllamaProvider(config ProviderConfig) (*LangChainWrapper, error) {
	if err := validateOllamaConfig(config); err != nil {
		return nil, err
	}

	if config.Endpoint == "" {
		config.Endpoint = DefaultOllamaEndpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	llm, err := ollama.New(
		ollama.WithServerURL(config.Endpoint),
		ollama.WithHTTPClient(newHTTPClient(config.Timeout)),
	)
	if err != nil {
		return nil, apperrors.NewAIProviderError(ProviderNameOllama, err)
	}

	return NewLangChainWrapper(llm, config, ProviderNameOllama), nil
}

// validateOllamaConfig validates the Ollama provider configuration.
// Ollama is local and needs no API key.
func validateOllamaConfig(config ProviderConfig) error {
	if config.Endpoint == "" {
		return nil
	}
	if strings.HasPrefix(config.Endpoint, "http://") || strings.HasPrefix(config.Endpoint, "https://") {
		return nil
	}
	return apperrors.New(apperrors.ErrInvalidConfig, "endpoint must start with http:// or https://")
}
