package ai

import (
	"github.com/howto-cli/howto/internal/pkg/config"
	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

// ProviderName constants for supported providers.
const (
	ProviderNameOpenAI   = "openai"
	ProviderNameDeepSeek = "deepseek"
	ProviderNameOllama   = "ollama"
)

// NewProvider creates a Completer for the resolved provider settings.
func NewProvider(settings config.ProviderSettings) (Completer, error) {
	aiConfig := ProviderConfig{
		APIKey:   settings.APIKey,
		Endpoint: settings.Endpoint,
		Timeout:  settings.Timeout,
	}

	switch settings.Name {
	case ProviderNameOpenAI, "":
		return NewOpenAIProvider(aiConfig)

	case ProviderNameDeepSeek:
		return NewDeepSeekProvider(aiConfig)

	case ProviderNameOllama:
		return NewOllamaProvider(aiConfig)

	default:
		return nil, apperrors.New(apperrors.ErrInvalidConfig, "unknown provider: "+settings.Name).
			WithSuggestion("Supported providers: openai, deepseek, ollama")
	}
}
