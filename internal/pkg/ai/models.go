package ai

import (
	"strings"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

// openAIModels is the static set of chat models accepted for OpenAI.
var openAIModels = []string{
	openai.GPT4oMini,
	openai.GPT4o,
	"gpt-4.1",
	"gpt-4.1-mini",
	"gpt-4.1-nano",
	openai.GPT4Turbo,
	openai.GPT4,
	openai.GPT3Dot5Turbo,
	"o1",
	openai.O1Mini,
	openai.O1Preview,
	"o3-mini",
}

var deepSeekModels = []string{
	"deepseek-chat",
	"deepseek-reasoner",
}

// AllowedModels returns the models accepted for provider.
// Ollama serves whatever has been pulled locally, so it has no fixed list.
func AllowedModels(provider string) []string {
	switch provider {
	case ProviderNameDeepSeek:
		return append([]string(nil), deepSeekModels...)
	case ProviderNameOllama:
		return nil
	default:
		return append([]string(nil), openAIModels...)
	}
}

// ValidateModel checks name against the provider's static model set.
// No network call is made.
func ValidateModel(provider, name string) error {
	if provider == ProviderNameOllama {
		if strings.TrimSpace(name) == "" {
			return apperrors.NewInvalidModelError(name, []string{"any locally pulled Ollama model"})
		}
		return nil
	}

	allowed := AllowedModels(provider)
	for _, m := range allowed {
		if m == name {
			return nil
		}
	}
	return apperrors.NewInvalidModelError(name, allowed)
}
