package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

// LangChainWrapper adapts a langchaingo model to Completer.
type LangChainWrapper struct {
	llm          llms.Model
	config       ProviderConfig
	providerName string
}

// NewLangChainWrapper creates a new LangChain wrapper.
func NewLangChainWrapper(llm llms.Model, config ProviderConfig, providerName string) *LangChainWrapper {
	return &LangChainWrapper{
		llm:          llm,
		config:       config,
		providerName: providerName,
	}
}

// Name returns the provider name.
func (w *LangChainWrapper) Name() string {
	return w.providerName
}

// toMessageContent converts messages into langchaingo message parts.
func toMessageContent(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		msgType := llms.ChatMessageTypeHuman
		switch m.Role {
		case RoleSystem:
			msgType = llms.ChatMessageTypeSystem
		case RoleAssistant:
			msgType = llms.ChatMessageTypeAI
		}
		out = append(out, llms.TextParts(msgType, m.Content))
	}
	return out
}

// Complete performs a single LLM call.
func (w *LangChainWrapper) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	apperrors.LogAPIRequest(w.providerName, w.config.Endpoint, model, len(messages), promptLength(messages))
	startTime := time.Now()

	resp, err := w.llm.GenerateContent(ctx, toMessageContent(messages), llms.WithModel(model))
	if err != nil {
		return "", w.wrapError(err)
	}

	text := ""
	if resp != nil && len(resp.Choices) > 0 {
		text = resp.Choices[0].Content
	}
	apperrors.LogAPIResponse(w.providerName, http.StatusOK, len(text), time.Since(startTime))

	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewEmptyResponseError(w.providerName)
	}
	return text, nil
}

// wrapError wraps an error with a user-friendly message.
func (w *LangChainWrapper) wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.NewInterruptedError(err)
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized") {
		return apperrors.NewAuthenticationError(w.providerName)
	}

	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "too many requests") {
		return apperrors.NewRateLimitError(w.providerName)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(err)
	}

	if strings.Contains(errStr, "connection refused") {
		appErr := apperrors.NewNetworkError(err)
		appErr.Message = fmt.Sprintf("cannot connect to %s", w.providerName)
		if w.providerName == ProviderNameOllama {
			appErr.WithSuggestion("Please ensure Ollama is running using 'ollama serve'")
		}
		return appErr
	}

	if strings.Contains(errStr, "not found") && w.providerName == ProviderNameOllama {
		return apperrors.NewAIProviderError(w.providerName, err).
			WithSuggestion("Pull the model first, e.g. 'ollama pull llama3.2'")
	}

	return apperrors.NewAIProviderError(w.providerName, err)
}
