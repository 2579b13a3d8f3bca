// Package ai provides the chat completion providers and message assembly for howto.
package ai

import (
	"context"
	"time"
)

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the sequence sent to the model.
type Message struct {
	Role    Role
	Content string
}

// ProviderConfig contains configuration for an AI provider.
type ProviderConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// Completer sends a message sequence to a model and returns the answer text.
// An empty answer is reported as an error, never as "".
type Completer interface {
	Complete(ctx context.Context, model string, messages []Message) (string, error)
	Name() string
}
