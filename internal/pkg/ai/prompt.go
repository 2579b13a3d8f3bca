package ai

import (
	"fmt"

	"github.com/howto-cli/howto/internal/pkg/history"
)

// DefaultSystemPrompt is the persona instruction that opens every conversation.
const DefaultSystemPrompt = "You are an assistant contacted via a 'howto' CLI command. " +
	"Questions may be formatted weirdly. If so, assume each question is preceded with 'how to' or similar. " +
	"If the question can be answered in one or two sentences without immediately important information, keep responses short."

const (
	userInfoTemplate       = `The user provided the following information about themself or their system or platform for context: "%s"`
	projectContextTemplate = `The user provided the following information about the current project / working directory for context: "%s"`
)

// Conversation is everything that goes into one request.
// History already ends with the new question.
type Conversation struct {
	SystemPrompt   string
	UserInfo       string
	ProjectContext string
	History        []history.Entry
}

// PromptTemplate holds the persona instruction.
type PromptTemplate struct {
	SystemPrompt string
}

// NewPromptTemplate creates a new PromptTemplate with the default persona.
func NewPromptTemplate() *PromptTemplate {
	return &PromptTemplate{SystemPrompt: DefaultSystemPrompt}
}

// NewPromptTemplateWithCustom creates a PromptTemplate with a custom persona.
// An empty systemPrompt keeps the default.
func NewPromptTemplateWithCustom(systemPrompt string) *PromptTemplate {
	pt := NewPromptTemplate()
	if systemPrompt != "" {
		pt.SystemPrompt = systemPrompt
	}
	return pt
}

// GetSystemPrompt returns the persona instruction.
func (pt *PromptTemplate) GetSystemPrompt() string {
	return pt.SystemPrompt
}

// Render lays out the three system messages followed by the history.
func (pt *PromptTemplate) Render(conv Conversation) []Message {
	messages := make([]Message, 0, 3+len(conv.History))
	messages = append(messages,
		Message{Role: RoleSystem, Content: pt.GetSystemPrompt()},
		Message{Role: RoleSystem, Content: fmt.Sprintf(userInfoTemplate, conv.UserInfo)},
		Message{Role: RoleSystem, Content: fmt.Sprintf(projectContextTemplate, conv.ProjectContext)},
	)
	for _, e := range conv.History {
		role := RoleUser
		if e.Role == history.RoleAssistant {
			role = RoleAssistant
		}
		messages = append(messages, Message{Role: role, Content: e.Content})
	}
	return messages
}

// BuildMessages assembles the message sequence for conv.
func BuildMessages(conv Conversation) []Message {
	return NewPromptTemplateWithCustom(conv.SystemPrompt).Render(conv)
}
