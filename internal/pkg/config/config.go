// Package config provides the persisted configuration record for howto.
package config

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

const (
	// DefaultModel is the model used until the user picks another one.
	DefaultModel = "gpt-4o-mini"
	// DefaultHistoryLength is the number of history entries kept after a query.
	DefaultHistoryLength = 6
	// DefaultUserInfo is returned while the user has not set any user info.
	DefaultUserInfo = "[User has not set any userinfo]"
	// DefaultProjectContext is returned for directories without a project context.
	DefaultProjectContext = "[The user has not set context]"

	// DefaultProviderName is the provider used when none is configured.
	DefaultProviderName = "openai"
	// DefaultTimeoutSeconds bounds a single completion request.
	DefaultTimeoutSeconds = 60
)

// Config represents the complete howto configuration.
type Config struct {
	AIModel  AIModelConfig  `mapstructure:"ai_model"`
	UserInfo UserInfoConfig `mapstructure:"user_info"`
	Provider ProviderConfig `mapstructure:"provider"`
	UI       UIConfig       `mapstructure:"ui"`

	// ProjectContext maps an absolute directory to its context string.
	// On disk it is stored as a list so directory case survives viper's key folding.
	ProjectContext map[string]string `mapstructure:"-"`
}

// AIModelConfig contains model and conversation settings.
type AIModelConfig struct {
	Model        string `mapstructure:"model"`
	History      int    `mapstructure:"history"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

// UserInfoConfig holds the free-form information about the user.
type UserInfoConfig struct {
	GlobalContext string `mapstructure:"globalcontext"`
}

// ProviderConfig contains the persisted AI provider settings.
type ProviderConfig struct {
	Name           string `mapstructure:"name"`
	APIKey         string `mapstructure:"api_key"`
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// UIConfig contains output settings.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
	Markdown     bool `mapstructure:"markdown"`
}

// ProjectContextEntry is the on-disk form of one project context.
type ProjectContextEntry struct {
	Directory string `mapstructure:"directory"`
	Context   string `mapstructure:"context"`
}

// Manager defines the interface for the configuration record.
type Manager interface {
	Load() (*Config, error)
	Save(config *Config) error
	GetConfigPath() string
}

// Default returns a fully defaulted configuration.
func Default() *Config {
	return &Config{
		AIModel: AIModelConfig{
			Model:   DefaultModel,
			History: DefaultHistoryLength,
		},
		UserInfo: UserInfoConfig{
			GlobalContext: DefaultUserInfo,
		},
		Provider: ProviderConfig{
			Name:           DefaultProviderName,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		UI: UIConfig{
			ColorEnabled: true,
			Markdown:     true,
		},
		ProjectContext: map[string]string{},
	}
}

// Normalize replaces unusable zero values with their defaults.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.AIModel.Model) == "" {
		c.AIModel.Model = DefaultModel
	}
	if c.AIModel.History < 0 {
		c.AIModel.History = 0
	}
	if c.Provider.Name == "" {
		c.Provider.Name = DefaultProviderName
	}
	if c.Provider.TimeoutSeconds <= 0 {
		c.Provider.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.ProjectContext == nil {
		c.ProjectContext = map[string]string{}
	}
}

// GetModel returns the configured model name.
func (c *Config) GetModel() string {
	return c.AIModel.Model
}

// SetModel sets the model name. Membership checks belong to the caller.
func (c *Config) SetModel(model string) {
	c.AIModel.Model = model
}

// GetHistoryLength returns how many history entries are retained.
func (c *Config) GetHistoryLength() int {
	return c.AIModel.History
}

// SetHistoryLength parses a non-negative integer literal and stores it.
// The configuration is left untouched when the literal is rejected.
func (c *Config) SetHistoryLength(literal string) error {
	n, err := ParseHistoryLength(literal)
	if err != nil {
		return err
	}
	c.AIModel.History = n
	return nil
}

// ParseHistoryLength accepts only plain digits, so "+3", "-1" and "3.0" are rejected.
func ParseHistoryLength(literal string) (int, error) {
	for _, r := range literal {
		if r < '0' || r > '9' {
			return 0, apperrors.NewInvalidHistoryLengthError(literal)
		}
	}
	n, err := strconv.ParseUint(literal, 10, 31)
	if err != nil {
		return 0, apperrors.NewInvalidHistoryLengthError(literal)
	}
	return int(n), nil
}

// GetUserInfo returns the user info string.
func (c *Config) GetUserInfo() string {
	return c.UserInfo.GlobalContext
}

// SetUserInfo stores the user info string verbatim.
func (c *Config) SetUserInfo(info string) {
	c.UserInfo.GlobalContext = info
}

// ClearUserInfo restores the user info sentinel.
func (c *Config) ClearUserInfo() {
	c.UserInfo.GlobalContext = DefaultUserInfo
}

// GetProjectContext returns the context set for dir, or the sentinel.
func (c *Config) GetProjectContext(dir string) string {
	if ctx, ok := c.ProjectContext[projectKey(dir)]; ok {
		return ctx
	}
	return DefaultProjectContext
}

// SetProjectContext stores the context for dir.
func (c *Config) SetProjectContext(dir, context string) {
	if c.ProjectContext == nil {
		c.ProjectContext = map[string]string{}
	}
	c.ProjectContext[projectKey(dir)] = context
}

// ClearProjectContext removes the entry for dir only.
func (c *Config) ClearProjectContext(dir string) {
	delete(c.ProjectContext, projectKey(dir))
}

// ProjectEntries returns the project contexts sorted by directory.
func (c *Config) ProjectEntries() []ProjectContextEntry {
	entries := make([]ProjectContextEntry, 0, len(c.ProjectContext))
	for dir, ctx := range c.ProjectContext {
		entries = append(entries, ProjectContextEntry{Directory: dir, Context: ctx})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Directory < entries[j].Directory
	})
	return entries
}

func projectKey(dir string) string {
	return filepath.Clean(dir)
}
