package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

const (
	// DefaultConfigFileName is the config record name inside the state directory.
	DefaultConfigFileName = "config.yaml"
	// DefaultConfigFileExt is the config record format.
	DefaultConfigFileExt = "yaml"
	// DefaultHistoryFileName is the history record name inside the state directory.
	DefaultHistoryFileName = "history.json"
	// StateDirEnv overrides the state directory.
	StateDirEnv = "HOWTO_HOME"
	// VerboseEnv enables debug logging when truthy.
	VerboseEnv = "HOWTO_VERBOSE"
)

// ProviderSettings is the provider section with environment overrides applied.
// It is resolved per run and never written back.
type ProviderSettings struct {
	Name     string
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	stateDir   string
	configPath string
}

// DefaultStateDir returns $HOWTO_HOME, or ~/.howto when unset.
func DefaultStateDir() (string, error) {
	if dir := os.Getenv(StateDirEnv); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".howto"), nil
}

// NewManager creates a configuration manager rooted at stateDir.
// If stateDir is empty, DefaultStateDir is used.
func NewManager(stateDir string) (*ViperManager, error) {
	if stateDir == "" {
		dir, err := DefaultStateDir()
		if err != nil {
			return nil, err
		}
		stateDir = dir
	}

	return &ViperManager{
		stateDir:   stateDir,
		configPath: filepath.Join(stateDir, DefaultConfigFileName),
	}, nil
}

// setDefaults sets the default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("ai_model.model", DefaultModel)
	v.SetDefault("ai_model.history", DefaultHistoryLength)
	v.SetDefault("ai_model.system_prompt", "")

	v.SetDefault("user_info.globalcontext", DefaultUserInfo)

	v.SetDefault("provider.name", DefaultProviderName)
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.endpoint", "")
	v.SetDefault("provider.timeout_seconds", DefaultTimeoutSeconds)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.markdown", true)

	v.SetDefault("project_context", []interface{}{})
}

// GetConfigPath returns the path to the configuration file.
func (m *ViperManager) GetConfigPath() string {
	return m.configPath
}

// GetHistoryPath returns the path to the history record next to the config.
func (m *ViperManager) GetHistoryPath() string {
	return filepath.Join(m.stateDir, DefaultHistoryFileName)
}

// StateDir returns the state directory.
func (m *ViperManager) StateDir() string {
	return m.stateDir
}

// Load reads the config record. A missing record yields the defaults.
// A record that cannot be decoded is reported as corrupt rather than replaced.
func (m *ViperManager) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType(DefaultConfigFileExt)
	v.SetConfigFile(m.configPath)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) && !errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewConfigCorruptionError(m.configPath, err)
		}
		apperrors.Debug("no config at %s, using defaults", m.configPath)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.NewConfigCorruptionError(m.configPath, err)
	}

	var entries []ProjectContextEntry
	if err := v.UnmarshalKey("project_context", &entries); err != nil {
		return nil, apperrors.NewConfigCorruptionError(m.configPath, err).
			WithContext("section", "project_context")
	}
	cfg.ProjectContext = make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Directory == "" {
			apperrors.Warn("skipping project context without a directory in %s", m.configPath)
			continue
		}
		cfg.ProjectContext[projectKey(e.Directory)] = e.Context
	}

	if cfg.AIModel.History < 0 {
		return nil, apperrors.NewConfigCorruptionError(m.configPath,
			fmt.Errorf("ai_model.history must be non-negative, got %d", cfg.AIModel.History)).
			WithContext("section", "ai_model")
	}

	cfg.Normalize()
	return cfg, nil
}

// Save writes the full record through a temp file and a rename,
// so a reader never sees a partially written config.
func (m *ViperManager) Save(config *Config) error {
	if err := os.MkdirAll(m.stateDir, 0700); err != nil {
		return apperrors.NewFileSystemError("failed to create state directory", err)
	}

	v := viper.New()
	v.SetConfigType(DefaultConfigFileExt)
	v.Set("ai_model.model", config.AIModel.Model)
	v.Set("ai_model.history", config.AIModel.History)
	v.Set("ai_model.system_prompt", config.AIModel.SystemPrompt)
	v.Set("user_info.globalcontext", config.UserInfo.GlobalContext)
	v.Set("provider.name", config.Provider.Name)
	v.Set("provider.api_key", config.Provider.APIKey)
	v.Set("provider.endpoint", config.Provider.Endpoint)
	v.Set("provider.timeout_seconds", config.Provider.TimeoutSeconds)
	v.Set("ui.color_enabled", config.UI.ColorEnabled)
	v.Set("ui.markdown", config.UI.Markdown)

	entries := config.ProjectEntries()
	list := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		list = append(list, map[string]interface{}{
			"directory": e.Directory,
			"context":   e.Context,
		})
	}
	v.Set("project_context", list)

	tmpPath := filepath.Join(m.stateDir, ".config-"+uuid.NewString()+"."+DefaultConfigFileExt)
	if err := v.WriteConfigAs(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewFileSystemError("failed to write config file", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewFileSystemError("failed to set config file permissions", err)
	}
	if err := os.Rename(tmpPath, m.configPath); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewFileSystemError("failed to replace config file", err)
	}

	apperrors.LogStateWrite("config", m.configPath, len(entries))
	return nil
}

// bindEnvVars binds the environment variables that may override provider settings.
// The first variable listed for a key wins.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("provider.name", "HOWTO_PROVIDER_NAME")
	_ = v.BindEnv("provider.api_key", "HOWTO_PROVIDER_API_KEY", "OPENAI_HOWTO_TOKEN", "OPENAI_API_KEY")
	_ = v.BindEnv("provider.endpoint", "HOWTO_PROVIDER_ENDPOINT")
	_ = v.BindEnv("verbose", VerboseEnv)
}

// ProviderSettings resolves the provider section for this run.
// Environment values win over the record but are never saved.
func (m *ViperManager) ProviderSettings(cfg *Config) ProviderSettings {
	v := viper.New()
	bindEnvVars(v)

	settings := ProviderSettings{
		Name:     cfg.Provider.Name,
		APIKey:   cfg.Provider.APIKey,
		Endpoint: cfg.Provider.Endpoint,
		Timeout:  time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
	}
	if name := strings.TrimSpace(v.GetString("provider.name")); name != "" {
		settings.Name = strings.ToLower(name)
	}
	if key := strings.TrimSpace(v.GetString("provider.api_key")); key != "" {
		settings.APIKey = key
	}
	if endpoint := strings.TrimSpace(v.GetString("provider.endpoint")); endpoint != "" {
		settings.Endpoint = endpoint
	}
	if settings.Name == "" {
		settings.Name = DefaultProviderName
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeoutSeconds * time.Second
	}
	return settings
}

// VerboseFromEnv reports whether HOWTO_VERBOSE is set to a truthy value.
func VerboseFromEnv() bool {
	v := viper.New()
	bindEnvVars(v)
	return v.GetBool("verbose")
}

