package ai

import (
	"testing"
	"time"

	"github.com/howto-cli/howto/internal/pkg/config"
	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		settings config.ProviderSettings
		wantName string
	}{
		{"openai", config.ProviderSettings{Name: "openai", APIKey: testAPIKey}, "openai"},
		{"empty defaults to openai", config.ProviderSettings{APIKey: testAPIKey}, "openai"},
		{"deepseek", config.ProviderSettings{Name: "deepseek", APIKey: testAPIKey}, "deepseek"},
		{"ollama without key", config.ProviderSettings{Name: "ollama", Timeout: time.Second}, "ollama"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.settings)
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", provider.Name(), tt.wantName)
			}
		})
	}
}

func TestNewProvider_DeepSeekEndpoint(t *testing.T) {
	provider, err := NewProvider(config.ProviderSettings{Name: "deepseek", APIKey: testAPIKey})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	ds, ok := provider.(*DeepSeekProvider)
	if !ok {
		t.Fatal("Expected DeepSeekProvider type")
	}
	if ds.config.Endpoint != DefaultDeepSeekEndpoint {
		t.Errorf("Endpoint = %q, want %q", ds.config.Endpoint, DefaultDeepSeekEndpoint)
	}
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	_, err := NewProvider(config.ProviderSettings{Name: "anthropic", APIKey: testAPIKey})
	if err == nil {
		t.Fatal("NewProvider() should return error for unknown provider")
	}
	if !apperrors.HasCode(err, apperrors.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider(config.ProviderSettings{Name: "openai"})
	if !apperrors.HasCode(err, apperrors.ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}
