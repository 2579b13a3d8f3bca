package security

import (
	"testing"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "normal key",
			key:      "sk-1234567890abcdef1234567890abcdef",
			expected: "*******************************cdef",
		},
		{
			name:     "short key",
			key:      "abc",
			expected: "****",
		},
		{
			name:     "5 chars",
			key:      "abcde",
			expected: "*bcde",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MaskAPIKey(tt.key)
			if result != tt.expected {
				t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, result, tt.expected)
			}
		})
	}
}

func TestValidateAPIKeyFormat(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		apiKey   string
		wantErr  bool
	}{
		{
			name:     "valid openai key",
			provider: "openai",
			apiKey:   "sk-1234567890abcdef1234567890abcdef",
			wantErr:  false,
		},
		{
			name:     "valid openai project key",
			provider: "openai",
			apiKey:   "sk-proj-AbCdEf_1234567890-abcdefghij",
			wantErr:  false,
		},
		{
			name:     "empty openai key",
			provider: "openai",
			apiKey:   "",
			wantErr:  true,
		},
		{
			name:     "short openai key",
			provider: "openai",
			apiKey:   "sk-short",
			wantErr:  true,
		},
		{
			name:     "missing prefix",
			provider: "openai",
			apiKey:   "pk-1234567890abcdef1234567890abcdef",
			wantErr:  true,
		},
		{
			name:     "ollama no key required",
			provider: "ollama",
			apiKey:   "",
			wantErr:  false,
		},
		{
			name:     "valid deepseek key",
			provider: "deepseek",
			apiKey:   "sk-1234567890abcdef1234567890abcdef",
			wantErr:  false,
		},
		{
			name:     "unknown provider with long key",
			provider: "unknown",
			apiKey:   "some-long-api-key-that-is-valid",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKeyFormat(tt.provider, tt.apiKey)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAPIKeyFormat(%q, %q) error = %v, wantErr %v", tt.provider, tt.apiKey, err, tt.wantErr)
			}
		})
	}
}

func TestRequiresAPIKey(t *testing.T) {
	if RequiresAPIKey("ollama") {
		t.Error("ollama should not require a key")
	}
	if !RequiresAPIKey("openai") || !RequiresAPIKey("deepseek") {
		t.Error("hosted providers should require a key")
	}
}

func TestSanitizeForLogging(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "api key in text",
			input:    "Error with key sk-1234567890abcdef1234567890abcdef",
			expected: "Error with key sk-****",
		},
		{
			name:     "project key with dashes",
			input:    "key sk-proj-abc_DEF-1234567890abcdefgh rejected",
			expected: "key sk-**** rejected",
		},
		{
			name:     "bearer token",
			input:    "Authorization: Bearer abc123token",
			expected: "Authorization: Bearer ****",
		},
		{
			name:     "api_key assignment",
			input:    "api_key=mysecretkey123",
			expected: "api_key=****",
		},
		{
			name:     "password in text",
			input:    "password=secret123",
			expected: "password=****",
		},
		{
			name:     "no sensitive data",
			input:    "how to list files sorted by size",
			expected: "how to list files sorted by size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeForLogging(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeForLogging(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"short", "list files", 20, "list files"},
		{"collapses whitespace", "list\n  files\tnow", 20, "list files now"},
		{"truncates", "undo the last git commit", 8, "undo the..."},
		{"masks keys", "use sk-1234567890abcdef1234567890abcdef", 40, "use sk-****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.input, tt.n); got != tt.expected {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.expected)
			}
		})
	}
}
