// Package security provides secret handling helpers for howto.
package security

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// APIKeyFormat defines the expected key pattern per provider.
var APIKeyFormat = map[string]*regexp.Regexp{
	"openai":   regexp.MustCompile(`^sk-[A-Za-z0-9_-]{20,}$`),
	"deepseek": regexp.MustCompile(`^sk-[A-Za-z0-9_-]{20,}$`),
	"ollama":   nil, // local, no key
}

// MaskAPIKey masks an API key, showing only the last 4 characters.
func MaskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// RequiresAPIKey reports whether the provider needs a key at all.
func RequiresAPIKey(provider string) bool {
	pattern, known := APIKeyFormat[provider]
	return !known || pattern != nil
}

// ValidateAPIKeyFormat checks an API key against the provider's expected shape.
func ValidateAPIKeyFormat(provider, apiKey string) error {
	if !RequiresAPIKey(provider) {
		return nil
	}

	if apiKey == "" {
		return fmt.Errorf("API key is required for %s provider", provider)
	}

	if len(apiKey) < 20 {
		return fmt.Errorf("API key appears to be invalid (too short)")
	}

	if pattern := APIKeyFormat[provider]; pattern != nil && !pattern.MatchString(apiKey) {
		return fmt.Errorf("API key format appears invalid for %s provider (expected format: sk-...)", provider)
	}

	return nil
}

var sanitizePatterns = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`), "sk-****"},
	{regexp.MustCompile(`Bearer\s+[A-Za-z0-9._-]+`), "Bearer ****"},
	{regexp.MustCompile(`(?i)(api[_-]?key|apikey|api_secret|secret[_-]?key|token)\s*[:=]\s*["']?[A-Za-z0-9._-]+["']?`), "$1=****"},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["']?[^\s"']+["']?`), "$1=****"},
}

// SanitizeForLogging masks API keys, bearer tokens and password assignments in s.
func SanitizeForLogging(s string) string {
	result := s
	for _, p := range sanitizePatterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}
	return result
}

// Preview returns a sanitized single-line prefix of s, at most n runes long.
func Preview(s string, n int) string {
	line := strings.Join(strings.Fields(SanitizeForLogging(s)), " ")
	if utf8.RuneCountInString(line) <= n {
		return line
	}
	runes := []rune(line)
	return string(runes[:n]) + "..."
}
