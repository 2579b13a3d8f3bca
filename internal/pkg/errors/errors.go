// Package errors provides error types, exit-code mapping and logging for howto.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/howto-cli/howto/internal/pkg/security"
)

// ErrorCode represents the category of an error.
type ErrorCode int

// User errors (Exit Code 1)
const (
	ErrInformational ErrorCode = iota + 100
	ErrInvalidArguments
	ErrInvalidModel
	ErrInvalidHistoryLength
	ErrEmptyQuestion
	ErrMissingAPIKey
	ErrInvalidConfig
)

// System errors (Exit Code 2)
const (
	ErrFileSystemError ErrorCode = iota + 200
	ErrConfigCorruption
	ErrHistoryCorruption
)

// External errors (Exit Code 3)
const (
	ErrAIProviderFailed ErrorCode = iota + 300
	ErrNetworkError
	ErrRateLimited
	ErrTimeout
	ErrAuthenticationFailed
	ErrEmptyResponse
)

// ErrInterrupted is raised when the user cancels input or a pending request.
const ErrInterrupted ErrorCode = 400

// InterruptExitCode is the conventional status for a process stopped by SIGINT.
const InterruptExitCode = 130

// ExitCode returns the appropriate exit code for an error code.
func (c ErrorCode) ExitCode() int {
	switch {
	case c == ErrInterrupted:
		return InterruptExitCode
	case c >= 100 && c < 200:
		return 1 // User errors
	case c >= 200 && c < 300:
		return 2 // System errors
	case c >= 300 && c < 400:
		return 3 // External errors
	default:
		return 1
	}
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrInformational:
		return "Informational"
	case ErrInvalidArguments:
		return "InvalidArguments"
	case ErrInvalidModel:
		return "InvalidModel"
	case ErrInvalidHistoryLength:
		return "InvalidHistoryLength"
	case ErrEmptyQuestion:
		return "EmptyQuestion"
	case ErrMissingAPIKey:
		return "MissingAPIKey"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrFileSystemError:
		return "FileSystemError"
	case ErrConfigCorruption:
		return "ConfigCorruption"
	case ErrHistoryCorruption:
		return "HistoryCorruption"
	case ErrAIProviderFailed:
		return "AIProviderFailed"
	case ErrNetworkError:
		return "NetworkError"
	case ErrRateLimited:
		return "RateLimited"
	case ErrTimeout:
		return "Timeout"
	case ErrAuthenticationFailed:
		return "AuthenticationFailed"
	case ErrEmptyResponse:
		return "EmptyResponse"
	case ErrInterrupted:
		return "Interrupted"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
	// Silent errors carry an exit status only; nothing is printed for them.
	Silent bool
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1 // Default to user error
}

// IsSilent reports whether the error should produce no output.
func IsSilent(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Silent
}

// Common error constructors with suggestions

// NewInformational marks a command that finished by printing information.
// It exits non-zero without printing anything.
func NewInformational() *AppError {
	return &AppError{
		Code:    ErrInformational,
		Message: "command completed",
		Silent:  true,
	}
}

// NewInterruptedError creates an error for a user cancellation.
func NewInterruptedError(err error) *AppError {
	return &AppError{
		Code:    ErrInterrupted,
		Message: "interrupted",
		Cause:   err,
		Silent:  true,
	}
}

// NewInvalidArgumentsError creates an error for an unrecognized command line.
func NewInvalidArgumentsError(message string) *AppError {
	return &AppError{
		Code:       ErrInvalidArguments,
		Message:    message,
		Suggestion: "Run 'howto --help' to list the available options",
	}
}

// NewInvalidModelError creates an error for a model outside the allowed set.
func NewInvalidModelError(model string, allowed []string) *AppError {
	return &AppError{
		Code:       ErrInvalidModel,
		Message:    fmt.Sprintf("invalid model: '%s'", model),
		Suggestion: "Must be one of:\n" + strings.Join(allowed, "\n"),
		Context:    map[string]interface{}{"model": model},
	}
}

// NewInvalidHistoryLengthError creates an error for a non-numeric history length.
func NewInvalidHistoryLengthError(value string) *AppError {
	return &AppError{
		Code:       ErrInvalidHistoryLength,
		Message:    fmt.Sprintf("invalid history length: '%s'", value),
		Suggestion: "History length must be a non-negative whole number, e.g. 'howto --sethistory 6'",
		Context:    map[string]interface{}{"value": value},
	}
}

// NewEmptyQuestionError creates an error for a blank question.
func NewEmptyQuestionError() *AppError {
	return &AppError{
		Code:    ErrEmptyQuestion,
		Message: "no question given",
	}
}

// NewMissingAPIKeyError creates an error for missing API key.
func NewMissingAPIKeyError(provider string) *AppError {
	return &AppError{
		Code:       ErrMissingAPIKey,
		Message:    fmt.Sprintf("API key is required for %s provider", provider),
		Suggestion: "Export OPENAI_HOWTO_TOKEN (or HOWTO_PROVIDER_API_KEY), or set provider.api_key in ~/.howto/config.yaml",
	}
}

// NewConfigCorruptionError creates an error for an unreadable config record.
func NewConfigCorruptionError(path string, err error) *AppError {
	return &AppError{
		Code:       ErrConfigCorruption,
		Message:    fmt.Sprintf("config file %s could not be parsed", path),
		Cause:      err,
		Suggestion: "Fix or remove the file; howto recreates it with defaults",
	}
}

// NewHistoryCorruptionError creates an error for an unreadable history record.
func NewHistoryCorruptionError(path string, err error) *AppError {
	return &AppError{
		Code:       ErrHistoryCorruption,
		Message:    fmt.Sprintf("history file %s could not be parsed", path),
		Cause:      err,
		Suggestion: "Run 'howto --clearhistory' to start a fresh conversation",
	}
}

// NewFileSystemError creates an error for state directory failures.
func NewFileSystemError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrFileSystemError,
		Message: message,
		Cause:   err,
	}
}

// NewNetworkError creates an error for network failures.
func NewNetworkError(err error) *AppError {
	return &AppError{
		Code:       ErrNetworkError,
		Message:    "network error occurred",
		Cause:      err,
		Suggestion: "Please check your network connection and try again",
	}
}

// NewRateLimitError creates an error for rate limiting.
func NewRateLimitError(provider string) *AppError {
	return &AppError{
		Code:       ErrRateLimited,
		Message:    fmt.Sprintf("rate limit exceeded on %s", provider),
		Suggestion: "Please wait and try again later",
	}
}

// NewTimeoutError creates an error for timeouts.
func NewTimeoutError(err error) *AppError {
	return &AppError{
		Code:       ErrTimeout,
		Message:    "request timed out",
		Cause:      err,
		Suggestion: "Please check your network connection or raise provider.timeout_seconds",
	}
}

// NewAuthenticationError creates an error for authentication failures.
func NewAuthenticationError(provider string) *AppError {
	return &AppError{
		Code:       ErrAuthenticationFailed,
		Message:    fmt.Sprintf("authentication failed with %s", provider),
		Suggestion: "Please check your API key is valid and has not expired",
	}
}

// NewAIProviderError creates an error for AI provider failures.
func NewAIProviderError(provider string, err error) *AppError {
	return &AppError{
		Code:       ErrAIProviderFailed,
		Message:    fmt.Sprintf("%s provider error", provider),
		Cause:      err,
		Suggestion: "Please check your API key and network connectivity",
	}
}

// NewEmptyResponseError creates an error for a completion without content.
func NewEmptyResponseError(provider string) *AppError {
	return &AppError{
		Code:    ErrEmptyResponse,
		Message: fmt.Sprintf("%s returned an empty answer", provider),
	}
}

// FormatError formats an error for user display.
// API keys and other sensitive data are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(SanitizeErrorMessage(appErr.Cause.Error()))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  Suggestion: ")
			sb.WriteString(appErr.Suggestion)
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(err.Error()))
	}

	return sb.String()
}

// FormatErrorVerbose formats an error with full details for verbose mode.
// API keys and other sensitive data are automatically masked.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("Error [%s]: %s\n", appErr.Code.String(), SanitizeErrorMessage(appErr.Message)))

		if appErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("  Cause: %v\n", SanitizeErrorMessage(appErr.Cause.Error())))
			sb.WriteString("  Error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			sb.WriteString("  Context:\n")
			for k, v := range appErr.Context {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", v))))
			}
		}

		if appErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", appErr.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

// printErrorChain prints the error chain with indentation.
func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	errMsg := SanitizeErrorMessage(err.Error())
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, errMsg))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

// SanitizeErrorMessage masks any API keys or sensitive data in error messages.
func SanitizeErrorMessage(msg string) string {
	return apiKeyPattern.ReplaceAllStringFunc(msg, security.MaskAPIKey)
}

// apiKeyPattern matches OpenAI-style keys, including sk-proj-... project keys.
var apiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`)
