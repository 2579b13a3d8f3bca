package errors

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger provides levelled logging with verbose mode support.
type Logger struct {
	mu      sync.Mutex
	log     *logrus.Logger
	verbose bool
}

// Global logger instance
var defaultLogger = NewLogger(os.Stderr, false)

// NewLogger creates a new logger writing to output.
// Non-verbose loggers only emit errors.
func NewLogger(output io.Writer, verbose bool) *Logger {
	log := logrus.New()
	log.SetOutput(output)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	l := &Logger{log: log}
	l.setVerbose(verbose)
	return l
}

func (l *Logger) setVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
	if verbose {
		l.log.SetLevel(logrus.DebugLevel)
	} else {
		l.log.SetLevel(logrus.ErrorLevel)
	}
}

func (l *Logger) isVerbose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(verbose bool) {
	defaultLogger.setVerbose(verbose)
}

// IsVerbose returns whether verbose logging is enabled.
func IsVerbose() bool {
	return defaultLogger.isVerbose()
}

// SetOutput sets the output writer for the logger.
func SetOutput(w io.Writer) {
	defaultLogger.log.SetOutput(w)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

// LogAPIRequest logs an outgoing completion request in verbose mode.
func (l *Logger) LogAPIRequest(provider, endpoint, model string, messages, promptLength int) {
	if !l.isVerbose() {
		return
	}
	l.log.WithFields(logrus.Fields{
		"provider":      provider,
		"endpoint":      endpoint,
		"model":         model,
		"messages":      messages,
		"prompt_length": promptLength,
	}).Debug("API request")
}

// LogAPIResponse logs a completion response in verbose mode.
func (l *Logger) LogAPIResponse(provider string, statusCode int, responseLength int, duration time.Duration) {
	if !l.isVerbose() {
		return
	}
	l.log.WithFields(logrus.Fields{
		"provider":        provider,
		"status":          statusCode,
		"response_length": responseLength,
		"duration":        duration.Round(time.Millisecond).String(),
	}).Debug("API response")
}

// LogStateWrite logs a write to the state directory in verbose mode.
func (l *Logger) LogStateWrite(record, path string, entries int) {
	if !l.isVerbose() {
		return
	}
	l.log.WithFields(logrus.Fields{
		"record":  record,
		"path":    path,
		"entries": entries,
	}).Debug("state saved")
}

// Package-level logging functions using the default logger

// Error logs an error message.
func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

// Info logs an info message.
func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

// LogAPIRequest logs an API request in verbose mode.
func LogAPIRequest(provider, endpoint, model string, messages, promptLength int) {
	defaultLogger.LogAPIRequest(provider, endpoint, model, messages, promptLength)
}

// LogAPIResponse logs an API response in verbose mode.
func LogAPIResponse(provider string, statusCode int, responseLength int, duration time.Duration) {
	defaultLogger.LogAPIResponse(provider, statusCode, responseLength, duration)
}

// LogStateWrite logs a state record write in verbose mode.
func LogStateWrite(record, path string, entries int) {
	defaultLogger.LogStateWrite(record, path, entries)
}
