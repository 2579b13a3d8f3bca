// Package history provides conversation history management for howto.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

// Role identifies who produced a history entry.
type Role string

const (
	// RoleUser marks a question asked by the user.
	RoleUser Role = "user"
	// RoleAssistant marks an answer returned by the model.
	RoleAssistant Role = "assistant"
)

// Entry represents a single history entry.
type Entry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Manager defines the interface for the history record.
type Manager interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
	Clear() error
}

// AppendAndTruncate appends newEntries to h and keeps only the last maxLength entries.
// A negative maxLength is treated as zero. The result never shares storage with h.
func AppendAndTruncate(h []Entry, newEntries []Entry, maxLength int) []Entry {
	if maxLength <= 0 {
		return []Entry{}
	}

	total := len(h) + len(newEntries)
	skip := total - maxLength
	if skip < 0 {
		skip = 0
	}

	result := make([]Entry, 0, total-skip)
	for i := skip; i < total; i++ {
		if i < len(h) {
			result = append(result, h[i])
		} else {
			result = append(result, newEntries[i-len(h)])
		}
	}
	return result
}

// FileManager implements Manager using a JSON file for storage.
type FileManager struct {
	filePath string
}

// NewFileManager creates a new FileManager with the specified file path.
func NewFileManager(filePath string) *FileManager {
	return &FileManager{filePath: filePath}
}

// GetHistoryPath returns the path of the history record.
func (m *FileManager) GetHistoryPath() string {
	return m.filePath
}

// Load returns the persisted history. A missing record is an empty history.
func (m *FileManager) Load() ([]Entry, error) {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, apperrors.NewFileSystemError("failed to read history file", err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return []Entry{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, apperrors.NewHistoryCorruptionError(m.filePath, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Save replaces the history record with entries.
func (m *FileManager) Save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return apperrors.NewFileSystemError("failed to marshal history", err)
	}

	if err := m.writeAtomic(data); err != nil {
		return err
	}

	apperrors.LogStateWrite("history", m.filePath, len(entries))
	return nil
}

// Clear replaces the history record with an empty one.
func (m *FileManager) Clear() error {
	return m.Save([]Entry{})
}

// writeAtomic writes data to a sibling temp file and renames it into place.
func (m *FileManager) writeAtomic(data []byte) error {
	dir := filepath.Dir(m.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return apperrors.NewFileSystemError("failed to create history directory", err)
	}

	tmpPath := filepath.Join(dir, ".history-"+uuid.NewString()+".json")
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewFileSystemError("failed to write history file", err)
	}
	if err := os.Rename(tmpPath, m.filePath); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewFileSystemError("failed to replace history file", err)
	}
	return nil
}
