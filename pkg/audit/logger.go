package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Logger defines the interface for audit logging backends.
type Logger interface {
	Log(event *Event) error
	Close() error
}

// FileLogger logs audit events to a JSON-lines file.
type FileLogger struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewFileLogger opens (or creates) the audit log at path for appending.
func NewFileLogger(path string) (*FileLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &FileLogger{file: f, enc: json.NewEncoder(f)}, nil
}

// Log appends one event as a JSON line.
func (l *FileLogger) Log(event *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(event)
}

// Close closes the underlying file.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// NopLogger discards events; used when auditing is disabled.
type NopLogger struct{}

func (NopLogger) Log(*Event) error { return nil }
func (NopLogger) Close() error     { return nil }
