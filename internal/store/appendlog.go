package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// AppendLog is a collection-wide newline-delimited JSON log, written
// immediately as records are extracted. It is shared by all concurrent
// volume workers; appends are serialized so every line lands intact.
type AppendLog struct {
	mu sync.Mutex
	f  *os.File
}

// OpenAppendLog opens (or creates) the log in append-only mode.
func OpenAppendLog(path string) (*AppendLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open append log %s: %w", path, err)
	}
	return &AppendLog{f: f}, nil
}

// Append writes one record as a single line.
func (l *AppendLog) Append(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal log record: %w", err)
	}
	payload = append(payload, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.f.Write(payload); err != nil {
		return fmt.Errorf("append log record: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *AppendLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.f.Close(); err != nil {
		return fmt.Errorf("close append log: %w", err)
	}
	return nil
}
