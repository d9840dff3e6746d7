package history

import (
	"fmt"
	"os"
	"sync"
)

// FileLog appends one "<endpoint>:<rawMessage>" line per record to a text
// file. This is the canonical persisted history format; the file is never
// rotated, pruned, or rewritten by the server.
type FileLog struct {
	mu sync.Mutex
	f  *os.File
}

// OpenFile opens (or creates) the history file in append mode.
func OpenFile(path string) (*FileLog, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644) //nolint:gosec // path from server config
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	return &FileLog{f: f}, nil
}

func (l *FileLog) Record(origin, raw string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := fmt.Fprintf(l.f, "%s:%s\n", origin, raw); err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
