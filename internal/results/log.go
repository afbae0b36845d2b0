package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
)

// FileLog appends records to a CSV file, writing the header when the file is new.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog creates a FileLog writing to path. The file is created on the first Record.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

// Path returns the file the log writes to.
func (l *FileLog) Path() string {
	return l.path
}

// Record appends rec to the log file.
func (l *FileLog) Record(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat results log: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write results header: %w", err)
		}
	}
	if err := cw.Write(rec.fields()); err != nil {
		return fmt.Errorf("write results row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Records reads every record from the log. A missing file yields no records.
func (l *FileLog) Records() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open results log: %w", err)
	}
	defer f.Close()

	return ReadRecords(f)
}

// MemoryLog keeps records in memory.
type MemoryLog struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryLog creates an empty MemoryLog.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Record stores a copy of rec.
func (l *MemoryLog) Record(rec Record) error {
	rec.Selected = slices.Clone(rec.Selected)
	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()
	return nil
}

// Records returns a copy of the stored records.
func (l *MemoryLog) Records() ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Record, len(l.records))
	for i, rec := range l.records {
		rec.Selected = slices.Clone(rec.Selected)
		out[i] = rec
	}
	return out, nil
}
