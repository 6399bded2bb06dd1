package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pbaille/moodmirror/internal/domain"
)

// JSONStore keeps every entry in a single pretty-printed JSON array that is
// rewritten on each append.
type JSONStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewJSON creates a JSONStore over the file at path
func NewJSON(path string) *JSONStore {
	return &JSONStore{path: path, now: time.Now}
}

// Path returns the journal file location
func (s *JSONStore) Path() string {
	return s.path
}

// Load implements Store
func (s *JSONStore) Load(_ context.Context) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrNoEntries
	}
	return entries, nil
}

// Append implements Store. A journal file that no longer parses is moved
// aside to "<path>.corrupt-<timestamp>" and a fresh array is started.
func (s *JSONStore) Append(_ context.Context, e domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if errors.Is(err, domain.ErrCorruptJournal) {
		backup, berr := s.quarantine()
		if berr != nil {
			return berr
		}
		slog.Warn("journal file unreadable, starting a new one", "error", err, "backup", backup)
		entries, err = nil, nil
	}
	if err != nil {
		return err
	}

	entries = append(entries, e)
	return s.write(entries)
}

// Close implements Store
func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) read() ([]domain.Entry, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	var entries []domain.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptJournal, err)
	}
	return entries, nil
}

// write replaces the journal through a temp file so a failed write never
// truncates the existing history.
func (s *JSONStore) write(entries []domain.Entry) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp journal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace journal: %w", err)
	}
	return nil
}

func (s *JSONStore) quarantine() (string, error) {
	backup := fmt.Sprintf("%s.corrupt-%s", s.path, s.now().Format("20060102-150405"))
	if err := os.Rename(s.path, backup); err != nil {
		return "", fmt.Errorf("preserve corrupt journal: %w", err)
	}
	return backup, nil
}
