package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pbaille/moodmirror/internal/domain"
)

// Store is an append-only log of journal entries
type Store interface {
	// Append adds e after every existing entry
	Append(ctx context.Context, e domain.Entry) error
	// Load returns all entries in insertion order, or domain.ErrNoEntries
	Load(ctx context.Context) ([]domain.Entry, error)
	Close() error
}

// Backend names accepted by Open
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open creates the store for backend at path, creating its directory
func Open(backend, path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	switch backend {
	case "", BackendJSON:
		return NewJSON(path), nil
	case BackendSQLite:
		s, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
