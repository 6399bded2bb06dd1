package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pbaille/moodmirror/internal/domain"
)

// Store persists the single password hash that gates the journal
type Store struct {
	path string
}

// New creates a credential Store backed by the file at path
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the credential file location
func (s *Store) Path() string {
	return s.path
}

// Hash returns the hex SHA-256 digest of the UTF-8 password bytes
func Hash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Exists reports whether a password has been set
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// SetPassword overwrites the credential file with the digest of plaintext
func (s *Store) SetPassword(plaintext string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(Hash(plaintext)), 0o600); err != nil {
		return fmt.Errorf("write credential: %w", err)
	}
	return nil
}

// CheckPassword compares attempt against the stored digest.
// It returns domain.ErrNoCredential when no password has been set yet.
func (s *Store) CheckPassword(attempt string) (bool, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, domain.ErrNoCredential
	}
	if err != nil {
		return false, fmt.Errorf("read credential: %w", err)
	}

	stored := strings.TrimSpace(string(raw))
	ok := subtle.ConstantTimeCompare([]byte(stored), []byte(Hash(attempt))) == 1
	return ok, nil
}
