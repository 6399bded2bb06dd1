package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/moodmirror/internal/domain"
)

//go:embed schema.sql
var schema string

// SQLiteStore keeps entries in a SQLite database, one row per entry
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLiteStore with the given database path
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append implements Store
func (s *SQLiteStore) Append(ctx context.Context, e domain.Entry) error {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO entries (id, date, text, mood, tags, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.New().String(), e.Date, e.Text, e.Mood, string(tagsJSON), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// Load implements Store
func (s *SQLiteStore) Load(ctx context.Context) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT date, text, mood, tags FROM entries ORDER BY seq ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var tagsJSON string
		if err := rows.Scan(&e.Date, &e.Text, &e.Mood, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
			return nil, fmt.Errorf("%w: entry tags: %v", domain.ErrCorruptJournal, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	if len(entries) == 0 {
		return nil, domain.ErrNoEntries
	}
	return entries, nil
}
