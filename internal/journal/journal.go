// Package journal ties sentiment scoring and entry storage together and
// answers the listing and trend queries shown to the user.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/pbaille/moodmirror/internal/domain"
	"github.com/pbaille/moodmirror/internal/sentiment"
	"github.com/pbaille/moodmirror/internal/store"
)

// Journal records scored entries and serves queries over them
type Journal struct {
	store  store.Store
	scorer sentiment.Scorer
	clock  clockwork.Clock
}

// New creates a Journal
func New(s store.Store, scorer sentiment.Scorer, clock clockwork.Clock) *Journal {
	return &Journal{store: s, scorer: scorer, clock: clock}
}

// Submit scores text, stamps it with the current time and stores it.
// Blank text is rejected with domain.ErrEmptyEntry and nothing is written.
func (j *Journal) Submit(ctx context.Context, text, tagsCSV string) (domain.Entry, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Entry{}, domain.ErrEmptyEntry
	}

	mood, err := j.scorer.Score(ctx, text)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("score entry: %w", err)
	}

	entry := domain.NewEntry(j.clock.Now(), text, mood, tagsCSV)
	if err := j.store.Append(ctx, entry); err != nil {
		return domain.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	slog.Debug("entry saved", "date", entry.Date, "mood", entry.Mood, "tags", len(entry.Tags))
	return entry, nil
}

// Entries returns stored entries carrying tag, most recent first.
// It returns domain.ErrNoMatches when a tag filter leaves nothing.
func (j *Journal) Entries(ctx context.Context, tag string) ([]domain.Entry, error) {
	all, err := j.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := FilterByTag(all, tag)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w '%s'", domain.ErrNoMatches, strings.TrimSpace(tag))
	}
	return out, nil
}

// Trend returns the mood series of all stored entries
func (j *Journal) Trend(ctx context.Context) ([]domain.TrendPoint, error) {
	all, err := j.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Trend(all), nil
}

// Tags returns every tag in use with its entry count
func (j *Journal) Tags(ctx context.Context) ([]domain.TagCount, error) {
	all, err := j.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return TagCounts(all), nil
}
