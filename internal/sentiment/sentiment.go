package sentiment

import (
	"context"
	"fmt"
	"strings"
)

// Scorer returns the sentiment polarity of a text in [-1, 1]
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Backend names accepted by New
const (
	BackendVader     = "vader"
	BackendLexicon   = "lexicon"
	BackendAnthropic = "anthropic"
)

// Options configures the scorer backend
type Options struct {
	Backend string
	APIKey  string
	Model   string
}

// New creates the Scorer selected by opts.Backend
func New(opts Options) (Scorer, error) {
	switch opts.Backend {
	case "", BackendVader:
		return NewVader(), nil
	case BackendLexicon:
		return NewLexicon(), nil
	case BackendAnthropic:
		a, err := NewAnthropic(opts.APIKey, opts.Model)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown sentiment backend %q", opts.Backend)
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// typographic apostrophes from phone and macOS keyboards
var quoteReplacer = strings.NewReplacer("\u2019", "'", "\u2018", "'")

func normalizeQuotes(text string) string {
	return quoteReplacer.Replace(text)
}
