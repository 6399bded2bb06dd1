package sentiment

import (
	"bufio"
	"context"
	_ "embed"
	"strconv"
	"strings"
	"unicode"
)

//go:embed lexicon.txt
var lexiconData string

const (
	negationFactor = -0.5
	negationWindow = 2
)

var intensifiers = map[string]float64{
	"very":       1.3,
	"really":     1.3,
	"so":         1.3,
	"extremely":  1.5,
	"incredibly": 1.5,
	"super":      1.3,
	"totally":    1.3,
	"quite":      1.1,
	"pretty":     1.1,
	"slightly":   0.5,
	"somewhat":   0.7,
	"bit":        0.6,
}

var negations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"nor":     true,
	"cannot":  true,
	"without": true,
}

// LexiconScorer is the small offline fallback: it averages word polarities
// from an embedded lexicon. A preceding intensifier scales a word, and a
// negation within the two tokens before it flips and halves it.
type LexiconScorer struct {
	words map[string]float64
}

// NewLexicon creates a LexiconScorer over the embedded word list
func NewLexicon() *LexiconScorer {
	return &LexiconScorer{words: parseLexicon(lexiconData)}
}

func parseLexicon(data string) map[string]float64 {
	words := make(map[string]float64)
	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		p, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		words[fields[0]] = p
	}
	return words
}

// Score implements Scorer
func (l *LexiconScorer) Score(_ context.Context, text string) (float64, error) {
	tokens := tokenize(text)

	var sum float64
	var n int
	for i, tok := range tokens {
		p, ok := l.words[tok]
		if !ok {
			continue
		}
		// "so" and "super" are also lexicon words; only count them when they
		// are not modifying the next token.
		if _, mod := intensifiers[tok]; mod && i+1 < len(tokens) {
			if _, next := l.words[tokens[i+1]]; next {
				continue
			}
		}

		j := i - 1
		if j >= 0 {
			if m, ok := intensifiers[tokens[j]]; ok {
				p *= m
				j--
			}
		}
		if negatedAt(tokens, j) {
			p *= negationFactor
		}

		sum += clamp(p)
		n++
	}

	if n == 0 {
		return 0, nil
	}
	return clamp(sum / float64(n)), nil
}

func negatedAt(tokens []string, j int) bool {
	for k := j; k >= 0 && k > j-negationWindow; k-- {
		if isNegation(tokens[k]) {
			return true
		}
	}
	return false
}

func isNegation(tok string) bool {
	return negations[tok] || strings.HasSuffix(tok, "n't")
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(normalizeQuotes(text)), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
