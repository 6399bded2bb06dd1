package journal

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/pbaille/moodmirror/internal/domain"
)

// PreviewLimit is the number of characters shown before a preview is cut
const PreviewLimit = 150

// FilterByTag returns the entries carrying tag (case-insensitive), most
// recent first. An empty tag matches every entry.
func FilterByTag(entries []domain.Entry, tag string) []domain.Entry {
	tag = strings.TrimSpace(tag)

	out := make([]domain.Entry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if tag == "" || entries[i].HasTag(tag) {
			out = append(out, entries[i])
		}
	}
	return out
}

// Preview shortens text to PreviewLimit characters followed by "..."
func Preview(text string) string {
	r := []rune(text)
	if len(r) <= PreviewLimit {
		return text
	}
	return string(r[:PreviewLimit]) + "..."
}

// Trend returns the mood series in insertion order
func Trend(entries []domain.Entry) []domain.TrendPoint {
	points := make([]domain.TrendPoint, 0, len(entries))
	for _, e := range entries {
		t, err := e.Time()
		if err != nil {
			slog.Debug("skipping entry with unreadable date", "date", e.Date, "error", err)
			continue
		}
		points = append(points, domain.TrendPoint{Date: t, Mood: e.Mood})
	}
	return points
}

// TagCounts tallies tags case-insensitively, most used first
func TagCounts(entries []domain.Entry) []domain.TagCount {
	counts := make(map[string]int)
	for _, e := range entries {
		seen := make(map[string]bool)
		for _, t := range e.Tags {
			k := strings.ToLower(t)
			if seen[k] {
				continue
			}
			seen[k] = true
			counts[k]++
		}
	}

	out := make([]domain.TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, domain.TagCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MoodMessage returns an encouragement to show after an entry is saved
func MoodMessage(mood float64) string {
	switch {
	case mood < -0.3:
		return "There's pain that uses you and there's pain that you use."
	case mood < 0:
		return "Not every door that is closed is locked... push! 🌱"
	case mood < 0.3:
		return "I've never met a strong person with an easy past. You're on the right path! 💡"
	case mood < 0.5:
		return "In a society that profits from your self-doubt, liking yourself is a rebellious act :D"
	default:
		return "You sound great! Keep riding that wave. 🌈"
	}
}
