package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the on-disk timestamp format: local time, minute precision.
const DateLayout = "2006-01-02 15:04"

// Entry represents a single journal entry
type Entry struct {
	Date string   `json:"date"`
	Text string   `json:"text"`
	Mood float64  `json:"mood"`
	Tags []string `json:"tags"`
}

// MarshalJSON keeps an untagged entry as "tags": [] rather than null
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	if e.Tags == nil {
		e.Tags = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(plain(e)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Time parses the entry date in the local time zone
func (e Entry) Time() (time.Time, error) {
	return ParseDate(e.Date)
}

// NewEntry builds an entry stamped at t with trimmed text and parsed tags
func NewEntry(t time.Time, text string, mood float64, tagsCSV string) Entry {
	return Entry{
		Date: FormatDate(t),
		Text: strings.TrimSpace(text),
		Mood: mood,
		Tags: ParseTags(tagsCSV),
	}
}

// FormatDate renders t at minute precision
func FormatDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// ParseDate is the inverse of FormatDate
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// ParseTags splits a comma separated list, trimming each token and dropping
// empty ones. Duplicates and casing are preserved.
func ParseTags(csv string) []string {
	tags := []string{}
	for _, tok := range strings.Split(csv, ",") {
		if t := strings.TrimSpace(tok); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasTag reports whether the entry carries tag, ignoring case
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// TrendPoint is one sample of the mood-over-time series
type TrendPoint struct {
	Date time.Time `json:"date"`
	Mood float64   `json:"mood"`
}

// TagCount is a distinct (case-folded) tag and how many entries carry it
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
