package domain

import "errors"

var (
	ErrNoCredential    = errors.New("no password set")
	ErrEmptyEntry      = errors.New("entry text is empty")
	ErrNoEntries       = errors.New("no journal entries found")
	ErrNoMatches       = errors.New("no entries match tag")
	ErrCorruptJournal  = errors.New("could not read journal data")
	ErrTooManyAttempts = errors.New("too many failed login attempts")
	ErrAuthCancelled   = errors.New("authentication cancelled")
)
