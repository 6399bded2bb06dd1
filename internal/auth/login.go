package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pbaille/moodmirror/internal/domain"
)

// MaxAttempts is the number of login tries before giving up
const MaxAttempts = 3

// ErrCancelled is returned by a Prompter when the user aborts input
var ErrCancelled = errors.New("prompt cancelled")

// Prompter collects passwords from the user
type Prompter interface {
	PromptNew() (string, error)
	PromptLogin() (string, error)
	Notify(msg string)
}

// Authenticate runs the login flow. On first run it asks for a new password,
// stores it and then asks the user to log in with it.
func (s *Store) Authenticate(ctx context.Context, p Prompter) error {
	if !s.Exists() {
		pw, err := p.PromptNew()
		if errors.Is(err, ErrCancelled) || (err == nil && pw == "") {
			return domain.ErrAuthCancelled
		}
		if err != nil {
			return fmt.Errorf("prompt new password: %w", err)
		}
		if err := s.SetPassword(pw); err != nil {
			return err
		}
		slog.Info("password created", "path", s.path)
		p.Notify("Password created! Now please log in.")
		return s.Authenticate(ctx, p)
	}

	for attempts := MaxAttempts; attempts > 0; {
		if err := ctx.Err(); err != nil {
			return err
		}

		pw, err := p.PromptLogin()
		if errors.Is(err, ErrCancelled) {
			return domain.ErrAuthCancelled
		}
		if err != nil {
			return fmt.Errorf("prompt password: %w", err)
		}

		if pw != "" {
			ok, err := s.CheckPassword(pw)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}

		attempts--
		slog.Warn("failed login attempt", "remaining", attempts)
		p.Notify(fmt.Sprintf("Incorrect password. %d attempts left.", attempts))
	}

	return domain.ErrTooManyAttempts
}
