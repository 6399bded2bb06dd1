package auth

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbaille/moodmirror/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "pass.txt"))
}

func TestHash(t *testing.T) {
	// sha256("abc123")
	assert.Equal(t, "6ca13d52ca70c883e0f0bb101e425a89e8624de51db2d2392593af6a84118090", Hash("abc123"))
	assert.Len(t, Hash(""), 64)
}

func TestCheckPassword_NoCredential(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.CheckPassword("anything")
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrNoCredential)
	assert.False(t, s.Exists())
}

func TestSetAndCheckPassword(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetPassword("abc123"))
	assert.True(t, s.Exists())

	ok, err := s.CheckPassword("abc123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CheckPassword("wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPassword_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetPassword("secret"))

	for _, attempt := range []string{"secret", "nope"} {
		first, err := s.CheckPassword(attempt)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, err := s.CheckPassword(attempt)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestCheckPassword_TrimsStoredDigest(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(Hash("pw")+"\n"), 0o600))

	ok, err := s.CheckPassword("pw")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetPassword_Overwrites(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetPassword("old"))
	require.NoError(t, s.SetPassword("new"))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, Hash("new"), string(raw))

	ok, err := s.CheckPassword("old")
	require.NoError(t, err)
	assert.False(t, ok)
}

type scriptedPrompter struct {
	newPw    []string
	logins   []string
	notices  []string
	newCalls int
}

func (p *scriptedPrompter) PromptNew() (string, error) {
	p.newCalls++
	if len(p.newPw) == 0 {
		return "", ErrCancelled
	}
	pw := p.newPw[0]
	p.newPw = p.newPw[1:]
	return pw, nil
}

func (p *scriptedPrompter) PromptLogin() (string, error) {
	if len(p.logins) == 0 {
		return "", ErrCancelled
	}
	pw := p.logins[0]
	p.logins = p.logins[1:]
	return pw, nil
}

func (p *scriptedPrompter) Notify(msg string) {
	p.notices = append(p.notices, msg)
}

func TestAuthenticate_FirstRunCreatesThenLogsIn(t *testing.T) {
	s := newTestStore(t)
	p := &scriptedPrompter{newPw: []string{"abc123"}, logins: []string{"abc123"}}

	require.NoError(t, s.Authenticate(context.Background(), p))
	assert.Equal(t, 1, p.newCalls)
	assert.Equal(t, []string{"Password created! Now please log in."}, p.notices)
	assert.True(t, s.Exists())
}

func TestAuthenticate_FirstRunCancelled(t *testing.T) {
	s := newTestStore(t)

	err := s.Authenticate(context.Background(), &scriptedPrompter{newPw: []string{""}})
	assert.ErrorIs(t, err, domain.ErrAuthCancelled)
	assert.False(t, s.Exists())
}

func TestAuthenticate_Attempts(t *testing.T) {
	tests := []struct {
		name       string
		logins     []string
		wantErr    error
		wantNotice int
	}{
		{"first try", []string{"pw"}, nil, 0},
		{"third try", []string{"x", "", "pw"}, nil, 2},
		{"exhausted", []string{"a", "b", "c", "pw"}, domain.ErrTooManyAttempts, 3},
		{"cancelled", []string{"a"}, domain.ErrAuthCancelled, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, s.SetPassword("pw"))
			p := &scriptedPrompter{logins: tt.logins}

			err := s.Authenticate(context.Background(), p)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Len(t, p.notices, tt.wantNotice)
		})
	}
}

func TestAuthenticate_AttemptCountdownMessages(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetPassword("pw"))
	p := &scriptedPrompter{logins: []string{"a", "b", "c"}}

	_ = s.Authenticate(context.Background(), p)
	assert.Equal(t, []string{
		"Incorrect password. 2 attempts left.",
		"Incorrect password. 1 attempts left.",
		"Incorrect password. 0 attempts left.",
	}, p.notices)
}

func TestTermPrompter_PipedInput(t *testing.T) {
	var out strings.Builder
	p := NewTermPrompter(strings.NewReader("first\nsecond\r\n"), &out)

	pw, err := p.PromptNew()
	require.NoError(t, err)
	assert.Equal(t, "first", pw)

	pw, err = p.PromptLogin()
	require.NoError(t, err)
	assert.Equal(t, "second", pw)

	_, err = p.PromptLogin()
	assert.ErrorIs(t, err, ErrCancelled)

	assert.Contains(t, out.String(), "Enter your password: ")
}
