package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbaille/moodmirror/internal/auth"
	"github.com/pbaille/moodmirror/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("MOODMIRROR_STORE", "json")
	t.Setenv("MOODMIRROR_SCORER", "lexicon")
	t.Setenv("LOG_LEVEL", "error")
	return t.TempDir()
}

func withPassword(t *testing.T, dir, pw string) {
	t.Helper()
	require.NoError(t, auth.New(filepath.Join(dir, "pass.txt")).SetPassword(pw))
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

func TestFirstRunCreatesPasswordAndAddsEntry(t *testing.T) {
	dir := setupEnv(t)

	out, err := runCLI(t, "abc123\nabc123\n",
		"add", "--data-dir", dir, "--tags", "happy, , Sad ,happy", "I", "am", "happy")
	require.NoError(t, err)

	assert.Contains(t, out, "Password created! Now please log in.")
	assert.Contains(t, out, "Mood Score: 0.80")
	assert.Contains(t, out, "You sound great!")

	ok, err := auth.New(filepath.Join(dir, "pass.txt")).CheckPassword("abc123")
	require.NoError(t, err)
	assert.True(t, ok)

	raw, err := os.ReadFile(filepath.Join(dir, "journal.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tags": [
      "happy",
      "Sad",
      "happy"
    ]`)
}

func TestFirstRunCancelled(t *testing.T) {
	dir := setupEnv(t)

	_, err := runCLI(t, "", "list", "--data-dir", dir)
	assert.ErrorIs(t, err, domain.ErrAuthCancelled)

	_, statErr := os.Stat(filepath.Join(dir, "pass.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoginExhausted(t *testing.T) {
	dir := setupEnv(t)
	withPassword(t, dir, "abc123")

	out, err := runCLI(t, "a\nb\nc\n", "add", "--data-dir", dir, "never saved")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
	assert.Contains(t, out, "Incorrect password. 0 attempts left.")

	_, statErr := os.Stat(filepath.Join(dir, "journal.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAddFromStdin(t *testing.T) {
	dir := setupEnv(t)
	withPassword(t, dir, "pw")

	out, err := runCLI(t, "pw\nFeeling tired\nand sad today\n", "add", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Mood Score: -0.45")

	out, err = runCLI(t, "pw\n", "list", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Feeling tired\nand sad today")
}

func TestAddEmpty(t *testing.T) {
	dir := setupEnv(t)
	withPassword(t, dir, "pw")

	out, err := runCLI(t, "pw\n   \n", "add", "--data-dir", dir)
	assert.ErrorIs(t, err, domain.ErrEmptyEntry)
	assert.Contains(t, out, "Please write something.")

	_, statErr := os.Stat(filepath.Join(dir, "journal.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAddFromFile(t *testing.T) {
	dir := setupEnv(t)
	withPassword(t, dir, "pw")
	note := filepath.Join(t.TempDir(), "note.html")
	require.NoError(t, os.WriteFile(note, []byte("<html><body><p>A wonderful day</p></body></html>"), 0o644))

	out, err := runCLI(t, "pw\n", "add", "--data-dir", dir, "--from", note)
	require.NoError(t, err)
	assert.Contains(t, out, "Mood Score: 1.00")
}

func TestList(t *testing.T) {
	dir := setupEnv(t)
	withPassword(t, dir, "pw")

	out, err := runCLI(t, "pw\n", "list", "--data-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "Enter your password: No journal entries found.\n", out)

	long := strings.Repeat("z", 160)
	_, err = runCLI(t, "pw\n", "add", "--data-dir", dir, "-t", "Work", "good start")
	require.NoError(t, err)
	_, err = runCLI(t, "pw\n", "add", "--data-dir", dir, long)
	require.NoError(t, err)

	out, err = runCLI(t, "pw\n", "list", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Journal Entries - Tag: 'All'")
	assert.Contains(t, out, "Tags: None\nEntry Preview:\n"+strings.Repeat("z", 150)+"...\n")
	assert.Less(t, strings.Index(out, strings.Repeat("z", 10)), strings.Index(out, "good start"))
	assert.Contains(t, out, strings.Repeat("-", 60))

	out, err = runCLI(t, "pw\n", "list", "--data-dir", dir, "--tag", "WORK")
	require.NoError(t, err)
	assert.Contains(t, out, "Journal Entries - Tag: 'WORK'")
	assert.Contains(t, out, "Mood Score: 0.70\nTags: Work\n")
	assert.NotContains(t, out, "zzz")

	out, err = runCLI(t, "pw\n", "list", "--data-dir", dir, "--tag", "travel")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries found with tag 'travel'.")
}

func TestListCorruptJournal(t *testing.T) {
	dir := setupEnv(t)
	withPassword(t, dir, "pw")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "journal.json"), []byte("{oops"), 0o644))

	_, err := runCLI(t, "pw\n", "list", "--data-dir", dir)
	assert.ErrorIs(t, err, domain.ErrCorruptJournal)

	_, err = runCLI(t, "pw\n", "add", "--data-dir", dir, "starting over")
	require.NoError(t, err)

	out, err := runCLI(t, "pw\n", "list", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "starting over")
}

func TestTrendAndTags(t *testing.T) {
	dir := setupEnv(t)
	withPassword(t, dir, "pw")

	out, err := runCLI(t, "pw\n", "trend", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No mood data to display.")

	for _, text := range []string{"great", "awful", "plain"} {
		_, err := runCLI(t, "pw\n", "add", "--data-dir", dir, "-t", "daily", text)
		require.NoError(t, err)
	}

	out, err = runCLI(t, "pw\n", "trend", "--data-dir", dir, "--height", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Mood Trend Over Time (")

	out, err = runCLI(t, "pw\n", "tags", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "daily")
	assert.Contains(t, out, " 3\n")
}

func TestPasswd(t *testing.T) {
	dir := setupEnv(t)

	out, err := runCLI(t, "first\n", "passwd", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Password set.")

	_, err = runCLI(t, "wrong\nwrong\nwrong\n", "passwd", "--data-dir", dir)
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)

	_, err = runCLI(t, "first\nsecond\n", "passwd", "--data-dir", dir)
	require.NoError(t, err)

	creds := auth.New(filepath.Join(dir, "pass.txt"))
	ok, err := creds.CheckPassword("second")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = runCLI(t, "second\n\n", "passwd", "--data-dir", dir)
	assert.ErrorIs(t, err, errPasswordBlank)
}

func TestDefaultScorer(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("MOODMIRROR_SCORER", "vader")
	withPassword(t, dir, "pw")

	out, err := runCLI(t, "pw\n", "add", "--data-dir", dir, "I am furious and heartbroken after the argument")
	require.NoError(t, err)
	assert.Contains(t, out, "Mood Score: -0.")

	out, err = runCLI(t, "pw\n", "add", "--data-dir", dir, "I was thrilled to get promoted today")
	require.NoError(t, err)
	assert.Contains(t, out, "Mood Score: 0.")
	assert.NotContains(t, out, "Mood Score: 0.00")
}

func TestSQLiteBackend(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("MOODMIRROR_STORE", "sqlite")
	withPassword(t, dir, "pw")

	_, err := runCLI(t, "pw\n", "add", "--data-dir", dir, "-t", "db", "good")
	require.NoError(t, err)

	out, err := runCLI(t, "pw\n", "list", "--data-dir", dir, "--tag", "db")
	require.NoError(t, err)
	assert.Contains(t, out, "Entry Preview:\ngood\n")

	_, err = os.Stat(filepath.Join(dir, "journal.db"))
	assert.NoError(t, err)
}

func TestHelpSkipsLogin(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "", "help")
	require.NoError(t, err)
	assert.Contains(t, out, "trend")
	assert.NotContains(t, out, "password:")
}
