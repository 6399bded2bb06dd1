package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TermPrompter reads passwords from a terminal without echo. When the input
// is not a terminal it falls back to reading one line per prompt, which lets
// scripts pipe the password in.
type TermPrompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

// NewTermPrompter creates a prompter over in/out. If in is an *os.File
// attached to a terminal, input is read with echo disabled.
func NewTermPrompter(in io.Reader, out io.Writer) *TermPrompter {
	p := &TermPrompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}
	return p
}

// Input returns the buffered reader prompts consume from, so callers can keep
// reading the same stream after a password has been entered.
func (p *TermPrompter) Input() io.Reader {
	return p.in
}

func (p *TermPrompter) PromptNew() (string, error) {
	return p.read("Create your Mood Mirror password: ")
}

func (p *TermPrompter) PromptLogin() (string, error) {
	return p.read("Enter your password: ")
}

func (p *TermPrompter) Notify(msg string) {
	fmt.Fprintln(p.out, msg)
}

func (p *TermPrompter) read(label string) (string, error) {
	fmt.Fprint(p.out, label)

	if p.tty {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		return "", ErrCancelled
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
