package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/pbaille/moodmirror/internal/auth"
	"github.com/pbaille/moodmirror/internal/config"
	"github.com/pbaille/moodmirror/internal/journal"
	"github.com/pbaille/moodmirror/internal/logging"
	"github.com/pbaille/moodmirror/internal/sentiment"
	"github.com/pbaille/moodmirror/internal/store"
	"github.com/spf13/cobra"
)

// skipAuth marks commands that run before (or instead of) the login gate
const skipAuth = "skip-auth"

// app is the state shared by every command once the root has set it up
type app struct {
	cfg      *config.Config
	creds    *auth.Store
	store    store.Store
	journal  *journal.Journal
	prompter *auth.TermPrompter
	out      io.Writer
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{out: out}
	defer a.close()

	root := newRootCmd(a, in, errOut)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app, in io.Reader, errOut io.Writer) *cobra.Command {
	var dataDir string

	rootCmd := &cobra.Command{
		Use:          "moodmirror",
		Short:        "Password-protected mood journal with sentiment scoring",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if isBuiltin(cmd) {
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			logging.InitLogger(errOut, cfg.LogLevel, cfg.LogFormat)

			a.cfg = cfg
			a.creds = auth.New(cfg.PasswordPath())
			a.prompter = auth.NewTermPrompter(in, a.out)

			if cmd.Annotations[skipAuth] != "" {
				return nil
			}
			if err := a.creds.Authenticate(cmd.Context(), a.prompter); err != nil {
				return err
			}
			return a.openJournal()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the journal and password files (default $MOODMIRROR_DATA_DIR or ~/.moodmirror)")

	rootCmd.AddCommand(passwdCmd(a))
	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(trendCmd(a))
	rootCmd.AddCommand(tagsCmd(a))
	rootCmd.AddCommand(serveCmd(a))

	return rootCmd
}

// isBuiltin reports whether cmd is cobra's own help or completion command
func isBuiltin(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "help" || c.Name() == "completion" {
			return true
		}
	}
	return false
}

func (a *app) openJournal() error {
	s, err := store.Open(a.cfg.StoreBackend, a.cfg.JournalPath())
	if err != nil {
		return err
	}
	a.store = s

	scorer, err := sentiment.New(sentiment.Options{
		Backend: a.cfg.ScorerBackend,
		APIKey:  a.cfg.AnthropicKey,
		Model:   a.cfg.AnthropicModel,
	})
	if err != nil {
		return err
	}

	a.journal = journal.New(s, scorer, clockwork.NewRealClock())
	return nil
}

func passwdCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "passwd",
		Short:       "Set or change the journal password",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipAuth: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.creds.Exists() {
				if err := a.creds.Authenticate(cmd.Context(), a.prompter); err != nil {
					return err
				}
			}

			pw, err := a.prompter.PromptNew()
			if errors.Is(err, auth.ErrCancelled) || (err == nil && pw == "") {
				return fmt.Errorf("password unchanged: %w", errPasswordBlank)
			}
			if err != nil {
				return err
			}

			if err := a.creds.SetPassword(pw); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Password set.")
			return nil
		},
	}
}

var errPasswordBlank = errors.New("no password entered")
