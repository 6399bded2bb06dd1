package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	DataDir        string `env:"MOODMIRROR_DATA_DIR"`
	StoreBackend   string `env:"MOODMIRROR_STORE" default:"json"`
	ScorerBackend  string `env:"MOODMIRROR_SCORER" default:"vader"`
	AnthropicKey   string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel string `env:"ANTHROPIC_MODEL"`
	LogLevel       string `env:"LOG_LEVEL" default:"warn"`
	LogFormat      string `env:"LOG_FORMAT" default:"text"`
}

// Load reads configuration from the environment and an optional .env file
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".moodmirror")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	cfg.StoreBackend = strings.ToLower(cfg.StoreBackend)
	cfg.ScorerBackend = strings.ToLower(cfg.ScorerBackend)

	switch cfg.StoreBackend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("MOODMIRROR_STORE must be json or sqlite, got %q", cfg.StoreBackend)
	}

	switch cfg.ScorerBackend {
	case "vader", "lexicon":
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when MOODMIRROR_SCORER=anthropic")
		}
	default:
		return fmt.Errorf("MOODMIRROR_SCORER must be vader, lexicon or anthropic, got %q", cfg.ScorerBackend)
	}

	return nil
}

// PasswordPath is the credential file location
func (c *Config) PasswordPath() string {
	return filepath.Join(c.DataDir, "pass.txt")
}

// JournalPath is the journal file location for the configured backend
func (c *Config) JournalPath() string {
	if c.StoreBackend == "sqlite" {
		return filepath.Join(c.DataDir, "journal.db")
	}
	return filepath.Join(c.DataDir, "journal.json")
}
