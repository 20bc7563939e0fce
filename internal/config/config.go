// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Dictionary modes.
const (
	DictionaryAPI  = "api"
	DictionaryList = "list"
)

// Starting letter modes.
const (
	LetterRandom = "random"
	LetterDaily  = "daily"
)

// Config is the full server configuration.
type Config struct {
	Port         string `env:"PORT" envDefault:"5175"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile      string `env:"LOG_FILE"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	TurnSeconds     int           `env:"TURN_SECONDS" envDefault:"25"`
	DisplayDelay    time.Duration `env:"DISPLAY_DELAY" envDefault:"1200ms"`
	ValidateTimeout time.Duration `env:"VALIDATE_TIMEOUT" envDefault:"8s"`

	DictionaryMode string `env:"DICTIONARY_MODE" envDefault:"api"`
	DictionaryURL  string `env:"DICTIONARY_URL" envDefault:"https://api.dictionaryapi.dev/api/v2/entries/en/"`
	WordsFile      string `env:"WORDS_FILE"`
	DBPath         string `env:"DB_PATH"`

	StartLetter string `env:"START_LETTER" envDefault:"random"`
	DailySalt   string `env:"DAILY_SALT" envDefault:"local_dev_salt"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load(files ...string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.TurnSeconds <= 0 {
		return fmt.Errorf("TURN_SECONDS must be positive, got %d", c.TurnSeconds)
	}
	if c.DisplayDelay < 0 {
		return fmt.Errorf("DISPLAY_DELAY must not be negative, got %s", c.DisplayDelay)
	}
	switch c.DictionaryMode {
	case DictionaryAPI, DictionaryList:
	default:
		return fmt.Errorf("DICTIONARY_MODE must be %q or %q, got %q", DictionaryAPI, DictionaryList, c.DictionaryMode)
	}
	switch c.StartLetter {
	case LetterRandom, LetterDaily:
	default:
		return fmt.Errorf("START_LETTER must be %q or %q, got %q", LetterRandom, LetterDaily, c.StartLetter)
	}
	return nil
}
