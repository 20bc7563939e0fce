package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchain/assets"
	"github.com/robalobadob/wordchain/internal/config"
	"github.com/robalobadob/wordchain/internal/daily"
	"github.com/robalobadob/wordchain/internal/game"
	"github.com/robalobadob/wordchain/internal/httpserver"
	"github.com/robalobadob/wordchain/internal/store"
	"github.com/robalobadob/wordchain/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	closeLog, err := initLogger(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open log file")
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// initLogger configures the global zerolog logger from cfg.
// LOG_FILE duplicates output into an append-only file.
func initLogger(cfg config.Config) (func(), error) {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var out io.Writer = os.Stdout
	if strings.EqualFold(cfg.LogFormat, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return closeFn, err
		}
		out = zerolog.MultiLevelWriter(f, out)
		closeFn = func() { _ = f.Close() }
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closeFn, nil
}

func run(ctx context.Context, cfg config.Config) error {
	var db *sql.DB
	if cfg.DBPath != "" {
		var err error
		if db, err = openDB(cfg.DBPath); err != nil {
			return err
		}
		defer db.Close()
		migrations, err := assets.Migrations()
		if err != nil {
			return err
		}
		if _, err := migrate(db, migrations); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	validator, stats, err := buildValidator(cfg, db)
	if err != nil {
		return err
	}

	rules := game.DefaultRules()
	rules.TurnLength = cfg.TurnSeconds
	rules.DisplayDelay = cfg.DisplayDelay
	letters := letterSource(cfg)

	srv := httpserver.New(httpserver.Options{
		Store:        store.NewMemoryStore(),
		ClientOrigin: cfg.ClientOrigin,
		Daily:        daily.Letters{Salt: cfg.DailySalt},
		WordStats:    stats,
		NewMatch: func(publish func(game.State)) *game.Engine {
			return game.New("", validator, game.Options{
				Rules:           &rules,
				Letters:         letters,
				Publish:         publish,
				ValidateTimeout: cfg.ValidateTimeout,
			})
		},
	})

	log.Info().
		Str("port", cfg.Port).
		Str("dictionary", cfg.DictionaryMode).
		Str("start_letter", cfg.StartLetter).
		Int("turn_seconds", cfg.TurnSeconds).
		Bool("cache", db != nil).
		Msg("starting wordchain server")
	return srv.Start(ctx, ":"+cfg.Port)
}

// buildValidator picks the word source and optionally puts the SQLite cache
// in front of it. stats feeds /debug/words.
func buildValidator(cfg config.Config, db *sql.DB) (game.Validator, func(context.Context) map[string]int, error) {
	var (
		v     words.Validator
		stats = map[string]int{}
	)
	switch cfg.DictionaryMode {
	case config.DictionaryList:
		list, err := words.Load(cfg.WordsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load word list: %w", err)
		}
		log.Info().Int("words", list.Len()).Msg("word list loaded")
		stats["list_words"] = list.Len()
		v = list
	default:
		v = words.NewDictionary(cfg.DictionaryURL, nil)
	}

	var cache *words.Cache
	if db != nil {
		cache = words.NewCache(db, v)
		v = cache
	}

	statsFn := func(ctx context.Context) map[string]int {
		out := make(map[string]int, len(stats)+1)
		for k, n := range stats {
			out[k] = n
		}
		if cache != nil {
			if n, err := cache.Count(ctx); err == nil {
				out["cached_words"] = n
			}
		}
		return out
	}
	return v, statsFn, nil
}

func letterSource(cfg config.Config) game.LetterSource {
	if cfg.StartLetter == config.LetterDaily {
		return daily.Letters{Salt: cfg.DailySalt}
	}
	return game.RandomLetters{}
}
