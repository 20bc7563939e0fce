// internal/words/cache.go
//
// SQLite-backed cache in front of another Validator.
// Definitive answers are stored in word_lookups; errors pass through
// uncached so a flaky dictionary never poisons the cache.

package words

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache wraps next with a persistent lookup table.
type Cache struct {
	db   *sql.DB
	next Validator
}

// NewCache returns a caching Validator. The word_lookups table must exist.
func NewCache(db *sql.DB, next Validator) *Cache {
	return &Cache{db: db, next: next}
}

// Validate answers from the cache when possible, otherwise asks next and
// records the answer.
func (c *Cache) Validate(ctx context.Context, word string) (bool, error) {
	var valid bool
	err := c.db.QueryRowContext(ctx, `SELECT valid FROM word_lookups WHERE word=?`, word).Scan(&valid)
	switch {
	case err == nil:
		return valid, nil
	case !errors.Is(err, sql.ErrNoRows):
		log.Warn().Err(err).Str("word", word).Msg("lookup cache read")
	}

	ok, err := c.next.Validate(ctx, word)
	if err != nil {
		return false, err
	}
	if _, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO word_lookups (word, valid, checked_at) VALUES (?, ?, ?)`,
		word, ok, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		log.Warn().Err(err).Str("word", word).Msg("lookup cache write")
	}
	return ok, nil
}

// Count returns the number of cached answers.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM word_lookups`).Scan(&n)
	return n, err
}
