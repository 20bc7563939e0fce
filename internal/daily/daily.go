// Package daily derives a deterministic starting letter per calendar day so
// every match started on the same date opens on the same letter.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// LetterIndex returns HMAC(salt, YYYY-MM-DD) % 26.
func LetterIndex(date time.Time, salt string) int {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % 26)
}

// Letters is a game.LetterSource keyed on the current date.
type Letters struct {
	Salt string
	Now  func() time.Time // defaults to time.Now
}

// Letter returns today's starting letter.
func (l Letters) Letter() string {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return string(rune('a' + LetterIndex(now(), l.Salt)))
}
