// internal/words/words.go
//
// Word list management for offline validation.
//
// Responsibilities:
//   - Load a word list from a file (WORDS_FILE) or fall back to the embedded list.
//   - Keep a set for O(1) lookups.
//   - Serve as a Validator when the dictionary API is not used.
//
// Constraints:
//   • One word per line; blank lines and lines starting with # are skipped.
//   • Words are normalized to lowercase and must be letters only.

package words

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"
	"unicode"

	"github.com/robalobadob/wordchain/assets"
)

// Validator mirrors game.Validator so this package stays free of the engine.
type Validator interface {
	Validate(ctx context.Context, word string) (bool, error)
}

// List is an in-memory set of known words.
type List struct {
	set map[string]struct{}
}

// NewList builds a List from raw words, dropping anything that is not a word.
func NewList(raw []string) *List {
	l := &List{set: make(map[string]struct{}, len(raw))}
	for _, w := range raw {
		w = strings.TrimSpace(strings.ToLower(w))
		if w != "" && isAlpha(w) {
			l.set[w] = struct{}{}
		}
	}
	return l
}

// Load reads the list at path, or the embedded list when path is empty.
// Returns an error if the resulting list is empty.
func Load(path string) (*List, error) {
	var (
		raw []string
		err error
	)
	if path != "" {
		raw, err = readWordFile(path)
	} else {
		raw, err = assets.WordList()
	}
	if err != nil {
		return nil, err
	}
	l := NewList(raw)
	if l.Len() == 0 {
		return nil, errors.New("words: word list is empty")
	}
	return l, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// isAlpha reports whether s consists of letters only.
func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Validate reports whether word is in the list. It never fails.
func (l *List) Validate(_ context.Context, word string) (bool, error) {
	_, ok := l.set[strings.ToLower(word)]
	return ok, nil
}

// Len returns the number of loaded words.
func (l *List) Len() int { return len(l.set) }
