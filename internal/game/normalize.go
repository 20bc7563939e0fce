package game

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// Normalize trims and lowercases a raw submission. Composed (NFC) form keeps
// accented letters a single rune so length and chain checks count letters.
func Normalize(raw string) string {
	return lower.String(norm.NFC.String(strings.TrimSpace(raw)))
}

// firstLetter and lastLetter return "" for an empty word.
func firstLetter(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

func lastLetter(w string) string {
	r, size := utf8.DecodeLastRuneInString(w)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}
