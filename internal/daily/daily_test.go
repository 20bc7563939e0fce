package daily

import (
	"testing"
	"time"
)

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	at := time.Date(2026, 3, 2, 5, 0, 0, 0, loc)
	if got := DateKey(at); got != "2026-03-01" {
		t.Fatalf("expected UTC date, got %s", got)
	}
}

func TestLettersDeterministicPerDay(t *testing.T) {
	morning := time.Date(2026, 5, 17, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 5, 17, 23, 0, 0, 0, time.UTC)

	a := Letters{Salt: "salt", Now: func() time.Time { return morning }}.Letter()
	b := Letters{Salt: "salt", Now: func() time.Time { return evening }}.Letter()
	if a != b {
		t.Fatalf("same day gave %q and %q", a, b)
	}
	if len(a) != 1 || a[0] < 'a' || a[0] > 'z' {
		t.Fatalf("not a lowercase letter: %q", a)
	}
}

func TestLetterIndexSpread(t *testing.T) {
	seen := map[int]bool{}
	day := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 365; i++ {
		idx := LetterIndex(day.AddDate(0, 0, i), "salt")
		if idx < 0 || idx > 25 {
			t.Fatalf("index out of range: %d", idx)
		}
		seen[idx] = true
	}
	if len(seen) < 20 {
		t.Fatalf("expected most letters over a year, saw %d", len(seen))
	}
}
