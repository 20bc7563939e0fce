package game

import "testing"

func TestRandomLetters(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		l := RandomLetters{}.Letter()
		if len(l) != 1 || l[0] < 'a' || l[0] > 'z' {
			t.Fatalf("unexpected letter %q", l)
		}
		seen[l] = true
	}
	if len(seen) < 10 {
		t.Fatalf("expected a spread of letters, got %d distinct", len(seen))
	}
}
