package game

import "testing"

func TestDelta(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		remaining int
		length    int
		delta     int
		deduction int
	}{
		{25, 4, 29, 29},
		{25, 5, 30, 30},
		{25, 8, 33, 33},
		{11, 4, 15, 15},
		{11, 5, 16, 16},
		{11, 8, 19, 19},
		{10, 4, 4, 4},
		{10, 5, 5, 5},
		{10, 8, 8, 8},
		{6, 4, 4, 4},
		{6, 5, 5, 5},
		{6, 8, 8, 8},
		{5, 4, -1, 1},
		{5, 5, -1, 1},
		{5, 8, -1, 1},
		{3, 4, -1, 1},
		{3, 5, -1, 1},
		{3, 8, -1, 1},
		{0, 4, 4, 4},
		{0, 5, 5, 5},
		{0, 8, 8, 8},
	}
	for _, tt := range tests {
		got := r.Delta(tt.remaining, tt.length)
		if got != tt.delta {
			t.Errorf("Delta(%d, %d) = %d, want %d", tt.remaining, tt.length, got, tt.delta)
		}
		if d := Deduction(got); d != tt.deduction {
			t.Errorf("Deduction(%d) = %d, want %d", got, d, tt.deduction)
		}
		if IsLate(got) != (tt.remaining > 0 && tt.remaining <= 5) {
			t.Errorf("IsLate(%d) mismatch for remaining %d", got, tt.remaining)
		}
	}
}

func TestDeltaZeroIsNotLate(t *testing.T) {
	r := DefaultRules()
	r.BasePoints = 0
	if got := r.Delta(8, 4); got != 0 {
		t.Fatalf("expected zero delta, got %d", got)
	}
	if IsLate(0) {
		t.Fatal("zero delta must count as accepted")
	}
}

func TestLengthBonusIndependentOfMinimum(t *testing.T) {
	r := DefaultRules()
	r.MinWordLength = 3
	if got := r.Delta(8, 5); got != 5 {
		t.Fatalf("expected base 4 + 1 bonus letter, got %d", got)
	}
	if got := r.Delta(8, 3); got != 4 {
		t.Fatalf("expected no bonus below the bonus length, got %d", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Crane ":  "crane",
		"EAGLE":     "eagle",
		"\tmoose\n": "moose",
		"":          "",
		"   ":       "",
		"CAFÉ":      "café",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
