// internal/game/scoring.go
//
// Scoring for accepted words.
//
// Tiers by seconds remaining at submission:
//   - more than 10: base + remaining + length bonus
//   - 6..10:        base + length bonus
//   - 1..5:         flat -1 ("late"), length is ignored
//   - 0:            no tier applies; base + length bonus
//
// The resulting delta is a cost: it is deducted from the acting player's own
// score. A late delta deducts exactly one point.

package game

// Delta computes the signed score delta for a word of wordLen letters
// submitted with timeRemaining seconds left.
func (r Rules) Delta(timeRemaining, wordLen int) int {
	if timeRemaining > 0 && timeRemaining <= 5 {
		return -1
	}
	delta := r.BasePoints
	if timeRemaining > 10 {
		delta += timeRemaining
	}
	if wordLen > r.BonusFrom {
		delta += wordLen - r.BonusFrom
	}
	return delta
}

// Deduction converts a delta into the number of points removed from the score.
func Deduction(delta int) int {
	if delta < 0 {
		return -delta
	}
	return delta
}

// IsLate reports whether delta came from the late tier.
func IsLate(delta int) bool { return delta < 0 }
