// internal/game/sources.go
//
// Collaborator seams for the engine:
//   - Validator: decides whether a normalized word is a real word.
//   - LetterSource: picks the starting chain letter.
//   - Scheduler: one-shot timers for the turn clock and the display delay.
//
// Production implementations live here (random letters, wall clock);
// tests swap in deterministic fakes.

package game

import (
	"context"
	"math/rand/v2"
	"time"
)

// Validator resolves whether word has at least one dictionary meaning.
// An error is treated the same as false by the engine.
type Validator interface {
	Validate(ctx context.Context, word string) (bool, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, word string) (bool, error)

func (f ValidatorFunc) Validate(ctx context.Context, word string) (bool, error) {
	return f(ctx, word)
}

// AcceptAll is a Validator that accepts every word.
var AcceptAll = ValidatorFunc(func(context.Context, string) (bool, error) { return true, nil })

// LetterSource picks the starting letter of a match.
type LetterSource interface {
	Letter() string
}

// FixedLetter always returns the same letter.
type FixedLetter string

func (f FixedLetter) Letter() string { return string(f) }

// RandomLetters draws a uniformly random letter a-z.
type RandomLetters struct{}

func (RandomLetters) Letter() string {
	return string(rune('a' + rand.IntN(26)))
}

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// WallClock schedules with time.AfterFunc.
type WallClock struct{}

func (WallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
