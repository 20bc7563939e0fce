package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotStarted      = errors.New("match not started")
	ErrMatchInProgress = errors.New("match already in progress")
	ErrGameOver        = errors.New("match is over")
	ErrInvalidPlayer   = errors.New("invalid player")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrNotAwaitingMove = errors.New("not accepting moves")
	ErrClosed          = errors.New("match closed")

	ErrEmptyWord   = errors.New("empty word")
	ErrTooShort    = errors.New("word too short")
	ErrWrongLetter = errors.New("wrong starting letter")
	ErrWordUsed    = errors.New("word already used")
)

// RejectionError is returned when a submission breaks a rule. Message is the
// advisory text recorded in the player's buffer.
type RejectionError struct {
	Err     error
	Message string
}

func (e *RejectionError) Error() string { return e.Err.Error() + ": " + e.Message }

func (e *RejectionError) Unwrap() error { return e.Err }

func reject(err error, msg string) *RejectionError {
	return &RejectionError{Err: err, Message: msg}
}

// Messages written to player buffers.
const (
	msgEmpty    = "Please enter a word."
	msgUsed     = "That word was already used."
	msgInvalid  = "Not a valid English word."
	msgLate     = "Late! -1 point"
	msgAccepted = "Accepted! +%d points."
	msgTimeout  = "Time's up! -%d points."
)

func msgTooShort(n int) string { return fmt.Sprintf("Word must be at least %d letters.", n) }

func msgWrongLetter(letter string) string {
	return fmt.Sprintf("Word must start with '%s'.", strings.ToUpper(letter))
}
