// internal/game/types.go
//
// Core type definitions for the word-chain game engine.
// Defines:
//   - Phase: the state machine's current phase.
//   - Player: a seat with a name and a mutable score pool.
//   - Move: one history entry (accepted word or timeout pass).
//   - State: the read-only snapshot handed to the presentation layer.

package game

import "time"

// Phase is the engine's position in the turn state machine.
type Phase string

const (
	PhaseNotStarted   Phase = "not_started"
	PhaseAwaitingMove Phase = "awaiting_move"
	PhaseValidating   Phase = "validating_move"
	PhaseTurnResolved Phase = "turn_resolved"
	PhaseGameOver     Phase = "game_over"
)

// String returns the wire value of the phase.
func (p Phase) String() string { return string(p) }

// PlayerCount is fixed: a match is always two local players.
const PlayerCount = 2

// PassWord is the history label written for a timed-out turn.
const PassWord = "Pass"

// Player is one seat at the table.
type Player struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Move is a single history entry.
type Move struct {
	Word     string `json:"word"`
	ByPlayer int    `json:"byPlayer"`
	Points   int    `json:"points"`   // signed delta; -1 for late, -2 for a pass
	TimeUsed int    `json:"timeUsed"` // seconds spent on the turn
	Pass     bool   `json:"pass,omitempty"`
}

// Rules holds the tunable constants of a match.
type Rules struct {
	TurnLength     int           // seconds per turn
	DisplayDelay   time.Duration // pause between a resolved turn and the next one
	InitialScore   int
	BasePoints     int
	MinWordLength  int
	BonusFrom      int // letters beyond this length earn one point each
	TimeoutPenalty int
	PlayerNames    [PlayerCount]string
}

// DefaultRules returns the standard match rules.
func DefaultRules() Rules {
	return Rules{
		TurnLength:     25,
		DisplayDelay:   1200 * time.Millisecond,
		InitialScore:   100,
		BasePoints:     4,
		MinWordLength:  4,
		BonusFrom:      4,
		TimeoutPenalty: 2,
		PlayerNames:    [PlayerCount]string{"Player 1", "Player 2"},
	}
}

// State is a detached snapshot of a match. Mutating it has no effect on the engine.
type State struct {
	MatchID       string              `json:"matchId"`
	Version       uint64              `json:"version"` // increases with every change
	Players       [PlayerCount]Player `json:"players"`
	CurrentPlayer int                 `json:"currentPlayer"`
	TimeRemaining int                 `json:"timeRemaining"`
	LastLetter    string              `json:"lastLetter"`
	Messages      [PlayerCount]string `json:"messages"`
	Inputs        [PlayerCount]string `json:"inputs"`
	History       []Move              `json:"history"`
	UsedWords     int                 `json:"usedWords"`
	Phase         Phase               `json:"phase"`
	Validating    bool                `json:"validating"`
	Winner        *int                `json:"winner,omitempty"`
}

// HistoryFor returns the moves made by one player, in order.
func (s State) HistoryFor(player int) []Move {
	out := []Move{}
	for _, m := range s.History {
		if m.ByPlayer == player {
			out = append(out, m)
		}
	}
	return out
}
