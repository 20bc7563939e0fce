// internal/game/engine.go
//
// Core state machine for a single two-player word-chain match.
// Responsibilities:
//   - Start a match with a random chain letter and a running turn clock.
//   - Validate submissions (length, chain letter, repeats) and hand the word
//     to the Validator asynchronously.
//   - Score accepted words, apply timeout penalties, alternate turns.
//   - Detect the end of the match and cancel all pending work.
//
// Notes:
//   - All mutable state is guarded by mu. Timer and validator callbacks carry
//     the (gen, turn) pair they were created under and are dropped when it no
//     longer matches, so a stale clock or a late dictionary answer can never
//     touch a newer turn or a reset match.
//   - Snapshots are published after mu is released, so two publishes may
//     arrive out of order. State.Version is assigned under mu; consumers keep
//     the highest version they have seen.
package game

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultValidateTimeout = 8 * time.Second

// Options configures an Engine. Zero values select production defaults.
type Options struct {
	Rules           *Rules
	Letters         LetterSource
	Scheduler       Scheduler
	Logger          *zerolog.Logger
	Publish         func(State)  // called after every state change
	Spawn           func(func()) // runs validator calls; defaults to a goroutine
	ValidateTimeout time.Duration
}

// turnBuffer is the transient per-player input/message pair.
type turnBuffer struct {
	Input   string
	Message string
}

// pendingMove is a submission waiting on the Validator.
type pendingMove struct {
	gen       uint64
	turn      uint64
	player    int
	word      string
	remaining int
}

// Engine owns all state of one match.
type Engine struct {
	id              string
	rules           Rules
	validator       Validator
	letters         LetterSource
	sched           Scheduler
	publish         func(State)
	spawn           func(func())
	validateTimeout time.Duration
	log             zerolog.Logger

	mu         sync.Mutex
	gen        uint64 // bumped on reset and close
	version    uint64 // bumped on every published change, never reset
	turn       uint64 // bumped on every turn transition
	players    [PlayerCount]Player
	current    int
	used       map[string]struct{}
	lastLetter string
	history    []Move
	remaining  int
	phase      Phase
	buffers    map[int]*turnBuffer
	winner     int

	clock          Timer // per-second tick
	delay          Timer // display delay before switchTurn
	cancelValidate context.CancelFunc
	closed         bool
}

// New constructs an engine in PhaseNotStarted.
// If id is empty a random UUID is used. A nil validator accepts every word.
func New(id string, v Validator, opts Options) *Engine {
	if id == "" {
		id = uuid.NewString()
	}
	if v == nil {
		v = AcceptAll
	}
	e := &Engine{
		id:              id,
		rules:           DefaultRules(),
		validator:       v,
		letters:         opts.Letters,
		sched:           opts.Scheduler,
		publish:         opts.Publish,
		spawn:           opts.Spawn,
		validateTimeout: opts.ValidateTimeout,
	}
	if opts.Rules != nil {
		e.rules = *opts.Rules
	}
	if e.letters == nil {
		e.letters = RandomLetters{}
	}
	if e.sched == nil {
		e.sched = WallClock{}
	}
	if e.spawn == nil {
		e.spawn = func(f func()) { go f() }
	}
	if e.validateTimeout <= 0 {
		e.validateTimeout = defaultValidateTimeout
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	e.log = logger.With().Str("match", id).Logger()
	e.resetLocked()
	return e
}

// ID returns the match identifier.
func (e *Engine) ID() string { return e.id }

// Rules returns the rules the match runs under.
func (e *Engine) Rules() Rules { return e.rules }

// State returns a snapshot of the match.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// StartGame draws the starting letter and starts player 0's clock.
// Valid only from PhaseNotStarted; a finished match must be reset first.
func (e *Engine) StartGame() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	switch e.phase {
	case PhaseNotStarted:
	case PhaseGameOver:
		e.mu.Unlock()
		return ErrGameOver
	default:
		e.mu.Unlock()
		return ErrMatchInProgress
	}
	e.lastLetter = e.letters.Letter()
	e.remaining = e.rules.TurnLength
	e.phase = PhaseAwaitingMove
	e.turn++
	e.armClockLocked()
	e.log.Info().Str("letter", e.lastLetter).Int("player", e.current).Msg("match started")
	st := e.changedLocked()
	e.mu.Unlock()

	e.emit(st)
	return nil
}

// SubmitWord checks a submission from player and, if it passes the local
// rules, sends it to the Validator. A nil return means validation is in flight;
// the outcome arrives through Publish and State.
//
// Rule failures return a *RejectionError and leave the turn with the player.
func (e *Engine) SubmitWord(player int, raw string) error {
	e.mu.Lock()
	if err := e.acceptingLocked(player); err != nil {
		e.mu.Unlock()
		return err
	}

	buf := e.buffers[player]
	buf.Input = raw
	word := Normalize(raw)
	if rej := e.checkLocked(word); rej != nil {
		buf.Message = rej.Message
		e.log.Debug().Int("player", player).Str("word", word).Str("reason", rej.Err.Error()).Msg("submission rejected")
		st := e.changedLocked()
		e.mu.Unlock()
		e.emit(st)
		return rej
	}

	req := pendingMove{gen: e.gen, turn: e.turn, player: player, word: word, remaining: e.remaining}
	ctx, cancel := context.WithTimeout(context.Background(), e.validateTimeout)
	e.cancelValidate = cancel
	e.phase = PhaseValidating
	buf.Message = ""
	e.log.Debug().Int("player", player).Str("word", word).Int("remaining", e.remaining).Msg("validating word")
	st := e.changedLocked()
	e.mu.Unlock()

	e.emit(st)
	e.spawn(func() {
		ok, err := e.validator.Validate(ctx, word)
		cancel()
		e.resolve(req, ok, err)
	})
	return nil
}

// Tick advances the turn clock by one second. It is a no-op outside
// PhaseAwaitingMove. Reaching zero applies the timeout penalty exactly once.
func (e *Engine) Tick() {
	e.mu.Lock()
	if e.closed || e.phase != PhaseAwaitingMove {
		e.mu.Unlock()
		return
	}
	e.tickLocked()
	st := e.changedLocked()
	e.mu.Unlock()
	e.emit(st)
}

// ResetGame discards the match and returns to PhaseNotStarted from any phase.
// Pending timers are stopped and in-flight validation results are dropped.
func (e *Engine) ResetGame() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.resetLocked()
	e.log.Info().Msg("match reset")
	st := e.changedLocked()
	e.mu.Unlock()
	e.emit(st)
}

// Close stops all timers and cancels validation. The engine rejects every
// intent afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.gen++
	e.stopTimersLocked()
	e.closed = true
	e.log.Debug().Msg("match closed")
}

// ------------------------------ transitions --------------------------------

// acceptingLocked checks phase and turn ownership for a submission.
func (e *Engine) acceptingLocked(player int) error {
	if e.closed {
		return ErrClosed
	}
	if player < 0 || player >= PlayerCount {
		return ErrInvalidPlayer
	}
	switch e.phase {
	case PhaseAwaitingMove:
	case PhaseNotStarted:
		return ErrNotStarted
	case PhaseGameOver:
		return ErrGameOver
	default:
		return ErrNotAwaitingMove
	}
	if player != e.current {
		return ErrNotYourTurn
	}
	return nil
}

// checkLocked applies the local rules in order, stopping at the first failure.
func (e *Engine) checkLocked(word string) *RejectionError {
	if word == "" {
		return reject(ErrEmptyWord, msgEmpty)
	}
	if utf8.RuneCountInString(word) < e.rules.MinWordLength {
		return reject(ErrTooShort, msgTooShort(e.rules.MinWordLength))
	}
	if e.lastLetter != "" && firstLetter(word) != e.lastLetter {
		return reject(ErrWrongLetter, msgWrongLetter(e.lastLetter))
	}
	if _, dup := e.used[word]; dup {
		return reject(ErrWordUsed, msgUsed)
	}
	return nil
}

// resolve applies a Validator outcome if it still belongs to the live turn.
func (e *Engine) resolve(req pendingMove, ok bool, err error) {
	e.mu.Lock()
	if req.gen != e.gen || req.turn != e.turn || e.phase != PhaseValidating {
		e.mu.Unlock()
		e.log.Debug().Str("word", req.word).Msg("discarding stale validation result")
		return
	}
	e.cancelValidate = nil
	buf := e.buffers[req.player]

	if err != nil {
		e.log.Warn().Err(err).Str("word", req.word).Msg("word lookup failed")
		ok = false
	}
	if !ok {
		buf.Message = msgInvalid
		e.phase = PhaseAwaitingMove
		e.log.Debug().Int("player", req.player).Str("word", req.word).Msg("word not in dictionary")
		st := e.changedLocked()
		e.mu.Unlock()
		e.emit(st)
		return
	}

	delta := e.rules.Delta(req.remaining, utf8.RuneCountInString(req.word))
	e.used[req.word] = struct{}{}
	e.lastLetter = lastLetter(req.word)
	e.history = append(e.history, Move{
		Word:     req.word,
		ByPlayer: req.player,
		Points:   delta,
		TimeUsed: e.rules.TurnLength - req.remaining,
	})
	if IsLate(delta) {
		buf.Message = msgLate
	} else {
		buf.Message = fmt.Sprintf(msgAccepted, delta)
	}
	e.phase = PhaseTurnResolved
	e.stopClockLocked()
	e.log.Info().
		Int("player", req.player).
		Str("word", req.word).
		Int("delta", delta).
		Int("remaining", req.remaining).
		Msg("word accepted")

	if !e.applyScoreLocked(req.player, Deduction(delta)) {
		e.scheduleSwitchLocked()
	}
	st := e.changedLocked()
	e.mu.Unlock()
	e.emit(st)
}

func (e *Engine) tickLocked() {
	e.remaining--
	if e.remaining > 0 {
		return
	}
	e.remaining = 0
	e.timeoutLocked()
}

// timeoutLocked charges the current player for running out of time.
func (e *Engine) timeoutLocked() {
	p := e.current
	e.stopClockLocked()
	e.buffers[p].Message = fmt.Sprintf(msgTimeout, e.rules.TimeoutPenalty)
	e.history = append(e.history, Move{
		Word:     PassWord,
		ByPlayer: p,
		Points:   -e.rules.TimeoutPenalty,
		TimeUsed: 0,
		Pass:     true,
	})
	e.phase = PhaseTurnResolved
	e.log.Info().Int("player", p).Int("penalty", e.rules.TimeoutPenalty).Msg("turn timed out")

	if !e.applyScoreLocked(p, e.rules.TimeoutPenalty) {
		e.scheduleSwitchLocked()
	}
}

// applyScoreLocked deducts points and runs the win check.
// It reports whether the match just ended.
func (e *Engine) applyScoreLocked(player, deduction int) bool {
	e.players[player].Score -= deduction
	if e.players[player].Score > 0 {
		return false
	}
	e.winner = 1 - player
	e.phase = PhaseGameOver
	e.stopTimersLocked()
	e.log.Info().
		Int("winner", e.winner).
		Int("loser", player).
		Int("score", e.players[player].Score).
		Msg("match over")
	return true
}

// switchTurnLocked hands the turn to the other player with a fresh clock.
func (e *Engine) switchTurnLocked() {
	e.current = 1 - e.current
	e.clearBuffersLocked()
	e.remaining = e.rules.TurnLength
	e.turn++
	e.phase = PhaseAwaitingMove
	e.armClockLocked()
	e.log.Debug().Int("player", e.current).Str("letter", e.lastLetter).Msg("turn switched")
}

func (e *Engine) resetLocked() {
	e.gen++
	e.turn++
	e.stopTimersLocked()
	for i := range e.players {
		e.players[i] = Player{Name: e.rules.PlayerNames[i], Score: e.rules.InitialScore}
	}
	e.current = 0
	e.used = make(map[string]struct{})
	e.lastLetter = ""
	e.history = nil
	e.remaining = e.rules.TurnLength
	e.phase = PhaseNotStarted
	e.winner = -1
	e.clearBuffersLocked()
}

func (e *Engine) clearBuffersLocked() {
	e.buffers = make(map[int]*turnBuffer, PlayerCount)
	for i := 0; i < PlayerCount; i++ {
		e.buffers[i] = &turnBuffer{}
	}
}

// -------------------------------- timers -----------------------------------

// armClockLocked replaces the turn clock with a fresh one-second timer.
func (e *Engine) armClockLocked() {
	e.stopClockLocked()
	gen, turn := e.gen, e.turn
	e.clock = e.sched.AfterFunc(time.Second, func() { e.onClock(gen, turn) })
}

func (e *Engine) onClock(gen, turn uint64) {
	e.mu.Lock()
	if gen != e.gen || turn != e.turn {
		e.mu.Unlock()
		return
	}
	changed := false
	if e.phase == PhaseAwaitingMove {
		e.tickLocked()
		changed = true
	}
	// The clock holds while a word is being validated.
	if e.phase == PhaseAwaitingMove || e.phase == PhaseValidating {
		e.clock = e.sched.AfterFunc(time.Second, func() { e.onClock(gen, turn) })
	}
	var st State
	if changed {
		st = e.changedLocked()
	}
	e.mu.Unlock()
	if changed {
		e.emit(st)
	}
}

func (e *Engine) scheduleSwitchLocked() {
	gen, turn := e.gen, e.turn
	e.delay = e.sched.AfterFunc(e.rules.DisplayDelay, func() { e.onSwitch(gen, turn) })
}

func (e *Engine) onSwitch(gen, turn uint64) {
	e.mu.Lock()
	if gen != e.gen || turn != e.turn || e.phase != PhaseTurnResolved {
		e.mu.Unlock()
		return
	}
	e.delay = nil
	e.switchTurnLocked()
	st := e.changedLocked()
	e.mu.Unlock()
	e.emit(st)
}

func (e *Engine) stopClockLocked() {
	if e.clock != nil {
		e.clock.Stop()
		e.clock = nil
	}
}

func (e *Engine) stopTimersLocked() {
	e.stopClockLocked()
	if e.delay != nil {
		e.delay.Stop()
		e.delay = nil
	}
	if e.cancelValidate != nil {
		e.cancelValidate()
		e.cancelValidate = nil
	}
}

// ------------------------------- snapshots ---------------------------------

// changedLocked records a mutation and returns the snapshot to publish.
// Versions follow mutation order even when emits race after unlock.
func (e *Engine) changedLocked() State {
	e.version++
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() State {
	st := State{
		MatchID:       e.id,
		Version:       e.version,
		Players:       e.players,
		CurrentPlayer: e.current,
		TimeRemaining: e.remaining,
		LastLetter:    e.lastLetter,
		History:       append([]Move{}, e.history...),
		UsedWords:     len(e.used),
		Phase:         e.phase,
		Validating:    e.phase == PhaseValidating,
	}
	for i, b := range e.buffers {
		st.Messages[i] = b.Message
		st.Inputs[i] = b.Input
	}
	if e.phase == PhaseGameOver && e.winner >= 0 {
		w := e.winner
		st.Winner = &w
	}
	return st
}

func (e *Engine) emit(st State) {
	if e.publish != nil {
		e.publish(st)
	}
}
