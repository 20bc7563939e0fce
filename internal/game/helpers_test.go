package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// manualClock is a Scheduler driven by Advance. Callbacks run on the test
// goroutine in due-time order.
type manualClock struct {
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	end := c.now + d
	for {
		var next *manualTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > end {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.f()
	}
	c.now = end
}

// pending counts timers that have neither fired nor been stopped.
func (c *manualClock) pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// dictionary is a stub Validator over a fixed word set.
func dictionary(words ...string) Validator {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return ValidatorFunc(func(_ context.Context, w string) (bool, error) {
		return set[w], nil
	})
}

var errLookup = errors.New("lookup failed")

func failingValidator() Validator {
	return ValidatorFunc(func(context.Context, string) (bool, error) { return false, errLookup })
}

type harness struct {
	e     *Engine
	clock *manualClock
}

// newHarness builds an engine with a fixed start letter, a manual clock and
// synchronous validation.
func newHarness(t *testing.T, letter string, v Validator, rules *Rules) *harness {
	t.Helper()
	clock := &manualClock{}
	logger := zerolog.Nop()
	e := New("test-match", v, Options{
		Rules:     rules,
		Letters:   FixedLetter(letter),
		Scheduler: clock,
		Logger:    &logger,
		Spawn:     func(f func()) { f() },
	})
	t.Cleanup(e.Close)
	return &harness{e: e, clock: clock}
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	if err := h.e.StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
}

// accept submits a word that must be accepted and advances past the display delay.
func (h *harness) accept(t *testing.T, player int, word string) {
	t.Helper()
	if err := h.e.SubmitWord(player, word); err != nil {
		t.Fatalf("submit %q by %d: %v", word, player, err)
	}
	if st := h.e.State(); st.Phase != PhaseTurnResolved {
		t.Fatalf("after %q expected %s, got %s (message %q)", word, PhaseTurnResolved, st.Phase, st.Messages[player])
	}
	h.clock.Advance(h.e.Rules().DisplayDelay)
}
