// Package celebration decides how milestone and completion feedback surfaces:
// immediately as a modal, or deferred until the player leaves fullscreen.
package celebration

import (
	"sync"

	"course-learning-system/tracker"
)

// Phase is the presentation state machine:
// HIDDEN → PENDING_FULLSCREEN_EXIT → SHOWN → HIDDEN, or HIDDEN → SHOWN →
// HIDDEN directly when not in fullscreen.
type Phase int

const (
	PhaseHidden Phase = iota
	PhasePendingFullscreenExit
	PhaseShown
)

// CuePlayer plays a short audio cue on presentation. Playback failures
// (autoplay restrictions and the like) are swallowed, never surfaced.
type CuePlayer interface {
	Play(name string) error
}

// Sink delivers a shown payload to the UI shell (SSE publish).
type Sink func(tracker.CelebrationPayload)

// Controller presents at most one celebration at a time. A modal must not be
// shown while the player is fullscreen — it would be trapped behind the
// fullscreen element — so the payload is held pending and surfaced on exit.
type Controller struct {
	mu sync.Mutex

	phase      Phase
	fullscreen bool
	pending    *tracker.CelebrationPayload
	current    *tracker.CelebrationPayload

	cue  CuePlayer
	sink Sink
}

func NewController(cue CuePlayer, sink Sink) *Controller {
	return &Controller{cue: cue, sink: sink}
}

// Present shows the payload, or defers it while fullscreen. A later call
// replaces whatever is pending or shown; events are never queued.
func (c *Controller) Present(p tracker.CelebrationPayload) {
	c.mu.Lock()
	if c.fullscreen {
		c.pending = &p
		c.phase = PhasePendingFullscreenExit
		c.mu.Unlock()
		return
	}
	c.showLocked(p)
	c.mu.Unlock()
}

// showLocked transitions to SHOWN and releases the payload to the sink.
// Callers hold c.mu; the sink runs after bookkeeping so it sees final state.
func (c *Controller) showLocked(p tracker.CelebrationPayload) {
	c.current = &p
	c.pending = nil
	c.phase = PhaseShown

	if c.cue != nil {
		_ = c.cue.Play("celebration")
	}
	if c.sink != nil {
		c.sink(p)
	}
}

// EnterFullscreen records that the player occupies the screen.
func (c *Controller) EnterFullscreen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fullscreen = true
}

// ExitFullscreen surfaces any deferred payload.
func (c *Controller) ExitFullscreen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fullscreen = false
	if c.pending != nil {
		c.showLocked(*c.pending)
	}
}

// Dismiss is the explicit user close action on a shown celebration.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseShown {
		c.phase = PhaseHidden
		c.current = nil
	}
}

// Cancel drops pending and shown payloads; called on navigation away so a
// celebration tied to an abandoned video never surfaces.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
	c.current = nil
	c.phase = PhaseHidden
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Current returns the shown payload, if one is visible.
func (c *Controller) Current() (tracker.CelebrationPayload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return tracker.CelebrationPayload{}, false
	}
	return *c.current, true
}
