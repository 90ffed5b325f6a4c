// Package player normalizes an embedded video player's control surface into
// four observable states and a pollable position/duration accessor. Nothing
// downstream of this package sees a third-party SDK enum.
package player

import (
	"errors"
	"math"
	"sync"
	"time"
)

// State is the normalized lifecycle state of an embedded player.
type State int

const (
	StateUnstarted State = iota
	StatePlaying
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return "unstarted"
	}
}

// Raw IFrame API state codes. Kept private: they exist only to be
// translated once at this boundary.
const (
	rawUnstarted = -1
	rawEnded     = 0
	rawPlaying   = 1
	rawPaused    = 2
	rawBuffering = 3
	rawCued      = 5
)

// NormalizeRawState maps a raw SDK state code to a normalized State.
// Buffering and cued are transitional; ok is false when the code carries no
// transition the tracker should act on.
func NormalizeRawState(code int) (State, bool) {
	switch code {
	case rawUnstarted:
		return StateUnstarted, true
	case rawEnded:
		return StateEnded, true
	case rawPlaying:
		return StatePlaying, true
	case rawPaused:
		return StatePaused, true
	case rawBuffering, rawCued:
		return StateUnstarted, false
	default:
		return StateUnstarted, false
	}
}

// EventKind discriminates normalized player events.
type EventKind int

const (
	EventReady EventKind = iota
	EventStateChange
	EventTimeUpdate
	EventFullscreenEnter
	EventFullscreenExit
)

// Event is the single normalized variant type the tracker consumes.
type Event struct {
	Kind        EventKind
	State       State // meaningful for EventStateChange only
	CurrentTime float64
	Duration    float64
}

var ErrMissingVideoID = errors.New("player: missing video id")

// Handle represents one mounted player instance for one video. It records the
// client-reported playback position and extrapolates it while playing, so the
// 1 Hz sampler sees smooth progress between reports.
type Handle struct {
	mu sync.Mutex

	videoID    string
	duration   float64
	lastTime   float64
	reportedAt time.Time
	playing    bool
	ready      bool
	destroyed  bool

	now func() time.Time
}

// NewHandle fails when the video id is absent; the caller reports the
// initialization error instead of mounting a dead player.
func NewHandle(videoID string) (*Handle, error) {
	if videoID == "" {
		return nil, ErrMissingVideoID
	}
	return &Handle{videoID: videoID, now: time.Now}, nil
}

func (h *Handle) VideoID() string {
	return h.videoID
}

// Observe folds a normalized event into the handle. Observing a destroyed
// handle is a guarded no-op.
func (h *Handle) Observe(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return
	}

	if ev.Duration > 0 && !math.IsNaN(ev.Duration) {
		h.duration = ev.Duration
	}

	switch ev.Kind {
	case EventReady:
		h.ready = true
	case EventTimeUpdate:
		h.lastTime = ev.CurrentTime
		h.reportedAt = h.now()
	case EventStateChange:
		if ev.CurrentTime > 0 || ev.State == StateUnstarted {
			h.lastTime = ev.CurrentTime
			h.reportedAt = h.now()
		}
		switch ev.State {
		case StatePlaying:
			h.playing = true
		case StatePaused, StateEnded, StateUnstarted:
			// freeze the position at the moment playback stopped
			h.lastTime = h.positionLocked()
			h.reportedAt = h.now()
			h.playing = false
		}
	}
}

// Position returns the current playback time in seconds, extrapolated from
// the last client report while playing and capped at the known duration.
func (h *Handle) Position() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.positionLocked()
}

func (h *Handle) positionLocked() float64 {
	pos := h.lastTime
	if h.playing && !h.reportedAt.IsZero() {
		pos += h.now().Sub(h.reportedAt).Seconds()
	}
	if h.duration > 0 && pos > h.duration {
		pos = h.duration
	}
	return pos
}

// Duration returns the reported duration; ok is false while it is unknown.
// A read of 0 or NaN stays unknown so no percentage is ever computed against
// a zero divisor, and sub-second videos stay unknown too — a denominator
// under one second turns every sample into an instant completion.
func (h *Handle) Duration() (float64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.duration < 1 || math.IsNaN(h.duration) {
		return 0, false
	}
	return h.duration, true
}

func (h *Handle) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

func (h *Handle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// Alive reports whether the handle can still be sampled.
func (h *Handle) Alive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.destroyed
}

// Destroy marks the handle dead. Idempotent; invoked on unmount, video change
// and every error exit path.
func (h *Handle) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = true
	h.playing = false
}
