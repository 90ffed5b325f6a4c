package player

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeRawState(t *testing.T) {
	tests := []struct {
		code   int
		want   State
		wantOK bool
	}{
		{-1, StateUnstarted, true},
		{0, StateEnded, true},
		{1, StatePlaying, true},
		{2, StatePaused, true},
		{3, StateUnstarted, false}, // buffering
		{5, StateUnstarted, false}, // cued
		{42, StateUnstarted, false},
	}

	for _, tt := range tests {
		got, ok := NormalizeRawState(tt.code)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeRawState(%d) = (%v, %v), want (%v, %v)",
				tt.code, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNewHandleRequiresVideoID(t *testing.T) {
	if _, err := NewHandle(""); err != ErrMissingVideoID {
		t.Fatalf("expected ErrMissingVideoID, got %v", err)
	}
	h, err := NewHandle("dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.VideoID() != "dQw4w9WgXcQ" {
		t.Errorf("VideoID() = %q", h.VideoID())
	}
}

func TestDurationUnknownGuard(t *testing.T) {
	h, _ := NewHandle("v1")

	if _, ok := h.Duration(); ok {
		t.Error("duration should be unknown before any report")
	}

	h.Observe(Event{Kind: EventReady, Duration: 0})
	if _, ok := h.Duration(); ok {
		t.Error("zero duration must stay unknown")
	}

	h.Observe(Event{Kind: EventReady, Duration: math.NaN()})
	if _, ok := h.Duration(); ok {
		t.Error("NaN duration must stay unknown")
	}

	h.Observe(Event{Kind: EventReady, Duration: 600})
	d, ok := h.Duration()
	if !ok || d != 600 {
		t.Errorf("Duration() = (%v, %v), want (600, true)", d, ok)
	}
}

func TestSubSecondDurationStaysUnknown(t *testing.T) {
	h, _ := NewHandle("v1")

	h.Observe(Event{Kind: EventReady, Duration: 0.5})
	if _, ok := h.Duration(); ok {
		t.Error("sub-second duration must stay unknown")
	}

	h.Observe(Event{Kind: EventReady, Duration: 1})
	if d, ok := h.Duration(); !ok || d != 1 {
		t.Errorf("Duration() = (%v, %v), want (1, true)", d, ok)
	}
}

func TestPositionExtrapolatesWhilePlaying(t *testing.T) {
	h, _ := NewHandle("v1")
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := base
	h.now = func() time.Time { return now }

	h.Observe(Event{Kind: EventReady, Duration: 600})
	h.Observe(Event{Kind: EventStateChange, State: StatePlaying, CurrentTime: 100})

	now = base.Add(5 * time.Second)
	if pos := h.Position(); pos != 105 {
		t.Errorf("Position() = %v, want 105", pos)
	}

	// Pausing freezes the extrapolated position.
	h.Observe(Event{Kind: EventStateChange, State: StatePaused})
	now = base.Add(60 * time.Second)
	if pos := h.Position(); pos != 105 {
		t.Errorf("Position() after pause = %v, want 105", pos)
	}
}

func TestPositionCappedAtDuration(t *testing.T) {
	h, _ := NewHandle("v1")
	base := time.Now()
	now := base
	h.now = func() time.Time { return now }

	h.Observe(Event{Kind: EventReady, Duration: 120})
	h.Observe(Event{Kind: EventStateChange, State: StatePlaying, CurrentTime: 115})

	now = base.Add(30 * time.Second)
	if pos := h.Position(); pos != 120 {
		t.Errorf("Position() = %v, want cap at 120", pos)
	}
}

func TestDestroyedHandleIgnoresEvents(t *testing.T) {
	h, _ := NewHandle("v1")
	h.Observe(Event{Kind: EventReady, Duration: 600})
	h.Destroy()

	if h.Alive() {
		t.Error("handle should be dead after Destroy")
	}

	h.Observe(Event{Kind: EventTimeUpdate, CurrentTime: 300})
	if pos := h.Position(); pos != 0 {
		t.Errorf("dead handle recorded a position: %v", pos)
	}

	// Destroy is idempotent.
	h.Destroy()
}
