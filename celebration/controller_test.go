package celebration

import (
	"errors"
	"testing"

	"course-learning-system/tracker"
)

type failingCue struct{ calls int }

func (f *failingCue) Play(name string) error {
	f.calls++
	return errors.New("autoplay blocked")
}

func payload(title string) tracker.CelebrationPayload {
	return tracker.CelebrationPayload{VideoTitle: title, PointsEarned: 100, Completed: true}
}

func TestPresentOutsideFullscreen(t *testing.T) {
	var delivered []tracker.CelebrationPayload
	c := NewController(nil, func(p tracker.CelebrationPayload) {
		delivered = append(delivered, p)
	})

	c.Present(payload("L1"))

	if c.Phase() != PhaseShown {
		t.Fatalf("phase = %v, want PhaseShown", c.Phase())
	}
	if len(delivered) != 1 || delivered[0].VideoTitle != "L1" {
		t.Errorf("delivered = %+v", delivered)
	}

	// Dismissed only by explicit user action.
	c.Dismiss()
	if c.Phase() != PhaseHidden {
		t.Errorf("phase after dismiss = %v, want PhaseHidden", c.Phase())
	}
	if _, ok := c.Current(); ok {
		t.Error("no payload should remain after dismiss")
	}
}

func TestFullscreenDefersModalUntilExit(t *testing.T) {
	var delivered []tracker.CelebrationPayload
	c := NewController(nil, func(p tracker.CelebrationPayload) {
		delivered = append(delivered, p)
	})

	c.EnterFullscreen()
	c.Present(payload("L1"))

	if c.Phase() != PhasePendingFullscreenExit {
		t.Fatalf("phase = %v, want PhasePendingFullscreenExit", c.Phase())
	}
	if len(delivered) != 0 {
		t.Fatal("modal must not surface while fullscreen")
	}

	c.ExitFullscreen()
	if c.Phase() != PhaseShown {
		t.Errorf("phase after exit = %v, want PhaseShown", c.Phase())
	}
	if len(delivered) != 1 {
		t.Errorf("delivered = %d payloads, want 1", len(delivered))
	}
}

func TestLaterPresentReplacesPending(t *testing.T) {
	var delivered []tracker.CelebrationPayload
	c := NewController(nil, func(p tracker.CelebrationPayload) {
		delivered = append(delivered, p)
	})

	c.EnterFullscreen()
	c.Present(payload("first"))
	c.Present(payload("second")) // supersedes, no queueing
	c.ExitFullscreen()

	if len(delivered) != 1 {
		t.Fatalf("delivered = %d payloads, want 1", len(delivered))
	}
	if delivered[0].VideoTitle != "second" {
		t.Errorf("surfaced %q, want the superseding payload", delivered[0].VideoTitle)
	}
}

func TestCancelDropsPendingPayload(t *testing.T) {
	var delivered []tracker.CelebrationPayload
	c := NewController(nil, func(p tracker.CelebrationPayload) {
		delivered = append(delivered, p)
	})

	c.EnterFullscreen()
	c.Present(payload("abandoned"))
	c.Cancel() // navigation away
	c.ExitFullscreen()

	if len(delivered) != 0 {
		t.Error("payload tied to an abandoned video must not surface")
	}
	if c.Phase() != PhaseHidden {
		t.Errorf("phase = %v, want PhaseHidden", c.Phase())
	}
}

func TestAudioFailureIsSwallowed(t *testing.T) {
	cue := &failingCue{}
	c := NewController(cue, func(tracker.CelebrationPayload) {})

	c.Present(payload("L1"))

	if cue.calls != 1 {
		t.Errorf("cue attempts = %d, want 1", cue.calls)
	}
	if c.Phase() != PhaseShown {
		t.Error("cue failure must not block presentation")
	}
}
