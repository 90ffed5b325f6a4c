package tracker

import (
	"testing"
	"time"

	"course-learning-system/models"
	"course-learning-system/player"
)

func noopSubmit(lessonID, courseID string, pct float64) (models.ProfileSnapshot, error) {
	return models.ProfileSnapshot{}, nil
}

func noopCallbacks() Callbacks {
	return Callbacks{
		OnMilestone:  func(CelebrationPayload) {},
		OnCompletion: func(CelebrationPayload) {},
		OnError:      func(error) {},
	}
}

func TestRegistryReusesSessionForSameVideo(t *testing.T) {
	r := NewRegistry()
	lesson := testLesson()

	s1, err := r.Open("u1", lesson, PriorProgress{}, noopSubmit, noopCallbacks())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s2, err := r.Open("u1", lesson, PriorProgress{}, noopSubmit, noopCallbacks())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s1 != s2 {
		t.Error("same user + same video must reuse the session")
	}
	if r.Len() != 1 {
		t.Errorf("sessions = %d, want 1", r.Len())
	}
}

func TestRegistryResetsOnVideoChange(t *testing.T) {
	r := NewRegistry()

	s1, _ := r.Open("u1", testLesson(), PriorProgress{}, noopSubmit, noopCallbacks())
	seek(s1, 310, 600)
	if s1.Percentage() < 50 {
		t.Fatalf("setup: percentage = %v", s1.Percentage())
	}

	next := Lesson{ID: "lesson-2", CourseID: "course-1", VideoID: "vid-2", Title: "L2", PointsReward: 100}
	s2, err := r.Open("u1", next, PriorProgress{WatchPercentage: 10}, noopSubmit, noopCallbacks())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s2 != s1 {
		t.Error("video change resets the session in place")
	}
	if s2.VideoID() != "vid-2" {
		t.Errorf("VideoID = %q, want vid-2", s2.VideoID())
	}
	if s2.Percentage() != 10 {
		t.Errorf("percentage = %v, want server-seeded 10", s2.Percentage())
	}
}

func TestRegistryRejectsMissingVideoID(t *testing.T) {
	r := NewRegistry()
	_, err := r.Open("u1", Lesson{ID: "l1"}, PriorProgress{}, noopSubmit, noopCallbacks())
	if err != player.ErrMissingVideoID {
		t.Fatalf("err = %v, want ErrMissingVideoID", err)
	}
}

func TestRegistryDispatchWithoutSession(t *testing.T) {
	r := NewRegistry()
	err := r.Dispatch("nobody", player.Event{Kind: player.EventTimeUpdate})
	if err != ErrNoSession {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestRegistryDispatchRoutesToSession(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Open("u1", testLesson(), PriorProgress{}, noopSubmit, noopCallbacks())
	defer r.Close("u1")

	if err := r.Dispatch("u1", player.Event{Kind: player.EventStateChange, State: player.StatePlaying, CurrentTime: 0, Duration: 100}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if err := r.Dispatch("u1", player.Event{Kind: player.EventTimeUpdate, CurrentTime: 55, Duration: 100}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if s.Percentage() != 55 {
		t.Errorf("percentage = %v, want 55", s.Percentage())
	}
	if s.Phase() != PhaseTracking {
		t.Errorf("phase = %v, want tracking", s.Phase())
	}
}

func TestRegistryCloseDestroysHandle(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Open("u1", testLesson(), PriorProgress{}, noopSubmit, noopCallbacks())

	r.Close("u1")
	if s.handle.Alive() {
		t.Error("close must destroy the player handle")
	}
	if _, ok := r.Get("u1"); ok {
		t.Error("closed session must be removed")
	}
}

func TestRegistryReapIdle(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Open("u1", testLesson(), PriorProgress{}, noopSubmit, noopCallbacks())

	s.mu.Lock()
	s.lastEvent = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	fresh := Lesson{ID: "lesson-2", CourseID: "course-1", VideoID: "vid-2", Title: "L2"}
	r.Open("u2", fresh, PriorProgress{}, noopSubmit, noopCallbacks())

	if reaped := r.ReapIdle(30 * time.Minute); reaped != 1 {
		t.Fatalf("reaped = %d, want 1", reaped)
	}
	if _, ok := r.Get("u1"); ok {
		t.Error("stale session should be gone")
	}
	if _, ok := r.Get("u2"); !ok {
		t.Error("fresh session should survive the reaper")
	}
}
