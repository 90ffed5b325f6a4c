package services

import (
	"testing"
	"time"

	"course-learning-system/player"
	"course-learning-system/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvPayload(t *testing.T, ch <-chan tracker.CelebrationPayload) tracker.CelebrationPayload {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for celebration payload")
		return tracker.CelebrationPayload{}
	}
}

func TestHubPublishReachesAllUserStreams(t *testing.T) {
	hub := NewCelebrationHub()

	ch1, cancel1 := hub.Subscribe("user-a")
	defer cancel1()
	ch2, cancel2 := hub.Subscribe("user-a")
	defer cancel2()
	other, cancelOther := hub.Subscribe("user-b")
	defer cancelOther()

	sent := tracker.CelebrationPayload{VideoTitle: "Intro to Go", PointsEarned: 100, Completed: true}
	hub.Publish("user-a", sent)

	assert.Equal(t, sent, recvPayload(t, ch1))
	assert.Equal(t, sent, recvPayload(t, ch2))

	select {
	case p := <-other:
		t.Fatalf("user-b received user-a's payload: %+v", p)
	default:
	}
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := NewCelebrationHub()

	_, cancel := hub.Subscribe("user-a")
	require.Equal(t, 1, hub.SubscriberCount("user-a"))

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount("user-a"))

	// publishing to a user with no streams is a no-op
	hub.Publish("user-a", tracker.CelebrationPayload{PointsEarned: 50})
}

func TestHubSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewCelebrationHub()

	ch, cancel := hub.Subscribe("user-a")
	defer cancel()

	// fill well past any buffer; Publish must never block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish("user-a", tracker.CelebrationPayload{PointsEarned: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	// the earliest payloads are still there; later ones were dropped
	first := recvPayload(t, ch)
	assert.Equal(t, int64(0), first.PointsEarned)
}

func TestNormalizeEvent(t *testing.T) {
	buffering := 3
	playingCode := 1

	tests := []struct {
		name     string
		in       PlayerEventInput
		wantOK   bool
		wantKind player.EventKind
	}{
		{"ready", PlayerEventInput{Event: "ready", Duration: 600}, true, player.EventReady},
		{"timeupdate", PlayerEventInput{Event: "timeupdate", CurrentTime: 30, Duration: 600}, true, player.EventTimeUpdate},
		{"playing", PlayerEventInput{Event: "playing"}, true, player.EventStateChange},
		{"ended", PlayerEventInput{Event: "ended"}, true, player.EventStateChange},
		{"raw playing code", PlayerEventInput{Event: "raw_state", RawState: &playingCode}, true, player.EventStateChange},
		{"raw buffering code is transitional", PlayerEventInput{Event: "raw_state", RawState: &buffering}, false, 0},
		{"raw without code", PlayerEventInput{Event: "raw_state"}, false, 0},
		{"unknown name", PlayerEventInput{Event: "seeked"}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := normalizeEvent(tt.in)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantKind, ev.Kind)
				assert.Equal(t, tt.in.CurrentTime, ev.CurrentTime)
				assert.Equal(t, tt.in.Duration, ev.Duration)
			}
		})
	}
}
