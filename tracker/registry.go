package tracker

import (
	"errors"
	"sync"
	"time"

	"course-learning-system/player"
)

var ErrNoSession = errors.New("tracker: no active session for user")

// Registry holds at most one playback session per user. Opening a different
// video for the same user resets the existing session in place: the displayed
// percentage survives, milestone memory does not.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Open returns the user's session for the given lesson, creating or resetting
// as needed.
func (r *Registry) Open(userID string, lesson Lesson, prior PriorProgress, submit SubmitFunc, cb Callbacks) (*Session, error) {
	handle, err := player.NewHandle(lesson.VideoID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[userID]; ok {
		if existing.VideoID() == lesson.VideoID {
			handle.Destroy()
			return existing, nil
		}
		existing.Reset(lesson, handle, prior)
		return existing, nil
	}

	sess := NewSession(userID, lesson, handle, prior, submit, cb)
	r.sessions[userID] = sess
	return sess, nil
}

// Get returns the user's active session, if any.
func (r *Registry) Get(userID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[userID]
	return sess, ok
}

// Dispatch routes a normalized player event to the user's session.
func (r *Registry) Dispatch(userID string, ev player.Event) error {
	sess, ok := r.Get(userID)
	if !ok {
		return ErrNoSession
	}
	sess.HandleEvent(ev)
	return nil
}

// Close tears down and removes the user's session (navigation away).
func (r *Registry) Close(userID string) {
	r.mu.Lock()
	sess, ok := r.sessions[userID]
	if ok {
		delete(r.sessions, userID)
	}
	r.mu.Unlock()

	if ok {
		sess.Close()
	}
}

// ReapIdle closes sessions without player events for longer than maxIdle and
// returns how many were reaped.
func (r *Registry) ReapIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	var stale []*Session
	cutoff := time.Now().Add(-maxIdle)
	for userID, sess := range r.sessions {
		if sess.LastEventAt().Before(cutoff) {
			stale = append(stale, sess)
			delete(r.sessions, userID)
		}
	}
	r.mu.Unlock()

	for _, sess := range stale {
		sess.Close()
	}
	return len(stale)
}

// Len reports the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
