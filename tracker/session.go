// Package tracker owns watch-time sampling, percentage computation, milestone
// detection and the completion trigger for one playback session per
// (user, video).
package tracker

import (
	"context"
	"math"
	"sync"
	"time"

	"course-learning-system/models"
	"course-learning-system/player"
)

// Phase is the tracker's sampling state for the current session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTracking
	PhasePaused
	PhaseEnded
)

// Milestones are the watch-percentage thresholds that fire one-time side
// effects per session. The last one is the completion trigger.
var Milestones = []int{30, 50, 90}

const completionThreshold = 90

// DefaultSampleInterval is the sampling cadence while playing. 1 Hz is enough
// for UX-grade progress without burning CPU.
const DefaultSampleInterval = time.Second

// Lesson is the narrow lesson shape the tracker needs.
type Lesson struct {
	ID           string
	CourseID     string
	VideoID      string
	Title        string
	PointsReward int64
}

// PriorProgress seeds a session from server-persisted state, so reopening a
// partially-watched video shows prior progress rather than zero.
type PriorProgress struct {
	WatchPercentage float64
	Completed       bool
}

// CelebrationPayload is constructed from a milestone or completion event and
// consumed once by the presentation layer.
type CelebrationPayload struct {
	PointsEarned    int64   `json:"points_earned"`
	TotalPoints     int64   `json:"total_points"`
	CurrentStreak   int     `json:"current_streak"`
	VideoTitle      string  `json:"video_title"`
	WatchPercentage float64 `json:"watch_percentage"`
	Completed       bool    `json:"completed"`
}

// SubmitFunc persists a completion and returns the authoritative profile
// aggregate. It must be idempotent per (user, lesson).
type SubmitFunc func(lessonID, courseID string, watchPercentage float64) (models.ProfileSnapshot, error)

// Callbacks are the tracker's presentation boundary.
type Callbacks struct {
	OnMilestone  func(CelebrationPayload)
	OnCompletion func(CelebrationPayload)
	OnError      func(error)
}

// Session is the per-(user, video) tracking state machine. All side effects
// fire at most once per session; the crossed-milestone set only grows, so
// rewinding below a threshold never retracts it.
type Session struct {
	mu sync.Mutex

	userID string
	lesson Lesson
	handle *player.Handle

	phase      Phase
	crossed    map[int]bool
	completed  bool // server truth at open; set optimistically on trigger
	submitting bool
	percentage float64

	submit   SubmitFunc
	cb       Callbacks
	interval time.Duration

	cancel    context.CancelFunc
	lastEvent time.Time
	closed    bool
}

// NewSession opens a tracking session seeded with server-persisted progress.
func NewSession(userID string, lesson Lesson, handle *player.Handle, prior PriorProgress, submit SubmitFunc, cb Callbacks) *Session {
	return &Session{
		userID:     userID,
		lesson:     lesson,
		handle:     handle,
		crossed:    make(map[int]bool),
		completed:  prior.Completed,
		percentage: prior.WatchPercentage,
		submit:     submit,
		cb:         cb,
		interval:   DefaultSampleInterval,
		lastEvent:  time.Now(),
	}
}

func (s *Session) UserID() string { return s.userID }
func (s *Session) LessonID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lesson.ID
}

func (s *Session) VideoID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lesson.VideoID
}

func (s *Session) Handle() *player.Handle { return s.handle }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Percentage is the displayed watch percentage, monotonic for display even
// when the player position rewinds.
func (s *Session) Percentage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.percentage
}

func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// LastEventAt is used by the idle-session reaper.
func (s *Session) LastEventAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEvent
}

// HandleEvent feeds one normalized player event through the state machine.
func (s *Session) HandleEvent(ev player.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.handle.Observe(ev)
	s.lastEvent = time.Now()

	switch ev.Kind {
	case player.EventStateChange:
		switch ev.State {
		case player.StatePlaying:
			s.startSamplingLocked()
		case player.StatePaused:
			s.stopSamplingLocked()
			s.phase = PhasePaused
		case player.StateEnded:
			s.stopSamplingLocked()
			s.phase = PhaseEnded
			// Players can jump straight to ENDED after a seek; force the
			// completion trigger even if no 90% sample was ever taken.
			s.sampleLocked()
			if !s.completed {
				s.percentage = 100
				s.crossed[completionThreshold] = true
				s.triggerCompletionLocked(100)
			}
		}
	case player.EventTimeUpdate:
		if s.phase == PhaseTracking {
			s.sampleLocked()
		}
	}
}

func (s *Session) startSamplingLocked() {
	if s.phase == PhaseTracking {
		return
	}
	s.phase = PhaseTracking

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)
}

func (s *Session) stopSamplingLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sample()
		}
	}
}

// Sample takes one reading from the player handle and runs milestone checks.
func (s *Session) Sample() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sampleLocked()
}

func (s *Session) sampleLocked() {
	if s.closed || !s.handle.Alive() {
		return
	}

	duration, ok := s.handle.Duration()
	if !ok {
		// duration unknown: no percentage, no milestone checks
		return
	}

	pct := s.handle.Position() / duration * 100
	if pct > 100 {
		pct = 100
	}
	if pct > s.percentage {
		s.percentage = pct
	}
	s.checkMilestonesLocked(pct)
}

func (s *Session) checkMilestonesLocked(pct float64) {
	for _, m := range Milestones {
		if s.crossed[m] || pct < float64(m) {
			continue
		}
		s.crossed[m] = true

		if m == completionThreshold {
			if !s.completed {
				s.triggerCompletionLocked(pct)
			}
			continue
		}

		// Partial credit is advisory only, never persisted.
		s.cb.OnMilestone(CelebrationPayload{
			PointsEarned:    int64(math.Floor(pct * 0.5)),
			VideoTitle:      s.lesson.Title,
			WatchPercentage: pct,
		})
	}
}

// triggerCompletionLocked sets the optimistic completed flag in the same
// synchronous turn as the trigger, so a second ENDED arriving before the
// submission resolves is deduplicated here, not by network idempotency.
func (s *Session) triggerCompletionLocked(pct float64) {
	if s.submitting {
		return
	}
	s.completed = true
	s.submitting = true
	s.stopSamplingLocked()

	lessonID, courseID := s.lesson.ID, s.lesson.CourseID
	go s.submitCompletion(lessonID, courseID, pct)
}

func (s *Session) submitCompletion(lessonID, courseID string, pct float64) {
	snap, err := s.submit(lessonID, courseID, pct)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		// Roll back the optimistic flag so a retry is possible.
		s.completed = false
		cb := s.cb.OnError
		s.mu.Unlock()
		if cb != nil {
			cb(err)
		}
		return
	}
	payload := CelebrationPayload{
		PointsEarned:    s.lesson.PointsReward,
		TotalPoints:     snap.Points,
		CurrentStreak:   snap.CurrentStreak,
		VideoTitle:      s.lesson.Title,
		WatchPercentage: pct,
		Completed:       true,
	}
	s.mu.Unlock()

	s.cb.OnCompletion(payload)
}

// Reset switches the session to a new video: milestone-crossing memory is
// dropped, the displayed percentage is re-seeded from server state, and the
// old player handle is destroyed.
func (s *Session) Reset(lesson Lesson, handle *player.Handle, prior PriorProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopSamplingLocked()
	if s.handle != nil {
		s.handle.Destroy()
	}

	s.lesson = lesson
	s.handle = handle
	s.phase = PhaseIdle
	s.crossed = make(map[int]bool)
	s.completed = prior.Completed
	s.submitting = false
	s.percentage = prior.WatchPercentage
	s.lastEvent = time.Now()
}

// Close tears the session down; the sampler is cancelled and the handle
// destroyed on every exit path.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopSamplingLocked()
	if s.handle != nil {
		s.handle.Destroy()
	}
}
