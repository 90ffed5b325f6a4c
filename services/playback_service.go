package services

import (
	"fmt"
	"log"
	"sync"

	"course-learning-system/celebration"
	"course-learning-system/models"
	"course-learning-system/player"
	"course-learning-system/tracker"

	"gorm.io/gorm"
)

// PlayerEventInput is the wire shape of one client-reported player event.
// Either Event carries a normalized name or RawState carries the SDK code.
type PlayerEventInput struct {
	LessonID    string  `json:"lesson_id" validate:"required,uuid"`
	Event       string  `json:"event" validate:"required,oneof=ready playing paused ended timeupdate fullscreen_enter fullscreen_exit raw_state"`
	RawState    *int    `json:"raw_state,omitempty"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
}

// PlaybackService owns the live session registry and the per-user celebration
// controllers, and feeds completion triggers into the submission pipeline.
type PlaybackService struct {
	DB *gorm.DB

	Registry   *tracker.Registry
	Hub        *CelebrationHub
	completion *CompletionService
	courses    *CourseService

	mu          sync.Mutex
	controllers map[string]*celebration.Controller
	cue         celebration.CuePlayer
}

func NewPlaybackService(db *gorm.DB, hub *CelebrationHub, cue celebration.CuePlayer) *PlaybackService {
	return &PlaybackService{
		DB:          db,
		Registry:    tracker.NewRegistry(),
		Hub:         hub,
		completion:  NewCompletionService(db),
		courses:     NewCourseService(db),
		controllers: make(map[string]*celebration.Controller),
		cue:         cue,
	}
}

func (s *PlaybackService) controllerFor(userID string) *celebration.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctrl, ok := s.controllers[userID]; ok {
		return ctrl
	}
	ctrl := celebration.NewController(s.cue, func(p tracker.CelebrationPayload) {
		s.Hub.Publish(userID, p)
	})
	s.controllers[userID] = ctrl
	return ctrl
}

// HandlePlayerEvent normalizes one client event and routes it through the
// user's tracking session, opening or resetting the session as needed.
func (s *PlaybackService) HandlePlayerEvent(userID string, in PlayerEventInput) error {
	ctrl := s.controllerFor(userID)

	// Fullscreen transitions drive celebration deferral, not tracking.
	switch in.Event {
	case "fullscreen_enter":
		ctrl.EnterFullscreen()
		return nil
	case "fullscreen_exit":
		ctrl.ExitFullscreen()
		return nil
	}

	ev, ok := normalizeEvent(in)
	if !ok {
		// transitional raw codes (buffering, cued) carry no transition
		return nil
	}

	if _, err := s.ensureSession(userID, in.LessonID, ctrl); err != nil {
		return err
	}
	return s.Registry.Dispatch(userID, ev)
}

func normalizeEvent(in PlayerEventInput) (player.Event, bool) {
	ev := player.Event{CurrentTime: in.CurrentTime, Duration: in.Duration}

	switch in.Event {
	case "ready":
		ev.Kind = player.EventReady
	case "timeupdate":
		ev.Kind = player.EventTimeUpdate
	case "playing":
		ev.Kind = player.EventStateChange
		ev.State = player.StatePlaying
	case "paused":
		ev.Kind = player.EventStateChange
		ev.State = player.StatePaused
	case "ended":
		ev.Kind = player.EventStateChange
		ev.State = player.StateEnded
	case "raw_state":
		if in.RawState == nil {
			return player.Event{}, false
		}
		state, ok := player.NormalizeRawState(*in.RawState)
		if !ok {
			return player.Event{}, false
		}
		ev.Kind = player.EventStateChange
		ev.State = state
	default:
		return player.Event{}, false
	}
	return ev, true
}

func (s *PlaybackService) ensureSession(userID, lessonID string, ctrl *celebration.Controller) (*tracker.Session, error) {
	if sess, ok := s.Registry.Get(userID); ok && sess.LessonID() == lessonID {
		return sess, nil
	}

	lesson, err := s.courses.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.YouTubeVideoID == "" {
		return nil, fmt.Errorf("lesson %s has no playable video: %w", lessonID, player.ErrMissingVideoID)
	}

	pct, completed, err := s.courses.PriorProgressFor(userID, lessonID)
	if err != nil {
		return nil, err
	}

	trackerLesson := tracker.Lesson{
		ID:           lesson.ID,
		CourseID:     lesson.CourseID,
		VideoID:      lesson.YouTubeVideoID,
		Title:        lesson.Title,
		PointsReward: lesson.PointsReward,
	}
	prior := tracker.PriorProgress{WatchPercentage: pct, Completed: completed}

	return s.Registry.Open(userID, trackerLesson, prior, s.submitFunc(userID), tracker.Callbacks{
		OnMilestone:  ctrl.Present,
		OnCompletion: ctrl.Present,
		OnError: func(err error) {
			log.Printf("⚠️  completion submission failed for user %s: %v", userID, err)
		},
	})
}

func (s *PlaybackService) submitFunc(userID string) tracker.SubmitFunc {
	return func(lessonID, courseID string, pct float64) (models.ProfileSnapshot, error) {
		snap, err := s.completion.SubmitLessonCompletion(userID, lessonID, courseID, pct)
		if err != nil {
			return models.ProfileSnapshot{}, err
		}
		return *snap, nil
	}
}

// SessionProgress reports the live session view for polling clients.
type SessionProgress struct {
	LessonID        string  `json:"lesson_id"`
	WatchPercentage float64 `json:"watch_percentage"`
	Completed       bool    `json:"completed"`
}

func (s *PlaybackService) CurrentProgress(userID string) (*SessionProgress, error) {
	sess, ok := s.Registry.Get(userID)
	if !ok {
		return nil, tracker.ErrNoSession
	}
	return &SessionProgress{
		LessonID:        sess.LessonID(),
		WatchPercentage: sess.Percentage(),
		Completed:       sess.Completed(),
	}, nil
}

// MarkComplete is the explicit "Mark as Complete" action: a forced completion
// trigger at 100%, routed through the same idempotent pipeline.
func (s *PlaybackService) MarkComplete(userID, lessonID string) (*models.ProfileSnapshot, error) {
	lesson, err := s.courses.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	snap, err := s.completion.SubmitLessonCompletion(userID, lessonID, lesson.CourseID, 100)
	if err != nil {
		return nil, err
	}

	s.controllerFor(userID).Present(tracker.CelebrationPayload{
		PointsEarned:    lesson.PointsReward,
		TotalPoints:     snap.Points,
		CurrentStreak:   snap.CurrentStreak,
		VideoTitle:      lesson.Title,
		WatchPercentage: 100,
		Completed:       true,
	})
	return snap, nil
}

// CloseSession is the navigation-away signal: the sampler is cancelled and
// any pending celebration for the abandoned video is dropped.
func (s *PlaybackService) CloseSession(userID string) {
	s.Registry.Close(userID)
	s.controllerFor(userID).Cancel()
}
