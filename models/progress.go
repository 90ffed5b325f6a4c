package models

import "time"

// LessonProgress is the durable completion record: one row per (user, lesson).
// Uniqueness is enforced by the composite index; the completion pipeline
// inserts with ON CONFLICT DO NOTHING so rapid replays collapse to a no-op.
type LessonProgress struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_user_lesson;not null" json:"external_user_id"`
	LessonID       string `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lesson_id"`
	CourseID       string `gorm:"index;not null" json:"course_id"`

	WatchPercentage float64   `json:"watch_percentage"`
	PointsEarned    int64     `json:"points_earned"`
	CompletedAt     time.Time `json:"completed_at" gorm:"autoCreateTime"`
}
