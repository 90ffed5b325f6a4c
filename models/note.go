package models

// Note is a user's timestamped annotation on a lesson video.
type Note struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`
	CourseID       string `gorm:"index;not null" json:"course_id"`
	LessonID       string `gorm:"index;not null" json:"lesson_id"`
	Content        string `gorm:"type:text;not null" json:"content"`

	// Playback position the note was taken at; nil for lesson-level notes.
	TimestampSeconds *int64 `json:"timestamp_seconds,omitempty"`

	Timestamps
}
