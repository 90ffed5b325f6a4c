package models

import "time"

// Quiz belongs to a course and optionally pins to one lesson.
type Quiz struct {
	ID          string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CourseID    string  `gorm:"index;not null" json:"course_id"`
	LessonID    *string `gorm:"index" json:"lesson_id,omitempty"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description,omitempty"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`

	Timestamps
}

// Question is one orderable question within a quiz.
type Question struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	QuizID       string `gorm:"index;not null" json:"quiz_id"`
	QuestionText string `gorm:"type:text;not null" json:"question_text"`
	OrderIndex   int    `gorm:"not null;default:0" json:"order_index"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

// Option is one answer choice. IsCorrect never leaves the server while a quiz
// is being taken; grading happens here, not in the client.
type Option struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	QuestionID string `gorm:"index;not null" json:"question_id"`
	OptionText string `gorm:"type:text;not null" json:"option_text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"-"`
}

// QuizAttempt is one user's run through a quiz. Score is a 0-100 percentage,
// nil until the attempt is submitted and graded.
type QuizAttempt struct {
	ID             string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string     `gorm:"index;not null" json:"external_user_id"`
	QuizID         string     `gorm:"index;not null" json:"quiz_id"`
	Score          *int       `json:"score,omitempty"`
	StartedAt      time.Time  `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	Answers []UserAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

// UserAnswer records one selected option within an attempt, graded on submit.
type UserAnswer struct {
	ID               string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	AttemptID        string `gorm:"index;not null" json:"attempt_id"`
	QuestionID       string `gorm:"not null" json:"question_id"`
	SelectedOptionID string `gorm:"not null" json:"selected_option_id"`
	IsCorrect        *bool  `json:"is_correct,omitempty"`
}
