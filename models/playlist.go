package models

import "time"

// UserPlaylist is a user-curated ordering of lessons across courses.
type UserPlaylist struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`
	Name           string `gorm:"not null" json:"name"`
	Description    string `gorm:"type:text" json:"description,omitempty"`

	Entries []PlaylistLesson `gorm:"foreignKey:PlaylistID" json:"entries,omitempty"`

	Timestamps
}

// PlaylistLesson pins a lesson at a position within a playlist.
type PlaylistLesson struct {
	ID         string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	PlaylistID string    `gorm:"uniqueIndex:idx_playlist_lesson;not null" json:"playlist_id"`
	LessonID   string    `gorm:"uniqueIndex:idx_playlist_lesson;not null" json:"lesson_id"`
	OrderIndex int       `gorm:"not null;default:0" json:"order_index"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"added_at"`
}
