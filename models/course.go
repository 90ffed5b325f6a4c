package models

// CourseSourceType distinguishes single-video imports from playlist imports
type CourseSourceType string

const (
	CourseSourceVideo    CourseSourceType = "video"
	CourseSourcePlaylist CourseSourceType = "playlist"
)

// Course is an imported YouTube video or playlist, materialized as an ordered set of lessons.
type Course struct {
	ID              string           `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title           string           `gorm:"not null" json:"title"`
	Slug            string           `gorm:"uniqueIndex;not null" json:"slug"`
	Description     string           `gorm:"type:text" json:"description"`
	ThumbnailURL    string           `gorm:"type:text" json:"thumbnail_url"`
	DurationSeconds int64            `json:"duration_seconds" gorm:"default:0"`
	SourceType      CourseSourceType `gorm:"type:varchar(16);not null" json:"source_type"`

	// YouTube origin metadata (playlist id is nil for single-video courses)
	YouTubePlaylistID  *string `gorm:"index" json:"youtube_playlist_id,omitempty"`
	YouTubeChannelID   string  `json:"youtube_channel_id,omitempty"`
	YouTubeChannelName string  `json:"youtube_channel_name,omitempty"`

	// ImportedBy links to the external auth provider's user id
	ImportedBy  string `gorm:"index" json:"imported_by"`
	IsPublished bool   `gorm:"default:true" json:"is_published"`

	Lessons []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`

	Timestamps
}

// DefaultPointsReward is granted for completing a lesson unless the import sets otherwise.
const DefaultPointsReward int64 = 100

// Lesson is one orderable video unit within a Course.
type Lesson struct {
	ID              string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CourseID        string `gorm:"index;not null" json:"course_id"`
	Title           string `gorm:"not null" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	YouTubeVideoID  string `gorm:"index;not null" json:"youtube_video_id"`
	ThumbnailURL    string `gorm:"type:text" json:"thumbnail_url"`
	DurationSeconds int64  `json:"duration_seconds" gorm:"default:0"`
	OrderIndex      int    `gorm:"not null;default:0" json:"order_index"`
	PointsReward    int64  `gorm:"default:100" json:"points_reward"`

	Timestamps
}
