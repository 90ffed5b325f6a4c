package models

import "time"

// Achievement: static config (seeded at startup)
type Achievement struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"` // e.g., "FIRST_LESSON", "WEEK_STREAK"
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Icon        string `gorm:"size:16" json:"icon"`

	// Thresholds; nil means the dimension is not part of this trigger.
	PointsThreshold     *int64 `json:"points_threshold,omitempty"`
	StreakThreshold     *int   `json:"streak_threshold,omitempty"`
	CompletionThreshold *int64 `json:"completion_threshold,omitempty"` // completed lessons

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement: awarded instance (many-to-many)
type UserAchievement struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"index:idx_user_achievement;not null" json:"external_user_id"`
	AchievementID  string    `gorm:"index:idx_user_achievement;not null" json:"achievement_id"`
	EarnedAt       time.Time `gorm:"autoCreateTime" json:"earned_at"`
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

// AchievementTriggers are the seed rows checked after every completion.
var AchievementTriggers = []Achievement{
	{
		Code:                "FIRST_LESSON",
		Name:                "First Steps",
		Description:         "Completed your first lesson",
		Icon:                "🎓",
		CompletionThreshold: int64Ptr(1),
	},
	{
		Code:                "TEN_LESSONS",
		Name:                "Dedicated Learner",
		Description:         "Completed 10 lessons",
		Icon:                "📚",
		CompletionThreshold: int64Ptr(10),
	},
	{
		Code:            "POINTS_1000",
		Name:            "Point Collector",
		Description:     "Earned 1000 points",
		Icon:            "🏆",
		PointsThreshold: int64Ptr(1000),
	},
	{
		Code:            "WEEK_STREAK",
		Name:            "On Fire",
		Description:     "Kept a 7-day learning streak",
		Icon:            "🔥",
		StreakThreshold: intPtr(7),
	},
	{
		Code:            "MONTH_STREAK",
		Name:            "Unstoppable",
		Description:     "Kept a 30-day learning streak",
		Icon:            "⚡",
		StreakThreshold: intPtr(30),
	},
}
