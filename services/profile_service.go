package services

import (
	"errors"

	"course-learning-system/models"

	"gorm.io/gorm"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// ensureProfileTx creates the profile row on first touch (idempotent).
func ensureProfileTx(tx *gorm.DB, externalUserID string) (*models.Profile, error) {
	var profile models.Profile
	err := tx.Where("external_user_id = ?", externalUserID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{ExternalUserID: externalUserID}
		if err := tx.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// EnsureProfile ensures a Profile row exists for the user (idempotent)
func (s *ProfileService) EnsureProfile(externalUserID string) (*models.Profile, error) {
	return ensureProfileTx(s.DB, externalUserID)
}

// FetchProfile returns the authoritative aggregate for celebration display.
func (s *ProfileService) FetchProfile(externalUserID string) (*models.Profile, error) {
	return s.EnsureProfile(externalUserID)
}

// UserStats are the derived totals shown on the profile page.
type UserStats struct {
	TotalCourses      int64 `json:"total_courses"`
	CompletedLessons  int64 `json:"completed_lessons"`
	WatchTimeSeconds  int64 `json:"watch_time_seconds"`
	TotalAchievements int64 `json:"total_achievements"`
}

// GetStats derives totals from the completion records.
func (s *ProfileService) GetStats(externalUserID string) (*UserStats, error) {
	var stats UserStats

	if err := s.DB.Model(&models.LessonProgress{}).
		Where("external_user_id = ?", externalUserID).
		Distinct("course_id").
		Count(&stats.TotalCourses).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.LessonProgress{}).
		Where("external_user_id = ?", externalUserID).
		Count(&stats.CompletedLessons).Error; err != nil {
		return nil, err
	}

	// Watch time approximated from completed lesson durations.
	var watchTime struct{ Total int64 }
	if err := s.DB.Raw(`
		SELECT COALESCE(SUM(l.duration_seconds), 0) AS total
		FROM lesson_progresses lp
		INNER JOIN lessons l ON l.id = lp.lesson_id
		WHERE lp.external_user_id = ?
	`, externalUserID).Scan(&watchTime).Error; err != nil {
		return nil, err
	}
	stats.WatchTimeSeconds = watchTime.Total

	if err := s.DB.Model(&models.UserAchievement{}).
		Where("external_user_id = ?", externalUserID).
		Count(&stats.TotalAchievements).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	Username      string `json:"username"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Points        int64  `json:"points"`
	CurrentStreak int    `json:"current_streak"`
}

// GetLeaderboard returns the top profiles by points.
func (s *ProfileService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var profiles []models.Profile
	if err := s.DB.Order("points DESC, updated_at ASC").Limit(limit).Find(&profiles).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(profiles))
	for i, p := range profiles {
		entries[i] = LeaderboardEntry{
			Rank:          i + 1,
			Username:      p.Username,
			AvatarURL:     p.AvatarURL,
			Points:        p.Points,
			CurrentStreak: p.CurrentStreak,
		}
	}
	return entries, nil
}

// GetCourseProgress returns the caller's completion rows for one course.
func (s *ProfileService) GetCourseProgress(externalUserID, courseID string) ([]models.LessonProgress, error) {
	var rows []models.LessonProgress
	err := s.DB.Where("external_user_id = ? AND course_id = ?", externalUserID, courseID).
		Order("completed_at ASC").
		Find(&rows).Error
	return rows, err
}
