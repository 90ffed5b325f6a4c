package services

import (
	"log"

	"course-learning-system/models"

	"gorm.io/gorm"
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// SeedAchievements upserts the static trigger rows at startup.
func (s *AchievementService) SeedAchievements() error {
	for _, trigger := range models.AchievementTriggers {
		var existing models.Achievement
		err := s.DB.Where("code = ?", trigger.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := s.DB.Create(&trigger).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// AutoAwardAchievements checks all triggers for a user after a completion
func (s *AchievementService) AutoAwardAchievements(externalUserID string) error {
	var profile models.Profile
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&profile).Error; err != nil {
		return err
	}

	var completions int64
	if err := s.DB.Model(&models.LessonProgress{}).
		Where("external_user_id = ?", externalUserID).
		Count(&completions).Error; err != nil {
		return err
	}

	var triggers []models.Achievement
	if err := s.DB.Find(&triggers).Error; err != nil {
		return err
	}

	for _, trigger := range triggers {
		if !meetsThreshold(&profile, completions, &trigger) {
			continue
		}

		// Check if already awarded
		var count int64
		s.DB.Model(&models.UserAchievement{}).
			Where("external_user_id = ? AND achievement_id = ?", externalUserID, trigger.ID).
			Count(&count)
		if count > 0 {
			continue
		}

		award := models.UserAchievement{
			ExternalUserID: externalUserID,
			AchievementID:  trigger.ID,
		}
		if err := s.DB.Create(&award).Error; err != nil {
			return err
		}
		log.Printf("🎖️ Achievement awarded: %s → %s", trigger.Name, externalUserID)
	}
	return nil
}

func meetsThreshold(profile *models.Profile, completions int64, a *models.Achievement) bool {
	if a.PointsThreshold == nil && a.StreakThreshold == nil && a.CompletionThreshold == nil {
		return false
	}
	if a.PointsThreshold != nil && profile.Points < *a.PointsThreshold {
		return false
	}
	if a.StreakThreshold != nil && profile.CurrentStreak < *a.StreakThreshold {
		return false
	}
	if a.CompletionThreshold != nil && completions < *a.CompletionThreshold {
		return false
	}
	return true
}

// GetUserAchievements returns awarded achievements joined with their config.
func (s *AchievementService) GetUserAchievements(externalUserID string) ([]map[string]interface{}, error) {
	type row struct {
		models.UserAchievement
		Code        string `gorm:"column:code"`
		Name        string `gorm:"column:name"`
		Description string `gorm:"column:description"`
		Icon        string `gorm:"column:icon"`
	}

	var rows []row
	if err := s.DB.Raw(`
		SELECT ua.*, a.code, a.name, a.description, a.icon
		FROM user_achievements ua
		INNER JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.external_user_id = ?
		ORDER BY ua.earned_at DESC
	`, externalUserID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, len(rows))
	for i, r := range rows {
		out[i] = map[string]interface{}{
			"id":          r.UserAchievement.ID,
			"code":        r.Code,
			"name":        r.Name,
			"description": r.Description,
			"icon":        r.Icon,
			"earned_at":   r.EarnedAt,
		}
	}
	return out, nil
}
