package services

import (
	"fmt"
	"log"
	"time"

	"course-learning-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompletionService struct {
	DB *gorm.DB
}

func NewCompletionService(db *gorm.DB) *CompletionService {
	return &CompletionService{DB: db}
}

// SubmitLessonCompletion turns one completion trigger into at most one
// durable record per (user, lesson) and the derived profile mutation.
// Duplicate submissions (rapid replays, a remount racing the first call) hit
// the unique index and collapse into a success no-op that returns the current
// profile — the caller never needs its own idempotency key.
func (s *CompletionService) SubmitLessonCompletion(externalUserID, lessonID, courseID string, watchPercentage float64) (*models.ProfileSnapshot, error) {
	var snap models.ProfileSnapshot

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
			return fmt.Errorf("lesson %s not found: %w", lessonID, err)
		}
		if courseID == "" {
			courseID = lesson.CourseID
		}

		record := models.LessonProgress{
			ExternalUserID:  externalUserID,
			LessonID:        lessonID,
			CourseID:        courseID,
			WatchPercentage: watchPercentage,
			PointsEarned:    lesson.PointsReward,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).Create(&record)
		if res.Error != nil {
			return res.Error
		}

		profile, err := ensureProfileTx(tx, externalUserID)
		if err != nil {
			return err
		}

		if res.RowsAffected == 0 {
			// Already completed — absorb silently, report current aggregates.
			snap = profile.Snapshot()
			return nil
		}

		now := time.Now()
		profile.Points += lesson.PointsReward
		profile.CurrentStreak, profile.LongestStreak = AdvanceStreak(
			profile.CurrentStreak, profile.LongestStreak, profile.LastActivityDate, now)
		profile.LastActivityDate = &now

		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		snap = profile.Snapshot()

		log.Printf("🎓 Completion recorded: user=%s lesson=%s pct=%.0f points=%d streak=%d",
			externalUserID, lessonID, watchPercentage, snap.Points, snap.CurrentStreak)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Auto-award achievements (fire-and-forget, like the profile re-fetch it
	// feeds: failures degrade, they never fail the completion)
	achievementSvc := NewAchievementService(s.DB)
	if err := achievementSvc.AutoAwardAchievements(externalUserID); err != nil {
		log.Printf("⚠️  achievement check failed for %s: %v", externalUserID, err)
	}

	return &snap, nil
}
