// services/scheduler.go
package services

import (
	"log"
	"time"

	"course-learning-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartStreakScheduler expires streaks for profiles with no activity since
// the day before yesterday. Runs hourly so expiry lands near midnight
// regardless of server start time.
func (s *ProfileService) StartStreakScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			var profiles []models.Profile
			err := s.DB.Where("current_streak > 0").Find(&profiles).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			now := time.Now()
			for _, p := range profiles {
				if !StreakExpired(p.LastActivityDate, now) {
					continue
				}
				p.CurrentStreak = 0
				if err := s.DB.Save(&p).Error; err != nil {
					log.Printf("[Scheduler] Failed to expire streak for %s: %v", p.ExternalUserID, err)
				} else {
					log.Printf("🔥 Streak expired for user: %s", p.ExternalUserID)
				}
			}
		}),
	)
}
