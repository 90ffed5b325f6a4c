package services

import (
	"errors"
	"fmt"

	"course-learning-system/models"
	"course-learning-system/utils"

	"gorm.io/gorm"
)

type CourseService struct {
	DB *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{DB: db}
}

// CourseSummary is a course card: identity plus the caller's N-of-M progress.
type CourseSummary struct {
	models.Course
	LessonCount      int     `json:"lesson_count"`
	CompletedLessons int     `json:"completed_lessons"`
	Progress         float64 `json:"progress"` // 0-100
	DurationDisplay  string  `json:"duration_display,omitempty"`
}

func newCourseSummary(course models.Course, lessonCount, completedLessons int) CourseSummary {
	summary := CourseSummary{
		Course:           course,
		LessonCount:      lessonCount,
		CompletedLessons: completedLessons,
	}
	if lessonCount > 0 {
		summary.Progress = float64(completedLessons) / float64(lessonCount) * 100
	}
	if course.DurationSeconds > 0 {
		summary.DurationDisplay = utils.FormatDuration(course.DurationSeconds)
	}
	return summary
}

// ListCourses returns published courses with the caller's progress aggregates.
func (s *CourseService) ListCourses(externalUserID string) ([]CourseSummary, error) {
	var courses []models.Course
	if err := s.DB.Where("is_published = ?", true).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for _, course := range courses {
		var lessonCount, completed int64
		if err := s.DB.Model(&models.Lesson{}).
			Where("course_id = ?", course.ID).
			Count(&lessonCount).Error; err != nil {
			return nil, err
		}
		if err := s.DB.Model(&models.LessonProgress{}).
			Where("course_id = ? AND external_user_id = ?", course.ID, externalUserID).
			Count(&completed).Error; err != nil {
			return nil, err
		}

		summaries = append(summaries, newCourseSummary(course, int(lessonCount), int(completed)))
	}
	return summaries, nil
}

// LessonWithProgress decorates a lesson with the caller's persisted state —
// the prior watch percentage a reopened video seeds its display from.
type LessonWithProgress struct {
	models.Lesson
	Completed       bool    `json:"completed"`
	WatchPercentage float64 `json:"watch_percentage"`
	DurationDisplay string  `json:"duration_display,omitempty"`
}

func newLessonWithProgress(lesson models.Lesson, progress *models.LessonProgress) LessonWithProgress {
	lp := LessonWithProgress{Lesson: lesson}
	if progress != nil {
		lp.Completed = true
		lp.WatchPercentage = progress.WatchPercentage
	}
	if lesson.DurationSeconds > 0 {
		lp.DurationDisplay = utils.FormatDuration(lesson.DurationSeconds)
	}
	return lp
}

// CourseDetail is one course with ordered lessons and progress flags.
type CourseDetail struct {
	models.Course
	LessonList       []LessonWithProgress `json:"lesson_list"`
	CompletedLessons int                  `json:"completed_lessons"`
	Progress         float64              `json:"progress"`
}

var ErrCourseNotFound = errors.New("course not found")

// GetCourse returns a course with its lessons and the caller's progress.
func (s *CourseService) GetCourse(courseID, externalUserID string) (*CourseDetail, error) {
	var course models.Course
	if err := s.DB.Where("id = ?", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	var lessons []models.Lesson
	if err := s.DB.Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&lessons).Error; err != nil {
		return nil, err
	}

	var progress []models.LessonProgress
	if err := s.DB.Where("course_id = ? AND external_user_id = ?", courseID, externalUserID).
		Find(&progress).Error; err != nil {
		return nil, err
	}
	byLesson := make(map[string]models.LessonProgress, len(progress))
	for _, p := range progress {
		byLesson[p.LessonID] = p
	}

	detail := &CourseDetail{Course: course}
	for _, lesson := range lessons {
		var lp LessonWithProgress
		if p, ok := byLesson[lesson.ID]; ok {
			lp = newLessonWithProgress(lesson, &p)
			detail.CompletedLessons++
		} else {
			lp = newLessonWithProgress(lesson, nil)
		}
		detail.LessonList = append(detail.LessonList, lp)
	}
	if len(lessons) > 0 {
		detail.Progress = float64(detail.CompletedLessons) / float64(len(lessons)) * 100
	}
	return detail, nil
}

// GetLesson loads one lesson row.
func (s *CourseService) GetLesson(lessonID string) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.DB.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		return nil, fmt.Errorf("lesson %s not found: %w", lessonID, err)
	}
	return &lesson, nil
}

// PriorProgressFor returns the server-persisted progress used to seed a new
// playback session.
func (s *CourseService) PriorProgressFor(externalUserID, lessonID string) (watchPercentage float64, completed bool, err error) {
	var row models.LessonProgress
	err = s.DB.Where("external_user_id = ? AND lesson_id = ?", externalUserID, lessonID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return row.WatchPercentage, true, nil
}

// CreatePlaylist stores a user playlist with its ordered lesson entries.
func (s *CourseService) CreatePlaylist(externalUserID, name, description string, lessonIDs []string) (*models.UserPlaylist, error) {
	playlist := models.UserPlaylist{
		ExternalUserID: externalUserID,
		Name:           name,
		Description:    description,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&playlist).Error; err != nil {
			return err
		}
		for i, lessonID := range lessonIDs {
			entry := models.PlaylistLesson{
				PlaylistID: playlist.ID,
				LessonID:   lessonID,
				OrderIndex: i,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// ListPlaylists returns the user's playlists with entries ordered.
func (s *CourseService) ListPlaylists(externalUserID string) ([]models.UserPlaylist, error) {
	var playlists []models.UserPlaylist
	err := s.DB.Where("external_user_id = ?", externalUserID).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Order("created_at DESC").
		Find(&playlists).Error
	return playlists, err
}

// DeletePlaylist removes a playlist the caller owns.
func (s *CourseService) DeletePlaylist(externalUserID, playlistID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND external_user_id = ?", playlistID, externalUserID).
			Delete(&models.UserPlaylist{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("playlist_id = ?", playlistID).Delete(&models.PlaylistLesson{}).Error
	})
}
