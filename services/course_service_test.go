package services

import (
	"testing"

	"course-learning-system/models"
)

func TestNewCourseSummary(t *testing.T) {
	course := models.Course{DurationSeconds: 4080}

	summary := newCourseSummary(course, 10, 4)
	if summary.Progress != 40 {
		t.Errorf("progress = %v, want 40", summary.Progress)
	}
	if summary.DurationDisplay != "1h 8m" {
		t.Errorf("duration display = %q, want %q", summary.DurationDisplay, "1h 8m")
	}

	empty := newCourseSummary(models.Course{}, 0, 0)
	if empty.Progress != 0 {
		t.Errorf("empty course progress = %v, want 0", empty.Progress)
	}
	if empty.DurationDisplay != "" {
		t.Errorf("unknown duration must leave display empty, got %q", empty.DurationDisplay)
	}
}

func TestNewLessonWithProgress(t *testing.T) {
	lesson := models.Lesson{DurationSeconds: 754}

	fresh := newLessonWithProgress(lesson, nil)
	if fresh.Completed || fresh.WatchPercentage != 0 {
		t.Errorf("fresh lesson: completed=%v pct=%v, want untouched", fresh.Completed, fresh.WatchPercentage)
	}
	if fresh.DurationDisplay != "12m" {
		t.Errorf("duration display = %q, want %q", fresh.DurationDisplay, "12m")
	}

	done := newLessonWithProgress(lesson, &models.LessonProgress{WatchPercentage: 93.5})
	if !done.Completed {
		t.Error("progress row marks the lesson completed")
	}
	if done.WatchPercentage != 93.5 {
		t.Errorf("watch percentage = %v, want 93.5", done.WatchPercentage)
	}
}
