package services

import (
	"course-learning-system/models"
	"course-learning-system/utils"

	"gorm.io/gorm"
)

type NoteService struct {
	DB *gorm.DB
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{DB: db}
}

// NoteView is a note decorated with the "m:ss" display form of its timestamp.
type NoteView struct {
	models.Note
	TimestampDisplay string `json:"timestamp_display,omitempty"`
}

func newNoteView(n models.Note) NoteView {
	view := NoteView{Note: n}
	if n.TimestampSeconds != nil {
		view.TimestampDisplay = utils.FormatTimestamp(float64(*n.TimestampSeconds))
	}
	return view
}

// ListNotes returns the caller's notes for a lesson, ordered by video position.
func (s *NoteService) ListNotes(externalUserID, lessonID string) ([]NoteView, error) {
	var notes []models.Note
	err := s.DB.Where("external_user_id = ? AND lesson_id = ?", externalUserID, lessonID).
		Order("timestamp_seconds ASC NULLS LAST, created_at ASC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}

	views := make([]NoteView, len(notes))
	for i, n := range notes {
		views[i] = newNoteView(n)
	}
	return views, nil
}

// CreateNote stores a note pinned at the given playback position.
func (s *NoteService) CreateNote(externalUserID, courseID, lessonID, content string, timestampSeconds *int64) (*NoteView, error) {
	note := models.Note{
		ExternalUserID:   externalUserID,
		CourseID:         courseID,
		LessonID:         lessonID,
		Content:          content,
		TimestampSeconds: timestampSeconds,
	}
	if err := s.DB.Create(&note).Error; err != nil {
		return nil, err
	}
	view := newNoteView(note)
	return &view, nil
}

// UpdateNote rewrites the content of a note the caller owns.
func (s *NoteService) UpdateNote(externalUserID, noteID, content string) (*NoteView, error) {
	var note models.Note
	if err := s.DB.Where("id = ? AND external_user_id = ?", noteID, externalUserID).
		First(&note).Error; err != nil {
		return nil, err
	}

	note.Content = content
	if err := s.DB.Save(&note).Error; err != nil {
		return nil, err
	}
	view := newNoteView(note)
	return &view, nil
}

// DeleteNote removes a note the caller owns.
func (s *NoteService) DeleteNote(externalUserID, noteID string) error {
	res := s.DB.Where("id = ? AND external_user_id = ?", noteID, externalUserID).
		Delete(&models.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
