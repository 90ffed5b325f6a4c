package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"course-learning-system/models"

	"gorm.io/gorm"
)

type QuizService struct {
	DB *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{DB: db}
}

var ErrAttemptCompleted = errors.New("quiz attempt already submitted")

// QuestionInput is one authored question with its answer choices.
type QuestionInput struct {
	QuestionText string   `json:"question_text" validate:"required"`
	Options      []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectIndex int      `json:"correct_index" validate:"gte=0"`
}

// CreateQuiz stores a quiz with its ordered questions and options.
func (s *QuizService) CreateQuiz(courseID string, lessonID *string, title, description string, questions []QuestionInput) (*models.Quiz, error) {
	quiz := models.Quiz{
		CourseID:    courseID,
		LessonID:    lessonID,
		Title:       title,
		Description: description,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for i, q := range questions {
			if q.CorrectIndex >= len(q.Options) {
				return fmt.Errorf("question %d: correct_index %d out of range", i, q.CorrectIndex)
			}
			question := models.Question{
				QuizID:       quiz.ID,
				QuestionText: q.QuestionText,
				OrderIndex:   i,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for j, text := range q.Options {
				option := models.Option{
					QuestionID: question.ID,
					OptionText: text,
					IsCorrect:  j == q.CorrectIndex,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📝 Quiz created: %q (%d questions) for course %s", quiz.Title, len(questions), courseID)
	return &quiz, nil
}

// ListQuizzes returns the quizzes attached to a course, without questions.
func (s *QuizService) ListQuizzes(courseID string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.DB.Where("course_id = ?", courseID).Order("created_at ASC").Find(&quizzes).Error
	return quizzes, err
}

// GetQuiz loads a quiz with ordered questions and their options.
func (s *QuizService) GetQuiz(quizID string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.DB.Where("id = ?", quizID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Questions.Options").
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// StartAttempt opens a new attempt row; retakes get a fresh attempt.
func (s *QuizService) StartAttempt(externalUserID, quizID string) (*models.QuizAttempt, error) {
	var quiz models.Quiz
	if err := s.DB.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		return nil, err
	}

	attempt := models.QuizAttempt{
		ExternalUserID: externalUserID,
		QuizID:         quizID,
	}
	if err := s.DB.Create(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// AnswerInput is one selected option for one question.
type AnswerInput struct {
	QuestionID       string `json:"question_id" validate:"required,uuid"`
	SelectedOptionID string `json:"selected_option_id" validate:"required,uuid"`
}

// gradeQuiz marks each answer against the correct options and returns the
// score as a 0-100 percentage of the quiz's questions. Unanswered questions
// count as wrong; answers for unknown questions are dropped.
func gradeQuiz(questions []models.Question, answers []AnswerInput) ([]models.UserAnswer, int) {
	correctOption := make(map[string]string, len(questions))
	for _, q := range questions {
		for _, o := range q.Options {
			if o.IsCorrect {
				correctOption[q.ID] = o.ID
			}
		}
	}

	var graded []models.UserAnswer
	correct := 0
	for _, a := range answers {
		want, known := correctOption[a.QuestionID]
		if !known {
			continue
		}
		isCorrect := a.SelectedOptionID == want
		if isCorrect {
			correct++
		}
		ok := isCorrect
		graded = append(graded, models.UserAnswer{
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
			IsCorrect:        &ok,
		})
	}

	if len(questions) == 0 {
		return graded, 0
	}
	score := int(math.Round(float64(correct) / float64(len(questions)) * 100))
	return graded, score
}

// SubmitAttempt grades the answers, stores them, and closes the attempt.
// Submitting an already-completed attempt is rejected, not re-graded.
func (s *QuizService) SubmitAttempt(externalUserID, attemptID string, answers []AnswerInput) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND external_user_id = ?", attemptID, externalUserID).
			First(&attempt).Error; err != nil {
			return err
		}
		if attempt.CompletedAt != nil {
			return ErrAttemptCompleted
		}

		var questions []models.Question
		if err := tx.Where("quiz_id = ?", attempt.QuizID).
			Preload("Options").
			Find(&questions).Error; err != nil {
			return err
		}

		graded, score := gradeQuiz(questions, answers)
		for i := range graded {
			graded[i].AttemptID = attempt.ID
			if err := tx.Create(&graded[i]).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		attempt.Score = &score
		attempt.CompletedAt = &now
		if err := tx.Save(&attempt).Error; err != nil {
			return err
		}
		attempt.Answers = graded

		log.Printf("🧠 Quiz attempt graded: user=%s quiz=%s score=%d", externalUserID, attempt.QuizID, score)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// GetAttempt returns a graded attempt with its answers, for the result view.
func (s *QuizService) GetAttempt(externalUserID, attemptID string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.DB.Where("id = ? AND external_user_id = ?", attemptID, externalUserID).
		Preload("Answers").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
