package services

import (
	"testing"

	"course-learning-system/models"
)

func quizQuestions() []models.Question {
	return []models.Question{
		{
			ID: "q1",
			Options: []models.Option{
				{ID: "q1-a", IsCorrect: false},
				{ID: "q1-b", IsCorrect: true},
			},
		},
		{
			ID: "q2",
			Options: []models.Option{
				{ID: "q2-a", IsCorrect: true},
				{ID: "q2-b", IsCorrect: false},
			},
		},
		{
			ID: "q3",
			Options: []models.Option{
				{ID: "q3-a", IsCorrect: false},
				{ID: "q3-b", IsCorrect: true},
			},
		},
	}
}

func TestGradeQuiz(t *testing.T) {
	tests := []struct {
		name        string
		answers     []AnswerInput
		wantScore   int
		wantGraded  int
		wantCorrect int
	}{
		{
			"all correct",
			[]AnswerInput{
				{QuestionID: "q1", SelectedOptionID: "q1-b"},
				{QuestionID: "q2", SelectedOptionID: "q2-a"},
				{QuestionID: "q3", SelectedOptionID: "q3-b"},
			},
			100, 3, 3,
		},
		{
			"two of three",
			[]AnswerInput{
				{QuestionID: "q1", SelectedOptionID: "q1-b"},
				{QuestionID: "q2", SelectedOptionID: "q2-b"},
				{QuestionID: "q3", SelectedOptionID: "q3-b"},
			},
			67, 3, 2,
		},
		{
			"unanswered questions count as wrong",
			[]AnswerInput{
				{QuestionID: "q1", SelectedOptionID: "q1-b"},
			},
			33, 1, 1,
		},
		{
			"answer for unknown question is dropped",
			[]AnswerInput{
				{QuestionID: "q1", SelectedOptionID: "q1-b"},
				{QuestionID: "rogue", SelectedOptionID: "q1-b"},
			},
			33, 1, 1,
		},
		{
			"no answers",
			nil,
			0, 0, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graded, score := gradeQuiz(quizQuestions(), tt.answers)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if len(graded) != tt.wantGraded {
				t.Fatalf("graded answers = %d, want %d", len(graded), tt.wantGraded)
			}
			correct := 0
			for _, g := range graded {
				if g.IsCorrect == nil {
					t.Fatal("graded answer missing is_correct")
				}
				if *g.IsCorrect {
					correct++
				}
			}
			if correct != tt.wantCorrect {
				t.Errorf("correct answers = %d, want %d", correct, tt.wantCorrect)
			}
		})
	}
}

func TestGradeQuizEmptyQuiz(t *testing.T) {
	graded, score := gradeQuiz(nil, []AnswerInput{{QuestionID: "q1", SelectedOptionID: "x"}})
	if score != 0 || len(graded) != 0 {
		t.Errorf("empty quiz: graded=%d score=%d, want 0/0", len(graded), score)
	}
}
