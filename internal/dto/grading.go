package dto

import "github.com/noah-isme/teach-assist-api/internal/models"

// Answer is a student's response to one question.
type Answer struct {
	QuestionID int64  `json:"question_id" validate:"required,gt=0"`
	Response   string `json:"response"`
}

// SubmitRequest is a batch of answers made under a live session.
type SubmitRequest struct {
	SessionToken string   `json:"session_token" validate:"required"`
	StudentID    int64    `json:"student_id" validate:"required,gt=0"`
	Answers      []Answer `json:"answers" validate:"required,min=1,dive"`
}

// PartialGrade is the score recorded for one submitted answer.
type PartialGrade struct {
	QuestionID    int64   `json:"question_id"`
	MarksObtained float64 `json:"marks_obtained"`
	Feedback      string  `json:"feedback,omitempty"`
}

// SubmitResponse acknowledges a submission.
type SubmitResponse struct {
	SubmissionID  int64          `json:"submission_id"`
	PartialGrades []PartialGrade `json:"partial_grades"`
	Status        string         `json:"status"`
}

// GradeRequest triggers a grading pass for the submission's student.
type GradeRequest struct {
	SubmissionID int64 `json:"submission_id" validate:"required,gt=0"`
	StudentID    int64 `json:"student_id" validate:"gte=0"`
	Regrade      bool  `json:"regrade"`
}

// GradeResponse summarises a completed grading pass.
type GradeResponse struct {
	SubmissionID int64                 `json:"submission_id"`
	StudentID    int64                 `json:"student_id"`
	TotalMarks   float64               `json:"total_marks"`
	MaxMarks     int                   `json:"max_marks"`
	Graded       bool                  `json:"graded"`
	ExamStatus   models.ExamStatus     `json:"exam_status"`
	Details      []models.ResultDetail `json:"details"`
}

// StudentResultItem is one line of a student's result sheet.
type StudentResultItem struct {
	Feedback      string `json:"feedback"`
	CorrectAnswer string `json:"correct_answer"`
	StudentAnswer string `json:"student_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// StudentResult is a student's graded outcome for one exam.
type StudentResult struct {
	ExamID     int64               `json:"exam_id"`
	StudentID  int64               `json:"student_id"`
	TotalMarks float64             `json:"total_marks"`
	MaxMarks   int                 `json:"max_marks"`
	Results    []StudentResultItem `json:"results"`
}

// ExamStats lists every graded student of an exam.
type ExamStats struct {
	ExamID int64             `json:"exam_id"`
	Stats  []models.ExamStat `json:"stats"`
}
