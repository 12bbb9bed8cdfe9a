package dto

import (
	"time"

	"github.com/noah-isme/teach-assist-api/internal/llm"
	"github.com/noah-isme/teach-assist-api/internal/models"
)

// QuestionCounts requests a number of questions per paper category.
type QuestionCounts struct {
	MCQ       int `json:"mcq" validate:"gte=0"`
	OneMark   int `json:"one_mark" validate:"gte=0"`
	ThreeMark int `json:"three_mark" validate:"gte=0"`
}

// GenerateExamRequest creates an exam with templated preview questions.
type GenerateExamRequest struct {
	Topic      string         `json:"topic" validate:"required"`
	Syllabus   string         `json:"syllabus"`
	Counts     QuestionCounts `json:"counts"`
	Difficulty string         `json:"difficulty"`
}

// PreviewQuestion is a templated question that is shown but never stored.
type PreviewQuestion struct {
	Type    string   `json:"type"`
	Content string   `json:"content"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"answer"`
}

// GenerateExamResponse returns the created exam and its previews.
type GenerateExamResponse struct {
	ExamID           int64             `json:"exam_id"`
	PreviewQuestions []PreviewQuestion `json:"preview_questions"`
}

// GenerateAIExamRequest asks the language model to author an exam.
type GenerateAIExamRequest struct {
	Topic      string             `json:"topic" validate:"required"`
	GradeLevel string             `json:"grade_level"`
	Structure  []llm.QuestionSpec `json:"structure" validate:"required,min=1,dive"`
}

// PublicQuestion is a question without its answer or rubric.
type PublicQuestion struct {
	QuestionID   int64               `json:"question_id"`
	QuestionType models.QuestionType `json:"question_type"`
	Points       int                 `json:"points"`
	Text         string              `json:"text"`
	Options      []string            `json:"options"`
}

// PublicExam is the student-safe view of a generated exam.
type PublicExam struct {
	ExamID      int64             `json:"exam_id"`
	Title       string            `json:"title"`
	Status      models.ExamStatus `json:"status"`
	Questions   []PublicQuestion  `json:"questions"`
	TotalMarks  int               `json:"total_marks"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// StartExamResponse carries the freshly minted session.
type StartExamResponse struct {
	ExamID       int64     `json:"exam_id"`
	SessionToken string    `json:"session_token"`
	Link         string    `json:"link"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// DownloadExamResponse wraps the rendered printable exam.
type DownloadExamResponse struct {
	ExamID  int64  `json:"exam_id"`
	Format  string `json:"format"`
	Content string `json:"content"`
}
