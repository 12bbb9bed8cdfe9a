package dto

import "github.com/noah-isme/teach-assist-api/internal/models"

// CreateQuestionsResponse reports the typed rows created from a question set.
type CreateQuestionsResponse struct {
	ExamID    int64             `json:"exam_id"`
	Created   int               `json:"created"`
	Questions []models.Question `json:"questions"`
}
