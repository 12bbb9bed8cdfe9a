package dto

import "encoding/json"

// CreateLessonPlanRequest stores a teacher's plan verbatim.
type CreateLessonPlanRequest struct {
	Topic         string          `json:"topic" validate:"required"`
	DurationHours int             `json:"duration_hours" validate:"required,gt=0"`
	Plan          json.RawMessage `json:"plan" validate:"required"`
}
