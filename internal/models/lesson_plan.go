package models

import "github.com/jmoiron/sqlx/types"

// LessonPlan stores an opaque JSON plan authored for a topic.
type LessonPlan struct {
	ID            int64          `db:"id" json:"id"`
	TeacherID     int64          `db:"teacher_id" json:"teacher_id"`
	Topic         string         `db:"topic" json:"topic"`
	DurationHours int            `db:"duration_hours" json:"duration_hours"`
	Plan          types.JSONText `db:"plan" json:"plan"`
}
