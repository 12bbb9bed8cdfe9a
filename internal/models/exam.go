package models

import "time"

// ExamStatus tracks the exam lifecycle.
type ExamStatus string

const (
	ExamStatusScheduled ExamStatus = "scheduled"
	ExamStatusPublished ExamStatus = "published"
	ExamStatusCompleted ExamStatus = "completed"
)

// Exam represents a persisted exam row.
type Exam struct {
	ID          int64      `db:"id" json:"id"`
	TeacherID   int64      `db:"teacher_id" json:"teacher_id"`
	ClassID     int64      `db:"class_id" json:"class_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Status      ExamStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// ExamSession is a token minted when an exam is started.
type ExamSession struct {
	Token     string    `db:"token" json:"token"`
	ExamID    int64     `db:"exam_id" json:"exam_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// Live reports whether the session can still accept submissions at now.
func (s ExamSession) Live(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
