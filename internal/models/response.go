package models

import "time"

// StudentResponse is one submitted answer. Rows are appended per submission;
// MarksObtained stays nil until scored.
type StudentResponse struct {
	ID            int64     `db:"id" json:"id"`
	StudentID     int64     `db:"student_id" json:"student_id"`
	ExamID        int64     `db:"exam_id" json:"exam_id"`
	QuestionID    int64     `db:"question_id" json:"question_id"`
	Response      string    `db:"response" json:"response"`
	MarksObtained *float64  `db:"marks_obtained" json:"marks_obtained,omitempty"`
	Feedback      *string   `db:"feedback" json:"feedback,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
