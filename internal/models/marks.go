package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ResultDetail is the per-question grading record stored on Marks.
type ResultDetail struct {
	Index         int     `json:"index"`
	QuestionID    int64   `json:"question_id"`
	Question      string  `json:"question"`
	Score         float64 `json:"score"`
	MaxMarks      int     `json:"max_marks"`
	Feedback      string  `json:"feedback"`
	IsCorrect     bool    `json:"is_correct"`
	CorrectAnswer string  `json:"correct_answer"`
	StudentAnswer string  `json:"student_answer"`
}

// ResultDetails is persisted as a JSONB array.
type ResultDetails []ResultDetail

// Value marshals details for persistence.
func (d ResultDetails) Value() (driver.Value, error) {
	if d == nil {
		d = ResultDetails{}
	}
	data, err := json.Marshal([]ResultDetail(d))
	if err != nil {
		return nil, fmt.Errorf("marshal result details: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSONB into details.
func (d *ResultDetails) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*d = ResultDetails{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ResultDetails", value)
	}
	if len(data) == 0 {
		*d = ResultDetails{}
		return nil
	}
	var details []ResultDetail
	if err := json.Unmarshal(data, &details); err != nil {
		return fmt.Errorf("unmarshal result details: %w", err)
	}
	*d = details
	return nil
}

// Marks is the one-per-(student, exam) grading summary.
type Marks struct {
	ID         int64         `db:"id" json:"id"`
	StudentID  int64         `db:"student_id" json:"student_id"`
	ExamID     int64         `db:"exam_id" json:"exam_id"`
	TotalMarks float64       `db:"total_marks" json:"total_marks"`
	MaxMarks   int           `db:"max_marks" json:"max_marks"`
	Results    ResultDetails `db:"results" json:"results"`
	GradedAt   time.Time     `db:"graded_at" json:"graded_at"`
}

// ExamStat is one row of the per-exam statistics report.
type ExamStat struct {
	StudentID  int64   `db:"student_id" json:"student_id"`
	Name       string  `db:"name" json:"name"`
	TotalMarks float64 `db:"total_marks" json:"total_marks"`
	MaxMarks   int     `db:"max_marks" json:"max_marks"`
}
