package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// QuestionCategory is the paper bucket a question is printed in.
type QuestionCategory string

const (
	CategoryMCQ       QuestionCategory = "mcq"
	CategoryOneMark   QuestionCategory = "one_mark"
	CategoryThreeMark QuestionCategory = "three_mark"
)

// QuestionType decides how a response is scored.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
)

// Objective reports whether responses are scored by exact match.
func (t QuestionType) Objective() bool {
	return t == QuestionTypeMultipleChoice
}

// ParseQuestionType accepts both stored names and generator names such as
// "MCQ" or "ShortAnswer".
func ParseQuestionType(raw string) (QuestionType, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	switch key {
	case "mcq", "multiplechoice":
		return QuestionTypeMultipleChoice, nil
	case "shortanswer", "short", "longanswer", "long", "descriptive", "onemark", "threemark":
		return QuestionTypeShortAnswer, nil
	}
	return "", fmt.Errorf("unknown question type %q", raw)
}

// CategoryFor derives the paper bucket from the scoring type and marks.
func CategoryFor(t QuestionType, marks int) QuestionCategory {
	switch {
	case t == QuestionTypeMultipleChoice:
		return CategoryMCQ
	case marks <= 1:
		return CategoryOneMark
	default:
		return CategoryThreeMark
	}
}

// TypeFor returns the scoring type implied by a paper bucket.
func TypeFor(c QuestionCategory) QuestionType {
	if c == CategoryMCQ {
		return QuestionTypeMultipleChoice
	}
	return QuestionTypeShortAnswer
}

// DefaultMarks is the per-question mark used when a bucket item carries none.
func (c QuestionCategory) DefaultMarks() int {
	if c == CategoryThreeMark {
		return 3
	}
	return 1
}

// Valid reports whether c is a known category.
func (c QuestionCategory) Valid() bool {
	switch c {
	case CategoryMCQ, CategoryOneMark, CategoryThreeMark:
		return true
	}
	return false
}

// Question is the single stored question variant. Answer holds the expected
// answer for objective questions and the rubric for free-text ones.
type Question struct {
	ID       int64            `db:"id" json:"id"`
	ExamID   int64            `db:"exam_id" json:"exam_id"`
	Category QuestionCategory `db:"category" json:"category"`
	Type     QuestionType     `db:"question_type" json:"question_type"`
	Content  string           `db:"content" json:"content"`
	Marks    int              `db:"marks" json:"marks"`
	Options  QuestionOptions  `db:"options" json:"options,omitempty"`
	Answer   *string          `db:"answer" json:"-"`
}

// ExpectedAnswer returns the stored answer or rubric, empty when unset.
func (q Question) ExpectedAnswer() string {
	if q.Answer == nil {
		return ""
	}
	return *q.Answer
}

// QuestionOptions is persisted as a JSONB array of strings.
type QuestionOptions []string

// Value marshals the options for persistence. Empty options are stored as NULL.
func (o QuestionOptions) Value() (driver.Value, error) {
	if len(o) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]string(o))
	if err != nil {
		return nil, fmt.Errorf("marshal question options: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB array into the options.
func (o *QuestionOptions) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*o = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for QuestionOptions", value)
	}
	if len(data) == 0 || string(data) == "null" {
		*o = nil
		return nil
	}
	var opts []string
	if err := json.Unmarshal(data, &opts); err != nil {
		return fmt.Errorf("unmarshal question options: %w", err)
	}
	*o = opts
	return nil
}
