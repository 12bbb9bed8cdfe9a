package models

import (
	"encoding/json"
	"strings"
)

// QuestionSetItem is one entry of a paper bucket.
type QuestionSetItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Marks    int      `json:"marks,omitempty"`
}

// QuestionBucket accepts either a single item or a list of items.
type QuestionBucket []QuestionSetItem

// UnmarshalJSON coerces a lone object into a one-element bucket.
func (b *QuestionBucket) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*b = nil
		return nil
	case strings.HasPrefix(trimmed, "{"):
		var item QuestionSetItem
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*b = QuestionBucket{item}
		return nil
	}
	var items []QuestionSetItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*b = items
	return nil
}

// QuestionSet is the bucketed question representation used by paper authoring.
// It is converted into typed Question rows and never stored as-is.
type QuestionSet struct {
	ExamID    int64          `json:"exam_id"`
	MCQ       QuestionBucket `json:"mcq"`
	OneMark   QuestionBucket `json:"one_mark"`
	ThreeMark QuestionBucket `json:"three_mark"`
}

// Questions flattens the set into typed rows in bucket order.
func (s QuestionSet) Questions() []Question {
	out := make([]Question, 0, len(s.MCQ)+len(s.OneMark)+len(s.ThreeMark))
	add := func(category QuestionCategory, bucket QuestionBucket) {
		for _, item := range bucket {
			marks := item.Marks
			if marks <= 0 {
				marks = category.DefaultMarks()
			}
			q := Question{
				ExamID:   s.ExamID,
				Category: category,
				Type:     TypeFor(category),
				Content:  item.Question,
				Marks:    marks,
				Options:  QuestionOptions(item.Options),
			}
			if item.Answer != "" {
				answer := item.Answer
				q.Answer = &answer
			}
			out = append(out, q)
		}
	}
	add(CategoryMCQ, s.MCQ)
	add(CategoryOneMark, s.OneMark)
	add(CategoryThreeMark, s.ThreeMark)
	return out
}

// GroupQuestions regroups typed rows into buckets, preserving row order.
func GroupQuestions(examID int64, questions []Question) QuestionSet {
	set := QuestionSet{ExamID: examID}
	for _, q := range questions {
		item := QuestionSetItem{Question: q.Content, Options: q.Options, Marks: q.Marks}
		switch q.Category {
		case CategoryMCQ:
			set.MCQ = append(set.MCQ, item)
		case CategoryOneMark:
			set.OneMark = append(set.OneMark, item)
		default:
			set.ThreeMark = append(set.ThreeMark, item)
		}
	}
	return set
}
