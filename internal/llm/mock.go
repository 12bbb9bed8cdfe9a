package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

const mockGradeFeedback = "Mock feedback: The response partially addressed the prompt but lacked depth."

// MockCompleter is the offline generator used when no credential is configured.
// Its output is deterministic so the pipeline can be exercised end to end.
type MockCompleter struct{}

// Complete fabricates a response matching the task's JSON schema.
func (MockCompleter) Complete(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch p.Task {
	case TaskGenerateQuestions:
		count := p.QuestionCount
		if count <= 0 {
			count = 2
		}
		questions := make([]map[string]interface{}, 0, count)
		for i := 0; i < count; i++ {
			if i%2 == 0 {
				questions = append(questions, map[string]interface{}{
					"question_type":          "MCQ",
					"points":                 1,
					"text":                   fmt.Sprintf("MCQ Placeholder Question %d on the topic.", i+1),
					"options":                map[string]string{"A": "Option A", "B": "Option B", "C": "Correct Mock Answer", "D": "Option D"},
					"expected_answer_rubric": "C",
				})
				continue
			}
			questions = append(questions, map[string]interface{}{
				"question_type":          "ShortAnswer",
				"points":                 3,
				"text":                   fmt.Sprintf("Short Answer Placeholder Question %d requiring explanation.", i+1),
				"options":                nil,
				"expected_answer_rubric": "The answer should describe the core concept accurately to achieve full marks.",
			})
		}
		out, err := json.Marshal(questions)
		return string(out), err

	case TaskGradeAnswer:
		maxPoints := p.MaxPoints
		if maxPoints <= 0 {
			maxPoints = 3
		}
		out, err := json.Marshal(map[string]interface{}{
			"score":    float64(maxPoints) / 2,
			"feedback": mockGradeFeedback,
		})
		return string(out), err
	}

	return "", fmt.Errorf("mock completer: unsupported task %q", p.Task)
}
