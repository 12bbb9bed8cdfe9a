package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/teach-assist-api/internal/models"
)

// Feedback strings written when grading cannot produce a model verdict.
const (
	FeedbackGradingFailed = "Grading failed due to API error."
	FeedbackNoFeedback    = "No specific feedback provided."
)

// QuestionSpec requests Count questions of one type.
type QuestionSpec struct {
	QuestionType string `json:"question_type" validate:"required"`
	Points       int    `json:"points" validate:"gte=0"`
	Count        int    `json:"count" validate:"gte=1,lte=100"`
}

// GenerationRequest describes the exam the model should author.
type GenerationRequest struct {
	Topic      string
	GradeLevel string
	Structure  []QuestionSpec
}

// TotalQuestions sums the requested counts.
func (r GenerationRequest) TotalQuestions() int {
	total := 0
	for _, s := range r.Structure {
		total += s.Count
	}
	return total
}

// GeneratedQuestion is a decoded, normalised model-authored question.
type GeneratedQuestion struct {
	Type    models.QuestionType
	Points  int
	Text    string
	Options []string
	Rubric  string
}

// Grade is the rubric verdict for one free-text answer.
type Grade struct {
	Score    float64
	Feedback string
}

// Assistant turns prompts into typed results on top of a Completer.
type Assistant struct {
	completer Completer
	logger    *zap.Logger
}

// NewAssistant wraps completer.
func NewAssistant(completer Completer, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{completer: completer, logger: logger}
}

type rawQuestion struct {
	QuestionType string          `json:"question_type"`
	Points       *int            `json:"points"`
	Text         string          `json:"text"`
	Options      json.RawMessage `json:"options"`
	Rubric       string          `json:"expected_answer_rubric"`
}

// GenerateQuestions asks the model for questions. Undecodable output yields
// ErrMalformedResponse; provider failures are returned as-is.
func (a *Assistant) GenerateQuestions(ctx context.Context, req GenerationRequest) ([]GeneratedQuestion, error) {
	raw, err := a.completer.Complete(ctx, generationPrompt(req))
	if err != nil {
		return nil, err
	}

	items, err := decodeQuestionList(raw)
	if err != nil {
		a.logger.Warn("undecodable question generation response", zap.Error(err))
		return nil, err
	}

	out := make([]GeneratedQuestion, 0, len(items))
	for i, item := range items {
		qType, err := models.ParseQuestionType(item.QuestionType)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrMalformedResponse, i+1, err)
		}
		if strings.TrimSpace(item.Text) == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrMalformedResponse, i+1)
		}
		points := 1
		if item.Points != nil && *item.Points > 0 {
			points = *item.Points
		}
		options, err := decodeOptions(item.Options)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d options: %v", ErrMalformedResponse, i+1, err)
		}
		out = append(out, GeneratedQuestion{
			Type:    qType,
			Points:  points,
			Text:    item.Text,
			Options: options,
			Rubric:  item.Rubric,
		})
	}
	return out, nil
}

// GradeShortAnswer scores a free-text answer against the rubric. The score is
// clamped to [0, maxPoints]. A response that cannot be decoded degrades to a
// zero score with FeedbackGradingFailed instead of an error.
func (a *Assistant) GradeShortAnswer(ctx context.Context, question, answer, rubric string, maxPoints int) (Grade, error) {
	raw, err := a.completer.Complete(ctx, gradingPrompt(question, answer, rubric, maxPoints))
	if err != nil {
		return Grade{}, err
	}

	var verdict struct {
		Score    *float64 `json:"score"`
		Feedback *string  `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &verdict); err != nil {
		a.logger.Warn("undecodable grading response", zap.String("raw", raw), zap.Error(err))
		return Grade{Score: 0, Feedback: FeedbackGradingFailed}, nil
	}

	score := 0.0
	if verdict.Score != nil {
		score = *verdict.Score
	}
	feedback := FeedbackNoFeedback
	if verdict.Feedback != nil && strings.TrimSpace(*verdict.Feedback) != "" {
		feedback = *verdict.Feedback
	}
	return Grade{Score: Clamp(score, maxPoints), Feedback: feedback}, nil
}

// Clamp bounds score to [0, maxPoints].
func Clamp(score float64, maxPoints int) float64 {
	if score < 0 {
		return 0
	}
	if max := float64(maxPoints); score > max {
		return max
	}
	return score
}

func decodeQuestionList(raw string) ([]rawQuestion, error) {
	body := stripFences(raw)

	var items []rawQuestion
	if strings.HasPrefix(body, "{") {
		var wrapped struct {
			Questions []rawQuestion `json:"questions"`
		}
		if err := json.Unmarshal([]byte(body), &wrapped); err != nil || wrapped.Questions == nil {
			return nil, fmt.Errorf("%w: expected a question array", ErrMalformedResponse)
		}
		items = wrapped.Questions
	} else if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrMalformedResponse)
	}
	return items, nil
}

// decodeOptions accepts {"A": "..."} objects, plain string arrays or null.
// Lettered options are flattened to "A. text" in key order.
func decodeOptions(raw json.RawMessage) ([]string, error) {
	body := strings.TrimSpace(string(raw))
	if body == "" || body == "null" {
		return nil, nil
	}
	if strings.HasPrefix(body, "[") {
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var lettered map[string]string
	if err := json.Unmarshal(raw, &lettered); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(lettered))
	for k := range lettered {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+". "+lettered[k])
	}
	return out, nil
}

func stripFences(raw string) string {
	body := strings.TrimSpace(raw)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimPrefix(body, "json")
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
