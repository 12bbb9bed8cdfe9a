// Package llm talks to the external text-completion service used to author
// questions and to grade free-text answers.
package llm

import (
	"context"
	"errors"
	"time"
)

// Task names the kind of completion being requested.
type Task string

const (
	TaskGenerateQuestions Task = "generate_questions"
	TaskGradeAnswer       Task = "grade_answer"
)

// Prompt is a single system+user completion request that must answer in JSON.
type Prompt struct {
	Task   Task
	System string
	User   string

	// Hints for the offline generator; ignored by remote providers.
	QuestionCount int
	MaxPoints     int
}

// Completer returns the raw text of a completion.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, p Prompt) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

// Observer receives one event per provider call.
type Observer interface {
	ObserveLLMCall(task, provider, outcome string, duration time.Duration)
}

// ErrMalformedResponse is returned when a completion cannot be decoded.
var ErrMalformedResponse = errors.New("llm returned malformed JSON")

// ErrEmptyResponse is returned when the provider produced no candidates.
var ErrEmptyResponse = errors.New("llm returned no content")

type observed struct {
	next     Completer
	provider string
	observer Observer
}

// WithObserver reports the outcome and latency of every call made through next.
func WithObserver(next Completer, provider string, observer Observer) Completer {
	if observer == nil {
		return next
	}
	return &observed{next: next, provider: provider, observer: observer}
}

func (o *observed) Complete(ctx context.Context, p Prompt) (string, error) {
	start := time.Now()
	out, err := o.next.Complete(ctx, p)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	o.observer.ObserveLLMCall(string(p.Task), o.provider, outcome, time.Since(start))
	return out, err
}
