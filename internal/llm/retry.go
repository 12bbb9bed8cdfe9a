package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

// RetryPolicy bounds retries of transient provider failures.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	Timeout   time.Duration
	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

type retrying struct {
	next   Completer
	policy RetryPolicy
	logger *zap.Logger
}

// WithRetry retries transient failures with exponential backoff
// (BaseDelay, 2*BaseDelay, ...). Non-transient errors return immediately.
func WithRetry(next Completer, policy RetryPolicy, logger *zap.Logger) Completer {
	if policy.Attempts <= 0 {
		policy.Attempts = 3
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = time.Second
	}
	if policy.Sleep == nil {
		policy.Sleep = sleepContext
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &retrying{next: next, policy: policy, logger: logger}
}

func (r *retrying) Complete(ctx context.Context, p Prompt) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.policy.Attempts; attempt++ {
		out, err := r.once(ctx, p)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if !IsTransient(err) || attempt == r.policy.Attempts {
			break
		}

		delay := r.policy.BaseDelay << (attempt - 1)
		r.logger.Warn("llm call failed, retrying",
			zap.String("task", string(p.Task)),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		if err := r.policy.Sleep(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("llm %s failed: %w", p.Task, lastErr)
}

func (r *retrying) once(ctx context.Context, p Prompt) (string, error) {
	if r.policy.Timeout <= 0 {
		return r.next.Complete(ctx, p)
	}
	callCtx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
	defer cancel()
	return r.next.Complete(callCtx, p)
}

// IsTransient reports whether err is worth retrying: network failures,
// timeouts, rate limiting and server-side errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return retryableStatus(gErr.Code)
	}
	var coded interface{ HTTPCode() int }
	if errors.As(err, &coded) {
		return retryableStatus(coded.HTTPCode())
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
