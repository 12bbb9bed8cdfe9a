package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/teach-assist-api/pkg/config"
)

// ProviderMock names the offline generator in logs and metrics.
const ProviderMock = "mock"

// Provider is a configured completer together with its lifecycle.
type Provider struct {
	Completer
	Name  string
	close func() error
}

// Close releases provider connections.
func (p *Provider) Close() error {
	if p == nil || p.close == nil {
		return nil
	}
	return p.close()
}

// New builds the completer selected by cfg, wrapped with metrics and retries.
// Mock mode short-circuits to the offline generator.
func New(ctx context.Context, cfg config.LLMConfig, observer Observer, logger *zap.Logger) (*Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MockMode() {
		logger.Warn("llm running in mock mode; responses are placeholders")
		return &Provider{Completer: WithObserver(MockCompleter{}, ProviderMock, observer), Name: ProviderMock}, nil
	}

	p := &Provider{Name: strings.ToLower(cfg.Provider)}
	var base Completer
	switch p.Name {
	case config.LLMProviderOpenAI:
		base = NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case config.LLMProviderGemini, "":
		p.Name = config.LLMProviderGemini
		client, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		base = client
		p.close = client.Close
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}

	p.Completer = WithRetry(WithObserver(base, p.Name, observer), RetryPolicy{
		Attempts:  cfg.MaxRetries,
		BaseDelay: cfg.RetryDelay,
		Timeout:   cfg.Timeout,
	}, logger.With(zap.String("llm_provider", p.Name)))
	return p, nil
}
