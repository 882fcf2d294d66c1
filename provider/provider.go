package provider

import (
	"context"
	"errors"

	"github.com/shopsync/shopsync/config"
	openai_provider "github.com/shopsync/shopsync/provider/openai"
)

// ErrUnavailable wraps any transport or upstream failure of an LLM
// provider. Callers degrade (matcher) or apologize (chat); they never
// fabricate results on this error.
var ErrUnavailable = errors.New("llm provider unavailable")

// Provider is the capability surface this backend needs from an LLM:
// a single-shot completion that is expected to return strict JSON.
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// NewProvider builds a chat-completions client from config. Any
// OpenAI-compatible endpoint works; the default targets NVIDIA's
// integrate API.
func NewProvider(cfg config.LLMProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm api key not configured (providers.nvidia.api_key)")
	}
	return openai_provider.NewClient(
		cfg.APIKey,
		cfg.BaseURL,
		cfg.CompletionModel,
		cfg.Temperature,
		cfg.MaxTokens,
		cfg.Timeout,
	), nil
}
