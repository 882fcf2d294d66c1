package match

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopsync/shopsync/provider"
	openai_provider "github.com/shopsync/shopsync/provider/openai"
)

const semanticSystemPrompt = `You compare two e-commerce product listing titles from different retailers and judge whether they name the same physical product (same model, variant, storage and size).

RESPONSE FORMAT — respond with valid JSON only (no markdown, no code fences):
{
  "similarity": 0.0 to 1.0,
  "confidence": 0.0 to 1.0
}

similarity 1.0 means certainly the same product, 0.0 certainly different. confidence is how sure you are of your own judgement. Different variants (Pro vs Pro Max), storage sizes or screen sizes are DIFFERENT products.`

// SemanticScorer asks an LLM whether two titles name the same product.
// It satisfies Scorer; callers handle errors by degrading to lexical
// scoring, so this type never needs to guess.
type SemanticScorer struct {
	LLM provider.Provider
}

var _ Scorer = (*SemanticScorer)(nil)

// Score returns the model's similarity and confidence for a title pair.
func (s *SemanticScorer) Score(ctx context.Context, titleA, titleB string) (float64, float64, error) {
	user := fmt.Sprintf("Title A: %s\nTitle B: %s", titleA, titleB)
	raw, err := s.LLM.Complete(ctx, semanticSystemPrompt, user)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", provider.ErrUnavailable, err)
	}

	var parsed struct {
		Similarity float64 `json:"similarity"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(openai_provider.StripFences(raw)), &parsed); err != nil {
		return 0, 0, fmt.Errorf("semantic scorer returned malformed JSON: %w", err)
	}
	return clamp01(parsed.Similarity), clamp01(parsed.Confidence), nil
}
