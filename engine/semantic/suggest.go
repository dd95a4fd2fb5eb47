package semantic

import (
	"context"
	"fmt"
	"strings"
)

// Embedder turns text into a vector. Satisfied by embed.Client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Suggester finds competitor versions similar to a described vehicle.
type Suggester struct {
	embedder Embedder
	store    *VectorStore
}

// NewSuggester creates a Suggester.
func NewSuggester(embedder Embedder, store *VectorStore) *Suggester {
	return &Suggester{embedder: embedder, store: store}
}

// Suggest embeds the vehicle description and returns the closest versions.
// When fuel is non-empty candidates are restricted to that fuel category.
// The described vehicle itself is excluded from results by make+model match.
func (s *Suggester) Suggest(ctx context.Context, description string, topK int, fuel string) ([]Hit, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("semantic: empty description")
	}
	if topK <= 0 {
		topK = 5
	}

	vec, err := s.embedder.Embed(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("semantic: embed description: %w", err)
	}

	var filters map[string]string
	if fuel != "" {
		filters = map[string]string{"fuel": fuel}
	}

	// Over-fetch one so dropping the subject itself still fills topK.
	hits, err := s.store.SearchFiltered(ctx, vec, topK+1, filters)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(description)
	out := make([]Hit, 0, topK)
	for _, h := range hits {
		if h.Make != "" && h.Model != "" &&
			strings.Contains(lowered, strings.ToLower(h.Make)) &&
			strings.Contains(lowered, strings.ToLower(h.Model)) {
			continue
		}
		out = append(out, h)
		if len(out) == topK {
			break
		}
	}
	return out, nil
}
