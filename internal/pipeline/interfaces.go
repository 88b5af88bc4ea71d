package pipeline

import (
	"context"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
)

// DocumentStore returns up to k passages most similar to query, best first.
type DocumentStore interface {
	Search(ctx context.Context, query string, k int) ([]models.Passage, error)
}

// RelevanceScorer estimates how relevant passage is to query. Scores are in
// [0,1]; only their order matters.
type RelevanceScorer interface {
	Score(ctx context.Context, query, passage string) (float64, error)
}

// Generator sends a prompt to a generative model and returns its raw output.
// Implementations may use prompt.Shape to request structured output.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is a fully built generation request.
type Prompt struct {
	System string
	Text   string
	Shape  OutputShape
}

// OutputShape declares the object the model is expected to return.
type OutputShape struct {
	Name        string
	Description string
	Schema      map[string]any
}
