package pipeline

import (
	"context"
	"strings"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Search(ctx context.Context, query string, k int) ([]models.Passage, error) {
	args := m.Called(ctx, query, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Passage), args.Error(1)
}

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, query, passage string) (float64, error) {
	args := m.Called(ctx, query, passage)
	return args.Get(0).(float64), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt Prompt) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// promptFor matches a prompt built from the given chunk.
func promptFor(chunk string) interface{} {
	return mock.MatchedBy(func(p Prompt) bool {
		return strings.HasSuffix(p.Text, chunk)
	})
}

// longText returns a passage that passes the filter and the normalizer.
func longText(prefix string) string {
	return prefix + " " + strings.TrimSpace(strings.Repeat("normal forms remove redundancy from relational tables ", 5))
}

func passagesOf(contents ...string) []models.Passage {
	passages := make([]models.Passage, len(contents))
	for i, content := range contents {
		passages[i] = models.Passage{Content: content, Metadata: map[string]interface{}{"index": i}}
	}
	return passages
}
