package pipeline

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/utils"
)

// Reranker scores each passage against the query with an independent
// relevance signal and sorts them best first. Equal scores keep retrieval
// order.
type Reranker struct {
	scorer  RelevanceScorer
	workers int
	logger  utils.Logger
}

func NewReranker(scorer RelevanceScorer, workers int, logger utils.Logger) *Reranker {
	return &Reranker{
		scorer:  scorer,
		workers: workers,
		logger:  logger,
	}
}

// Rerank fails as a whole if any passage cannot be scored; an unordered
// result would break the top_n truncation that follows.
func (r *Reranker) Rerank(ctx context.Context, query string, passages []models.Passage) ([]models.ScoredPassage, error) {
	if len(passages) == 0 {
		return []models.ScoredPassage{}, nil
	}

	scores, errs := mapOrdered(ctx, passages, r.workers, func(ctx context.Context, _ int, passage models.Passage) (float64, error) {
		score, err := r.scorer.Score(ctx, query, passage.Content)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(score) {
			return 0, ErrInvalidScore
		}
		return score, nil
	})

	for i, err := range errs {
		if err != nil {
			r.logger.WarnContext(ctx, "Passage scoring failed", "passage_index", i, "error", err)
			return nil, fmt.Errorf("%w: passage %d: %w", ErrRerankFailed, i, err)
		}
	}

	scored := make([]models.ScoredPassage, len(passages))
	for i, passage := range passages {
		scored[i] = models.ScoredPassage{Passage: passage, Score: scores[i]}
	}

	slices.SortStableFunc(scored, func(a, b models.ScoredPassage) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return scored, nil
}

// TopN returns at most n passages from the head of scored.
func TopN(scored []models.ScoredPassage, n int) []models.Passage {
	if n < 0 || n > len(scored) {
		n = len(scored)
	}
	passages := make([]models.Passage, n)
	for i := 0; i < n; i++ {
		passages[i] = scored[i].Passage
	}
	return passages
}
