package llm

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-generation-service/internal/pipeline"
	"golang.org/x/time/rate"
)

// RateLimitedGenerator waits for a token before every call.
type RateLimitedGenerator struct {
	next    pipeline.Generator
	limiter *rate.Limiter
}

// WithRateLimit wraps next with a limiter of perSecond requests and the
// given burst. A non-positive rate returns next unchanged.
func WithRateLimit(next pipeline.Generator, perSecond float64, burst int) pipeline.Generator {
	if perSecond <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedGenerator{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (g *RateLimitedGenerator) Generate(ctx context.Context, prompt pipeline.Prompt) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	return g.next.Generate(ctx, prompt)
}
