package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/exam-generation-service/internal/pipeline"
)

var ErrUnparsableScore = errors.New("could not read a relevance score from the model output")

var (
	numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?|[.,]\d+`)
	// "0 to 1", "between 0 and 1", "0-1" and "/1" restate the scale, not the score.
	scalePattern = regexp.MustCompile(`(?i)\b0(?:\.0)?\s*(?:to|and|-)\s*1(?:\.0)?\b|(?:/|out of)\s*1(?:\.0)?\b`)
)

const scoreSystemPrompt = "You judge how relevant a passage of course material is to a search query. You answer with a single number."

// Scorer rates passages with a language model on a 0 to 1 scale.
type Scorer struct {
	generator pipeline.Generator
}

func NewScorer(generator pipeline.Generator) *Scorer {
	return &Scorer{generator: generator}
}

func (s *Scorer) Score(ctx context.Context, query, passage string) (float64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Query: %s\n\n", query)
	sb.WriteString("Passage:\n")
	sb.WriteString(passage)
	sb.WriteString("\n\nHow relevant is the passage to the query, from 0 (unrelated) to 1 (directly answers it)? ")
	sb.WriteString("Reply with the number only.")

	output, err := s.generator.Generate(ctx, pipeline.Prompt{System: scoreSystemPrompt, Text: sb.String()})
	if err != nil {
		return 0, err
	}

	return ParseScore(output)
}

// ParseScore reads the last number in output once any restated scale is
// removed. Values outside [0, 1] are rejected.
func ParseScore(output string) (float64, error) {
	matches := numberPattern.FindAllString(scalePattern.ReplaceAllString(output, " "), -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableScore, output)
	}

	score, err := strconv.ParseFloat(strings.Replace(matches[len(matches)-1], ",", ".", 1), 64)
	if err != nil || score < 0 || score > 1 {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableScore, output)
	}

	return score, nil
}

var _ pipeline.RelevanceScorer = (*Scorer)(nil)
