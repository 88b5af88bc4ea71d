package pipeline

import (
	"context"
	"strings"
	"unicode"
)

// LexicalScorer scores a passage by the share of distinct query terms it
// contains. It needs no model and is deterministic.
type LexicalScorer struct{}

func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

func (s *LexicalScorer) Score(ctx context.Context, query, passage string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	queryTerms := terms(query)
	if len(queryTerms) == 0 {
		return 0, nil
	}

	passageTerms := terms(passage)
	matched := 0
	for term := range queryTerms {
		if _, ok := passageTerms[term]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(queryTerms)), nil
}

// terms lowercases text and keeps distinct tokens longer than two runes.
func terms(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	set := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if len([]rune(field)) > 2 {
			set[field] = struct{}{}
		}
	}
	return set
}
