package vectorstore

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode"
)

// letterEmbedder embeds text as normalized letter frequencies, which is
// enough to make similar texts rank close together.
type letterEmbedder struct {
	fail bool
}

func (e letterEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if e.fail {
		return nil, errors.New("embedding service down")
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = letterVector(text)
	}
	return vectors, nil
}

func (e letterEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if e.fail {
		return nil, errors.New("embedding service down")
	}
	return letterVector(text), nil
}

func letterVector(text string) []float32 {
	vector := make([]float32, 27)
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			vector[r-'a']++
		case unicode.IsLetter(r):
			vector[26]++
		}
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v * v)
	}
	if norm == 0 {
		vector[26] = 1
		return vector
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vector {
		vector[i] *= scale
	}
	return vector
}
