package pipeline

import (
	"regexp"
	"strings"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
)

const defaultNormalizeMinWords = 30

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)

	fillerWords = map[string]struct{}{
		"introduction": {},
		"résumé":       {},
		"summary":      {},
		"conclusion":   {},
	}
)

// Normalizer cleans passages into chunks ready for prompting.
type Normalizer struct {
	minLength int
}

func NewNormalizer(minLength int) *Normalizer {
	return &Normalizer{minLength: minLength}
}

// Normalize cleans every passage and drops the ones that end up shorter than
// the minimum length. Order is preserved.
func (n *Normalizer) Normalize(passages []models.Passage) []string {
	chunks := make([]string, 0, len(passages))
	for _, passage := range passages {
		if chunk, ok := n.Clean(passage.Content); ok {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// Clean returns the normalized text and false when it is empty or too short
// to use.
func (n *Normalizer) Clean(content string) (string, bool) {
	text := collapseSpaces(content)
	text = collapseSpaces(removeFillerWords(text))

	if text == "" || len(strings.Fields(text)) < n.minLength {
		return "", false
	}
	return text, true
}

func collapseSpaces(text string) string {
	return strings.TrimSpace(horizontalSpace.ReplaceAllString(text, " "))
}

func removeFillerWords(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range wordPattern.FindAllStringIndex(text, -1) {
		if _, ok := fillerWords[strings.ToLower(text[loc[0]:loc[1]])]; !ok {
			continue
		}
		b.WriteString(text[last:loc[0]])
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
