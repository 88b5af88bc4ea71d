package pipeline

import (
	"regexp"
	"strings"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
)

// RejectReason says why the relevance filter dropped a passage.
type RejectReason string

const (
	RejectNone         RejectReason = ""
	RejectBoilerplate  RejectReason = "boilerplate_marker"
	RejectSectionWord  RejectReason = "section_word"
	RejectDottedLeader RejectReason = "dotted_leader"
	RejectDotRatio     RejectReason = "dot_ratio"
	RejectTooShort     RejectReason = "too_short"
)

const (
	defaultMinWords    = 30
	defaultMaxDotRatio = 0.5
)

var (
	boilerplateMarkers = []*regexp.Regexp{
		regexp.MustCompile(`table\s*des\s*mati[eè]res`),
		regexp.MustCompile(`table\s*of\s*contents`),
		regexp.MustCompile(`liste\s*des\s*(figures|tables|tableaux)`),
		regexp.MustCompile(`list\s*of\s*(figures|tables)`),
	}

	// Whole words, matched against the lowercased passage.
	sectionWords = map[string]struct{}{
		"guide":            {},
		"résumé":           {},
		"abstract":         {},
		"remerciement":     {},
		"acknowledgements": {},
		"acknowledgments":  {},
		"introduction":     {},
		"conclusion":       {},
		"références":       {},
		"references":       {},
		"bibliographie":    {},
		"bibliography":     {},
		"webographie":      {},
	}

	// Go's \b is ASCII only, so words are located explicitly to keep accented
	// letters inside a word.
	wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

type FilterConfig struct {
	MinWords    int
	MaxDotRatio float64
}

func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinWords:    defaultMinWords,
		MaxDotRatio: defaultMaxDotRatio,
	}
}

// RelevanceFilter drops passages that are unlikely to carry question-worthy
// content. It keeps the relative order of the passages it retains.
type RelevanceFilter struct {
	config FilterConfig
}

func NewRelevanceFilter(config FilterConfig) *RelevanceFilter {
	return &RelevanceFilter{config: config}
}

// Filter returns the passages that pass every rule.
func (f *RelevanceFilter) Filter(passages []models.Passage) []models.Passage {
	kept, _ := f.FilterWithReasons(passages)
	return kept
}

// FilterWithReasons is Filter plus a count of rejections per reason.
func (f *RelevanceFilter) FilterWithReasons(passages []models.Passage) ([]models.Passage, map[RejectReason]int) {
	kept := make([]models.Passage, 0, len(passages))
	rejected := make(map[RejectReason]int)

	for _, passage := range passages {
		if reason := f.RejectReason(passage.Content); reason != RejectNone {
			rejected[reason]++
			continue
		}
		kept = append(kept, passage)
	}

	return kept, rejected
}

// RejectReason returns the first rule the content breaks, or RejectNone.
func (f *RelevanceFilter) RejectReason(content string) RejectReason {
	text := strings.ToLower(strings.TrimSpace(content))

	for _, marker := range boilerplateMarkers {
		if marker.MatchString(text) {
			return RejectBoilerplate
		}
	}

	for _, word := range wordPattern.FindAllString(text, -1) {
		if _, ok := sectionWords[word]; ok {
			return RejectSectionWord
		}
	}

	if strings.Contains(text, "...") {
		return RejectDottedLeader
	}

	words := len(strings.Fields(text))
	if words > 0 && float64(strings.Count(text, "."))/float64(words) > f.config.MaxDotRatio {
		return RejectDotRatio
	}

	if words < f.config.MinWords {
		return RejectTooShort
	}

	return RejectNone
}
