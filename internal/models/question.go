package models

import (
	"encoding/json"
	"strings"
)

type QuestionType string

const (
	QuestionMCQ       QuestionType = "mcq"
	QuestionOpenEnded QuestionType = "open-ended"
)

// ParseQuestionType resolves a question type case-insensitively.
func ParseQuestionType(value string) (QuestionType, bool) {
	switch QuestionType(strings.ToLower(strings.TrimSpace(value))) {
	case QuestionMCQ:
		return QuestionMCQ, true
	case QuestionOpenEnded:
		return QuestionOpenEnded, true
	}
	return "", false
}

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// NormalizeDifficulty lowercases and trims a difficulty value. Unknown values
// are kept as they are.
func NormalizeDifficulty(value string) DifficultyLevel {
	return DifficultyLevel(strings.ToLower(strings.TrimSpace(value)))
}

func (d DifficultyLevel) IsKnown() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Passage is a retrieved unit of source text.
type Passage struct {
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ScoredPassage is a passage with its rerank score. Scores only order
// passages and are never persisted.
type ScoredPassage struct {
	Passage Passage `json:"passage"`
	Score   float64 `json:"score"`
}

// GenerationRequest is built once per normalized chunk.
type GenerationRequest struct {
	Chunk        string          `json:"chunk"`
	Query        string          `json:"query"`
	QuestionType QuestionType    `json:"question_type"`
	Difficulty   DifficultyLevel `json:"difficulty"`
}

// Question is one generated exam question. QuestionData is whatever the
// generation backend returned, passed through untouched.
type Question struct {
	Type          QuestionType    `json:"type"`
	SourceContent string          `json:"source_content"`
	QuestionData  json.RawMessage `json:"question_data"`
}

// GeneratedExam is the ordered output of one pipeline run.
type GeneratedExam struct {
	Questions []Question `json:"questions"`
	Failed    int        `json:"failed,omitempty"`
}

func (e *GeneratedExam) IsEmpty() bool {
	return e == nil || len(e.Questions) == 0
}

// ===== OUTPUT SHAPES =====

type MCQOptions struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

type MCQContent struct {
	Question      string     `json:"question"`
	Options       MCQOptions `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   string     `json:"explanation"`
}

type OpenEndedContent struct {
	Question     string `json:"question"`
	SampleAnswer string `json:"sample_answer"`
	Explanation  string `json:"explanation"`
}
