package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"gopkg.in/yaml.v3"
)

const systemPrompt = "You write exam questions grounded only in the course content you are given."

// Guidance maps each question type and difficulty level to a short
// description of what that level means.
type Guidance map[models.QuestionType]map[models.DifficultyLevel]string

// DefaultGuidance returns the built-in guidance strings.
func DefaultGuidance() Guidance {
	return Guidance{
		models.QuestionMCQ: {
			models.DifficultyBeginner:     "Ask about a single fact or definition stated directly in the content. Wrong options should be clearly wrong to anyone who read it.",
			models.DifficultyIntermediate: "Ask the learner to apply or relate two ideas from the content. Wrong options should be plausible.",
			models.DifficultyAdvanced:     "Ask the learner to analyse or infer something from the content, such as a consequence or a comparison. Wrong options should reflect common misconceptions.",
		},
		models.QuestionOpenEnded: {
			models.DifficultyBeginner:     "Ask the learner to recall and explain a key idea in their own words.",
			models.DifficultyIntermediate: "Ask the learner to explain how or why something described in the content works.",
			models.DifficultyAdvanced:     "Ask the learner to evaluate or justify a position, drawing on several points of the content.",
		},
	}
}

// LoadGuidance reads YAML overrides of the form
//
//	mcq:
//	  beginner: "..."
//	open-ended:
//	  advanced: "..."
//
// and merges them over the defaults. An empty path returns the defaults.
func LoadGuidance(path string) (Guidance, error) {
	guidance := DefaultGuidance()
	if path == "" {
		return guidance, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guidance file: %w", err)
	}

	var overrides map[string]map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse guidance file: %w", err)
	}

	for rawType, levels := range overrides {
		questionType, ok := models.ParseQuestionType(rawType)
		if !ok {
			return nil, fmt.Errorf("guidance file: %w: %q", ErrInvalidQuestionType, rawType)
		}
		for level, text := range levels {
			guidance[questionType][models.NormalizeDifficulty(level)] = strings.TrimSpace(text)
		}
	}

	return guidance, nil
}

// For returns the guidance for a question type and difficulty. Unknown
// difficulties get an explicit "difficulty not recognized" message instead
// of an error.
func (g Guidance) For(questionType models.QuestionType, difficulty models.DifficultyLevel) string {
	if text, ok := g[questionType][difficulty]; ok && text != "" {
		return text
	}
	return fmt.Sprintf("difficulty not recognized (%q); write a question of moderate difficulty.", string(difficulty))
}

// NewGenerationRequest validates the raw question type and builds the
// request for one chunk.
func NewGenerationRequest(chunk, query, questionType, difficulty string) (models.GenerationRequest, error) {
	parsed, ok := models.ParseQuestionType(questionType)
	if !ok {
		return models.GenerationRequest{}, fmt.Errorf("%w: %q", ErrInvalidQuestionType, questionType)
	}

	return models.GenerationRequest{
		Chunk:        chunk,
		Query:        query,
		QuestionType: parsed,
		Difficulty:   models.NormalizeDifficulty(difficulty),
	}, nil
}

// RequestBuilder turns generation requests into prompts. The wording lives
// here; the output shape per question type is fixed.
type RequestBuilder struct {
	guidance Guidance
	language string
}

func NewRequestBuilder(guidance Guidance, language string) *RequestBuilder {
	if guidance == nil {
		guidance = DefaultGuidance()
	}
	if language == "" {
		language = "English"
	}
	return &RequestBuilder{
		guidance: guidance,
		language: language,
	}
}

func (b *RequestBuilder) Build(req models.GenerationRequest) (Prompt, error) {
	switch req.QuestionType {
	case models.QuestionMCQ:
		return Prompt{System: systemPrompt, Text: b.mcqPrompt(req), Shape: MCQShape()}, nil
	case models.QuestionOpenEnded:
		return Prompt{System: systemPrompt, Text: b.openEndedPrompt(req), Shape: OpenEndedShape()}, nil
	default:
		return Prompt{}, fmt.Errorf("%w: %q", ErrInvalidQuestionType, req.QuestionType)
	}
}

func (b *RequestBuilder) mcqPrompt(req models.GenerationRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write one multiple-choice exam question in %s.\n", b.language)
	fmt.Fprintf(&sb, "Difficulty (%s): %s\n\n", req.Difficulty, b.guidance.For(req.QuestionType, req.Difficulty))
	sb.WriteString("Rules:\n")
	fmt.Fprintf(&sb, "1. The question must be directly about the concept %q.\n", req.Query)
	sb.WriteString("2. If the question needs context (an example, an explanation or code), include it in the question.\n")
	sb.WriteString("3. Everything in the question, the options and the explanation must come from the content below.\n")
	sb.WriteString("4. Give exactly four options labelled A, B, C and D, with exactly one correct answer.\n")
	sb.WriteString("5. The explanation says why the correct answer is right, without citing the content.\n\n")
	sb.WriteString("Respond with a single JSON object and nothing else:\n")
	sb.WriteString(`{"question": "...", "options": {"A": "...", "B": "...", "C": "...", "D": "..."}, "correct_answer": "A", "explanation": "..."}`)
	sb.WriteString("\n\nContent:\n")
	sb.WriteString(req.Chunk)
	return sb.String()
}

func (b *RequestBuilder) openEndedPrompt(req models.GenerationRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write one open-ended exam question in %s.\n", b.language)
	fmt.Fprintf(&sb, "Difficulty (%s): %s\n\n", req.Difficulty, b.guidance.For(req.QuestionType, req.Difficulty))
	fmt.Fprintf(&sb, "The question must test understanding of the concept %q in the context of the content below.\n", req.Query)
	sb.WriteString("Provide a clear question, a concise sample answer, and an explanation of the answer that does not cite the content.\n\n")
	sb.WriteString("Respond with a single JSON object and nothing else:\n")
	sb.WriteString(`{"question": "...", "sample_answer": "...", "explanation": "..."}`)
	sb.WriteString("\n\nContent:\n")
	sb.WriteString(req.Chunk)
	return sb.String()
}

// MCQShape is the JSON schema of a multiple-choice question.
func MCQShape() OutputShape {
	return OutputShape{
		Name:        "submit_mcq",
		Description: "Submit one multiple-choice question with four options and one correct answer",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"options": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"A": map[string]any{"type": "string"},
						"B": map[string]any{"type": "string"},
						"C": map[string]any{"type": "string"},
						"D": map[string]any{"type": "string"},
					},
					"required": []string{"A", "B", "C", "D"},
				},
				"correct_answer": map[string]any{"type": "string", "enum": []string{"A", "B", "C", "D"}},
				"explanation":    map[string]any{"type": "string"},
			},
			"required": []string{"question", "options", "correct_answer", "explanation"},
		},
	}
}

// OpenEndedShape is the JSON schema of an open-ended question.
func OpenEndedShape() OutputShape {
	return OutputShape{
		Name:        "submit_open_ended",
		Description: "Submit one open-ended question with a sample answer",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question":      map[string]any{"type": "string"},
				"sample_answer": map[string]any{"type": "string"},
				"explanation":   map[string]any{"type": "string"},
			},
			"required": []string{"question", "sample_answer", "explanation"},
		},
	}
}
