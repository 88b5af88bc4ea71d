package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
)

// QuestionValidator checks whether generated question data matches the
// declared shape for its type. It never modifies the payload.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion reports whether the question's data is well formed
func (v *QuestionValidator) ValidateQuestion(question models.Question) error {
	if len(question.QuestionData) == 0 {
		return fmt.Errorf("question data is empty")
	}

	switch question.Type {
	case models.QuestionMCQ:
		_, err := v.DecodeMCQ(question.QuestionData)
		return err
	case models.QuestionOpenEnded:
		_, err := v.DecodeOpenEnded(question.QuestionData)
		return err
	default:
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
}

// DecodeMCQ parses and checks a multiple choice payload
func (v *QuestionValidator) DecodeMCQ(data json.RawMessage) (*models.MCQContent, error) {
	var content models.MCQContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("invalid multiple choice content: %w", err)
	}

	if strings.TrimSpace(content.Question) == "" {
		return nil, fmt.Errorf("question text is required")
	}

	options := map[string]string{
		"A": content.Options.A,
		"B": content.Options.B,
		"C": content.Options.C,
		"D": content.Options.D,
	}
	for label, text := range options {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("option %s is empty", label)
		}
	}

	answer := strings.ToUpper(strings.TrimSpace(content.CorrectAnswer))
	if _, ok := options[answer]; !ok {
		return nil, fmt.Errorf("correct answer must be one of A, B, C, D, got %q", content.CorrectAnswer)
	}

	return &content, nil
}

// DecodeOpenEnded parses and checks an open-ended payload
func (v *QuestionValidator) DecodeOpenEnded(data json.RawMessage) (*models.OpenEndedContent, error) {
	var content models.OpenEndedContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("invalid open-ended content: %w", err)
	}

	if strings.TrimSpace(content.Question) == "" {
		return nil, fmt.Errorf("question text is required")
	}
	if strings.TrimSpace(content.SampleAnswer) == "" {
		return nil, fmt.Errorf("sample answer is required")
	}

	return &content, nil
}
