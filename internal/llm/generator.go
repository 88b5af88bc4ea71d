package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/exam-generation-service/internal/pipeline"
	"github.com/tmc/langchaingo/llms"
)

var ErrEmptyResponse = errors.New("model returned no content")

const defaultTemperature = 0.2

// LangChainGenerator sends prompts to any langchaingo model as a system
// and a human message and returns the text of the first choice. Prompts with
// an output shape ask the model for JSON.
type LangChainGenerator struct {
	model       llms.Model
	temperature float64
}

func NewLangChainGenerator(model llms.Model) *LangChainGenerator {
	return &LangChainGenerator{
		model:       model,
		temperature: defaultTemperature,
	}
}

func (g *LangChainGenerator) Generate(ctx context.Context, prompt pipeline.Prompt) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if prompt.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, prompt.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt.Text))

	options := []llms.CallOption{llms.WithTemperature(g.temperature)}
	if prompt.Shape.Name != "" {
		options = append(options, llms.WithJSONMode())
	}

	resp, err := g.model.GenerateContent(ctx, messages, options...)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Content, nil
}

var _ pipeline.Generator = (*LangChainGenerator)(nil)
