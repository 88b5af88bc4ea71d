package llm

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-generation-service/internal/pipeline"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator asks an OpenAI-compatible chat API to answer through a
// forced tool call whose parameters are the prompt's output shape, so the
// returned text is the tool's JSON arguments.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, baseURL, model string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4o
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt pipeline.Prompt) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: defaultTemperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.Text,
			},
		},
	}

	if prompt.Shape.Name != "" {
		req.Tools = []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        prompt.Shape.Name,
					Description: prompt.Shape.Description,
					Parameters:  prompt.Shape.Schema,
				},
			},
		}
		req.ToolChoice = openai.ToolChoice{
			Type: openai.ToolTypeFunction,
			Function: openai.ToolFunction{
				Name: prompt.Shape.Name,
			},
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	message := resp.Choices[0].Message
	if prompt.Shape.Name == "" {
		if message.Content == "" {
			return "", ErrEmptyResponse
		}
		return message.Content, nil
	}

	if len(message.ToolCalls) == 0 {
		// Some compatible servers ignore tool_choice and answer in text.
		if message.Content != "" {
			return message.Content, nil
		}
		return "", fmt.Errorf("%w: no tool calls in response", ErrEmptyResponse)
	}

	toolCall := message.ToolCalls[0]
	if toolCall.Function.Name != prompt.Shape.Name {
		return "", fmt.Errorf("unexpected tool call: %s", toolCall.Function.Name)
	}
	return toolCall.Function.Arguments, nil
}

var _ pipeline.Generator = (*OpenAIGenerator)(nil)
