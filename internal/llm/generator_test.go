package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/exam-generation-service/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	response *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	options  llms.CallOptions
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	m.options = llms.CallOptions{}
	for _, option := range options {
		option(&m.options)
	}
	return m.response, m.err
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestLangChainGenerator(t *testing.T) {
	model := &fakeModel{response: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: `{"question": "q"}`}},
	}}
	generator := NewLangChainGenerator(model)

	output, err := generator.Generate(context.Background(), pipeline.Prompt{System: "system", Text: "write a question"})

	require.NoError(t, err)
	assert.Equal(t, `{"question": "q"}`, output)
	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, llms.TextContent{Text: "write a question"}, model.messages[1].Parts[0])
}

func TestLangChainGeneratorJSONMode(t *testing.T) {
	tests := []struct {
		name     string
		prompt   pipeline.Prompt
		wantJSON bool
	}{
		{name: "mcq shape", prompt: pipeline.Prompt{Text: "write", Shape: pipeline.MCQShape()}, wantJSON: true},
		{name: "open-ended shape", prompt: pipeline.Prompt{Text: "write", Shape: pipeline.OpenEndedShape()}, wantJSON: true},
		{name: "free text", prompt: pipeline.Prompt{Text: "score"}, wantJSON: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{response: &llms.ContentResponse{
				Choices: []*llms.ContentChoice{{Content: "{}"}},
			}}

			_, err := NewLangChainGenerator(model).Generate(context.Background(), tt.prompt)

			require.NoError(t, err)
			assert.Equal(t, tt.wantJSON, model.options.JSONMode)
			assert.InDelta(t, defaultTemperature, model.options.Temperature, 1e-9)
		})
	}
}

func TestLangChainGeneratorWithoutSystemPrompt(t *testing.T) {
	model := &fakeModel{response: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "0.5"}},
	}}

	_, err := NewLangChainGenerator(model).Generate(context.Background(), pipeline.Prompt{Text: "score"})

	require.NoError(t, err)
	require.Len(t, model.messages, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[0].Role)
}

func TestLangChainGeneratorErrors(t *testing.T) {
	tests := []struct {
		name    string
		model   *fakeModel
		wantErr error
	}{
		{
			name:  "model error",
			model: &fakeModel{err: errors.New("connection refused")},
		},
		{
			name:    "no choices",
			model:   &fakeModel{response: &llms.ContentResponse{}},
			wantErr: ErrEmptyResponse,
		},
		{
			name:    "empty content",
			model:   &fakeModel{response: &llms.ContentResponse{Choices: []*llms.ContentChoice{{}}}},
			wantErr: ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLangChainGenerator(tt.model).Generate(context.Background(), pipeline.Prompt{Text: "x"})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
