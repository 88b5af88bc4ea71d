// Package llm connects the pipeline to language model and embedding
// providers.
package llm

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/exam-generation-service/internal/config"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

var ErrUnknownProvider = errors.New("unknown model provider")

// NewLanguageModel builds the langchaingo model for cfg.Provider.
func NewLanguageModel(cfg config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "ollama", "":
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		if cfg.StructuredMode {
			opts = append(opts, ollama.WithFormat("json"))
		}
		model, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("creating ollama client: %w", err)
		}
		return model, nil
	case "openai":
		opts := []openai.Option{
			openai.WithModel(cfg.Model),
			openai.WithToken(cfg.APIKey),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("creating openai client: %w", err)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// NewEmbedder builds the embedder used to index and search the corpus.
func NewEmbedder(cfg config.VectorStoreConfig, apiKey string) (embeddings.Embedder, error) {
	var client embeddings.EmbedderClient

	switch cfg.EmbeddingProvider {
	case "ollama", "":
		opts := []ollama.Option{ollama.WithModel(cfg.EmbeddingModel)}
		if cfg.EmbeddingBaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.EmbeddingBaseURL))
		}
		model, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("creating ollama embedding client: %w", err)
		}
		client = model
	case "openai":
		if apiKey == "" {
			// OpenAI-compatible servers such as TEI ignore the token but
			// langchaingo requires one.
			apiKey = "placeholder"
		}
		opts := []openai.Option{
			openai.WithModel(cfg.EmbeddingModel),
			openai.WithToken(apiKey),
		}
		if cfg.EmbeddingBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.EmbeddingBaseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("creating openai embedding client: %w", err)
		}
		client = model
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.EmbeddingProvider)
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}
