// Package vectorstore adapts vector databases to the pipeline's document
// store and loads course material into them.
package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/exam-generation-service/internal/config"
	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"go.uber.org/zap"
)

var (
	ErrEmptyDocuments  = errors.New("no documents to add")
	ErrInvalidK        = errors.New("k must be positive")
	ErrEmbeddingFailed = errors.New("embedding failed")
	ErrUnknownBackend  = errors.New("unknown vector store backend")
)

// Embedder turns text into vectors. langchaingo's embeddings.Embedder
// satisfies it.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Document is one chunk of course material to index.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]interface{}
}

// Store is a searchable collection of course material.
type Store interface {
	Search(ctx context.Context, query string, k int) ([]models.Passage, error)
	AddDocuments(ctx context.Context, docs []Document) ([]string, error)
	Close() error
}

// NewStore opens the backend selected in cfg.
func NewStore(ctx context.Context, cfg config.VectorStoreConfig, embedder Embedder, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "chromem", "":
		return NewChromemStore(ChromemConfig{
			Path:       cfg.ChromemPath,
			Compress:   cfg.ChromemCompress,
			Collection: cfg.Collection,
		}, embedder, logger)
	case "qdrant":
		return NewQdrantStore(ctx, QdrantConfig{
			Host:       cfg.QdrantHost,
			Port:       cfg.QdrantPort,
			UseTLS:     cfg.QdrantUseTLS,
			Collection: cfg.Collection,
		}, embedder, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func validateSearch(k int) error {
	if k <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidK, k)
	}
	return nil
}

func stringMetadata(metadata map[string]interface{}) map[string]string {
	if metadata == nil {
		return nil
	}

	result := make(map[string]string, len(metadata))
	for k, v := range metadata {
		switch val := v.(type) {
		case string:
			result[k] = val
		default:
			result[k] = fmt.Sprintf("%v", val)
		}
	}
	return result
}
