package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/philippgille/chromem-go"
	"go.uber.org/zap"
)

type ChromemConfig struct {
	// Path of the persistent database. Empty keeps everything in memory.
	Path       string
	Compress   bool
	Collection string
}

// ChromemStore keeps the corpus in an embedded chromem-go database.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   Embedder
	logger     *zap.Logger
}

func NewChromemStore(config ChromemConfig, embedder Embedder, logger *zap.Logger) (*ChromemStore, error) {
	if config.Collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	var db *chromem.DB
	if config.Path == "" {
		db = chromem.NewDB()
	} else {
		path, err := expandPath(config.Path)
		if err != nil {
			return nil, err
		}
		db, err = chromem.NewPersistentDB(path, config.Compress)
		if err != nil {
			return nil, fmt.Errorf("opening chromem database at %s: %w", path, err)
		}
	}

	store := &ChromemStore{
		db:       db,
		embedder: embedder,
		logger:   logger,
	}

	collection, err := db.GetOrCreateCollection(config.Collection, nil, store.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("getting/creating collection %s: %w", config.Collection, err)
	}
	store.collection = collection

	logger.Info("chromem store opened",
		zap.String("path", config.Path),
		zap.String("collection", config.Collection),
		zap.Int("documents", collection.Count()),
	)

	return store, nil
}

func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

func (s *ChromemStore) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

// Search returns up to k passages, most similar first. k is capped at the
// collection size.
func (s *ChromemStore) Search(ctx context.Context, query string, k int) ([]models.Passage, error) {
	if err := validateSearch(k); err != nil {
		return nil, err
	}

	count := s.collection.Count()
	if count == 0 {
		return []models.Passage{}, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", s.collection.Name, err)
	}

	passages := make([]models.Passage, len(results))
	for i, r := range results {
		metadata := make(map[string]interface{}, len(r.Metadata)+2)
		for key, value := range r.Metadata {
			metadata[key] = value
		}
		metadata["id"] = r.ID
		metadata["similarity"] = r.Similarity

		passages[i] = models.Passage{Content: r.Content, Metadata: metadata}
	}

	s.logger.Debug("searched chromem collection",
		zap.String("collection", s.collection.Name),
		zap.Int("k", k),
		zap.Int("results", len(passages)),
	)

	return passages, nil
}

// AddDocuments embeds and stores docs. Every document needs an ID.
func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyDocuments
	}

	texts := make([]string, len(docs))
	ids := make([]string, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("document at index %d has no ID", i)
		}
		texts[i] = doc.Content
		ids[i] = doc.ID
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  stringMetadata(doc.Metadata),
			Embedding: embeddings[i],
		}
	}

	// Embeddings are already computed, so no concurrency is needed.
	if err := s.collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return nil, fmt.Errorf("adding documents: %w", err)
	}

	s.logger.Debug("added documents to chromem",
		zap.String("collection", s.collection.Name),
		zap.Int("count", len(docs)),
	)

	return ids, nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

func (s *ChromemStore) Close() error {
	s.logger.Info("chromem store closed")
	return nil
}

var _ Store = (*ChromemStore)(nil)
