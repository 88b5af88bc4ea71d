package vectorstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

const contentPayloadKey = "content"

type QdrantConfig struct {
	Host       string
	Port       int
	UseTLS     bool
	APIKey     string
	Collection string
	Distance   qdrant.Distance
}

func (c *QdrantConfig) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.Distance == qdrant.Distance_UnknownDistance {
		c.Distance = qdrant.Distance_Cosine
	}
}

// QdrantStore keeps the corpus in a Qdrant collection over gRPC. The
// collection is created on first insert, sized from the first embedding.
type QdrantStore struct {
	client *qdrant.Client
	config QdrantConfig

	embedder Embedder
	logger   *zap.Logger
	ready    atomic.Bool
}

func NewQdrantStore(ctx context.Context, config QdrantConfig, embedder Embedder, logger *zap.Logger) (*QdrantStore, error) {
	config.applyDefaults()
	if config.Collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	if !config.UseTLS {
		logger.Warn("qdrant gRPC is using plaintext (TLS disabled)")
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   config.Host,
		Port:   config.Port,
		UseTLS: config.UseTLS,
		APIKey: config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.HealthCheck(healthCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("qdrant health check failed: %w", err)
	}

	return &QdrantStore{
		client:   client,
		config:   config,
		embedder: embedder,
		logger:   logger,
	}, nil
}

func (s *QdrantStore) collectionExists(ctx context.Context) (bool, error) {
	if s.ready.Load() {
		return true, nil
	}
	exists, err := s.client.CollectionExists(ctx, s.config.Collection)
	if err != nil {
		return false, fmt.Errorf("checking collection %s: %w", s.config.Collection, err)
	}
	if exists {
		s.ready.Store(true)
	}
	return exists, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context, vectorSize int) error {
	exists, err := s.collectionExists(ctx)
	if err != nil || exists {
		return err
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.config.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: s.config.Distance,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", s.config.Collection, err)
	}

	s.ready.Store(true)
	s.logger.Info("created qdrant collection",
		zap.String("collection", s.config.Collection),
		zap.Int("vector_size", vectorSize),
	)
	return nil
}

// Search returns up to k passages, most similar first. A collection that
// does not exist yet holds no passages.
func (s *QdrantStore) Search(ctx context.Context, query string, k int) ([]models.Passage, error) {
	if err := validateSearch(k); err != nil {
		return nil, err
	}

	exists, err := s.collectionExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		s.logger.Warn("qdrant collection does not exist", zap.String("collection", s.config.Collection))
		return []models.Passage{}, nil
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.config.Collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("searching collection %s: %w", s.config.Collection, err)
	}

	passages := make([]models.Passage, len(points))
	for i, point := range points {
		passages[i] = passageFromPoint(point)
	}

	s.logger.Debug("searched qdrant collection",
		zap.String("collection", s.config.Collection),
		zap.Int("k", k),
		zap.Int("results", len(passages)),
	)

	return passages, nil
}

func passageFromPoint(point *qdrant.ScoredPoint) models.Passage {
	passage := models.Passage{
		Metadata: map[string]interface{}{"similarity": point.GetScore()},
	}
	if id := point.GetId(); id != nil {
		passage.Metadata["id"] = id.GetUuid()
	}

	for key, value := range point.GetPayload() {
		switch val := value.GetKind().(type) {
		case *qdrant.Value_StringValue:
			if key == contentPayloadKey {
				passage.Content = val.StringValue
				continue
			}
			passage.Metadata[key] = val.StringValue
		case *qdrant.Value_IntegerValue:
			passage.Metadata[key] = val.IntegerValue
		case *qdrant.Value_DoubleValue:
			passage.Metadata[key] = val.DoubleValue
		case *qdrant.Value_BoolValue:
			passage.Metadata[key] = val.BoolValue
		}
	}
	return passage
}

// AddDocuments embeds and upserts docs. IDs must be UUIDs; empty IDs get a
// fresh one.
func (s *QdrantStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyDocuments
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if len(embeddings) != len(docs) || len(embeddings[0]) == 0 {
		return nil, fmt.Errorf("%w: got %d embeddings for %d documents", ErrEmbeddingFailed, len(embeddings), len(docs))
	}

	if err := s.ensureCollection(ctx, len(embeddings[0])); err != nil {
		return nil, err
	}

	ids := make([]string, len(docs))
	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		id := doc.ID
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		ids[i] = id

		payload := make(map[string]any, len(doc.Metadata)+1)
		for key, value := range stringMetadata(doc.Metadata) {
			payload[key] = value
		}
		payload[contentPayloadKey] = doc.Content

		valueMap, err := qdrant.TryValueMap(payload)
		if err != nil {
			return nil, fmt.Errorf("building payload for document %d: %w", i, err)
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(id),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: valueMap,
		}
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.config.Collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return nil, fmt.Errorf("upserting into %s: %w", s.config.Collection, err)
	}

	s.logger.Debug("upserted documents to qdrant",
		zap.String("collection", s.config.Collection),
		zap.Int("count", len(docs)),
	)

	return ids, nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

var _ Store = (*QdrantStore)(nil)
