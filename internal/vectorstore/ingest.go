package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"
)

// Ingester splits course material into chunks and adds them to a store.
type Ingester struct {
	store    Store
	splitter textsplitter.TextSplitter
	logger   *zap.Logger
}

func NewIngester(store Store, chunkSize, chunkOverlap int, logger *zap.Logger) *Ingester {
	return &Ingester{
		store: store,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
		logger: logger,
	}
}

// IngestFile reads a text file and indexes its chunks. It returns the
// number of chunks added.
func (i *Ingester) IngestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return i.IngestText(ctx, filepath.Base(path), string(data))
}

// IngestText indexes text under the given source name. Chunks carry
// {source, chunk} metadata.
func (i *Ingester) IngestText(ctx context.Context, source, text string) (int, error) {
	chunks, err := i.splitter.SplitText(text)
	if err != nil {
		return 0, fmt.Errorf("splitting %s: %w", source, err)
	}

	docs := make([]Document, 0, len(chunks))
	for n, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		docs = append(docs, Document{
			ID:      uuid.NewString(),
			Content: chunk,
			Metadata: map[string]interface{}{
				"source": source,
				"chunk":  n,
			},
		})
	}
	if len(docs) == 0 {
		i.logger.Warn("nothing to ingest", zap.String("source", source))
		return 0, nil
	}

	if _, err := i.store.AddDocuments(ctx, docs); err != nil {
		return 0, fmt.Errorf("indexing %s: %w", source, err)
	}

	i.logger.Info("ingested source",
		zap.String("source", source),
		zap.Int("chunks", len(docs)),
	)
	return len(docs), nil
}
