package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SAP-F-2025/exam-generation-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMemoryStore(t *testing.T, embedder Embedder) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore(ChromemConfig{Collection: "course_material"}, embedder, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestChromemSearchEmptyCollection(t *testing.T) {
	store := newMemoryStore(t, letterEmbedder{})

	passages, err := store.Search(context.Background(), "normalization", 25)

	require.NoError(t, err)
	assert.Empty(t, passages)
	assert.NotNil(t, passages)
}

func TestChromemAddAndSearch(t *testing.T) {
	store := newMemoryStore(t, letterEmbedder{})
	ctx := context.Background()

	ids, err := store.AddDocuments(ctx, []Document{
		{ID: "1", Content: "zzzz zzz zz", Metadata: map[string]interface{}{"source": "noise.txt"}},
		{ID: "2", Content: "database normalization", Metadata: map[string]interface{}{"source": "db.txt", "chunk": 3}},
		{ID: "3", Content: "qqq xxx"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids)
	assert.Equal(t, 3, store.Count())

	// k larger than the collection is capped.
	passages, err := store.Search(ctx, "database normalization", 25)
	require.NoError(t, err)
	require.Len(t, passages, 3)

	assert.Equal(t, "database normalization", passages[0].Content)
	assert.Equal(t, "db.txt", passages[0].Metadata["source"])
	assert.Equal(t, "3", passages[0].Metadata["chunk"])
	assert.Equal(t, "2", passages[0].Metadata["id"])

	passages, err = store.Search(ctx, "database normalization", 1)
	require.NoError(t, err)
	assert.Len(t, passages, 1)
}

func TestChromemSearchInvalidK(t *testing.T) {
	store := newMemoryStore(t, letterEmbedder{})

	_, err := store.Search(context.Background(), "query", 0)

	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestChromemAddDocumentsErrors(t *testing.T) {
	ctx := context.Background()

	_, err := newMemoryStore(t, letterEmbedder{}).AddDocuments(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyDocuments)

	_, err = newMemoryStore(t, letterEmbedder{}).AddDocuments(ctx, []Document{{Content: "no id"}})
	assert.Error(t, err)

	_, err = newMemoryStore(t, letterEmbedder{fail: true}).AddDocuments(ctx, []Document{{ID: "1", Content: "text"}})
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
}

func TestChromemPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors")
	cfg := ChromemConfig{Path: path, Collection: "course_material"}
	ctx := context.Background()

	store, err := NewChromemStore(cfg, letterEmbedder{}, zap.NewNop())
	require.NoError(t, err)
	_, err = store.AddDocuments(ctx, []Document{{ID: "1", Content: "relational algebra"}})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewChromemStore(cfg, letterEmbedder{}, zap.NewNop())
	require.NoError(t, err)
	passages, err := reopened.Search(ctx, "algebra", 5)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "relational algebra", passages[0].Content)
}

func TestNewStoreUnknownBackend(t *testing.T) {
	_, err := NewStore(context.Background(), config.VectorStoreConfig{Backend: "faiss"}, letterEmbedder{}, zap.NewNop())

	assert.ErrorIs(t, err, ErrUnknownBackend)
}
