package chromemdb

import (
	"context"
	"testing"

	"resume-rag/internal/embedding"
	"resume-rag/internal/models"
	"resume-rag/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T) (*VectorDBManager, *testutil.KeywordEmbedder) {
	t.Helper()
	ctx := context.Background()
	embedder := &testutil.KeywordEmbedder{Keywords: []string{"golang", "sql", "kubernetes"}}

	chunks := []models.Chunk{
		{Content: "Built golang microservices", PageNumber: 1, ChunkID: 1},
		{Content: "Wrote sql reports and sql migrations", PageNumber: 1, ChunkID: 2, Offset: 27},
		{Content: "Operated kubernetes clusters", PageNumber: 2, ChunkID: 1},
	}
	vectors, err := embedding.EmbedChunks(ctx, embedder, chunks)
	require.NoError(t, err)

	db, err := NewVectorDBManager("resume", embedder)
	require.NoError(t, err)
	require.NoError(t, db.AddChunks(ctx, vectors))
	return db, embedder
}

func TestSearchReturnsNearestFirst(t *testing.T) {
	db, embedder := newIndex(t)
	require.Equal(t, 3, db.Count())

	query, err := embedder.EmbedQuery(context.Background(), "kubernetes")
	require.NoError(t, err)

	chunks, err := db.Search(context.Background(), query, 2)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, models.Chunk{Content: "Operated kubernetes clusters", PageNumber: 2, ChunkID: 1}, chunks[0])
}

func TestSearchCapsKAtCollectionSize(t *testing.T) {
	db, embedder := newIndex(t)
	query, err := embedder.EmbedQuery(context.Background(), "sql")
	require.NoError(t, err)

	chunks, err := db.Search(context.Background(), query, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, 2, chunks[0].ChunkID)
	assert.Equal(t, 27, chunks[0].Offset)
}

func TestSearchValidatesInput(t *testing.T) {
	db, _ := newIndex(t)

	_, err := db.Search(context.Background(), nil, 2)
	assert.Error(t, err)

	_, err = db.Search(context.Background(), []float32{1, 0, 0, 0}, 0)
	assert.Error(t, err)
}

func TestAddChunksRejectsEmpty(t *testing.T) {
	db, err := NewVectorDBManager("empty", &testutil.KeywordEmbedder{})
	require.NoError(t, err)
	assert.Error(t, db.AddChunks(context.Background(), nil))
}

func TestRetrieverGetRelevantDocuments(t *testing.T) {
	db, embedder := newIndex(t)
	retriever := NewRetriever(db, embedder, 1)

	docs, err := retriever.GetRelevantDocuments(context.Background(), "golang engineer")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Built golang microservices", docs[0].PageContent)
	assert.Equal(t, 1, docs[0].Metadata["page_number"])
}

func TestRetrieverEmbeddingFailure(t *testing.T) {
	db, _ := newIndex(t)
	retriever := NewRetriever(db, &testutil.KeywordEmbedder{Err: testutil.ErrFake}, 4)

	_, err := retriever.GetRelevantDocuments(context.Background(), "anything")
	assert.ErrorIs(t, err, testutil.ErrFake)
}
