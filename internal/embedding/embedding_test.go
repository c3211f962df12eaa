package embedding

import (
	"context"
	"testing"

	"resume-rag/internal/config"
	"resume-rag/internal/models"
	"resume-rag/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shortEmbedder struct{ testutil.KeywordEmbedder }

func (s *shortEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out, err := s.KeywordEmbedder.EmbedDocuments(ctx, texts)
	return out[:len(out)-1], err
}

func TestEmbedChunks(t *testing.T) {
	embedder := &testutil.KeywordEmbedder{Keywords: []string{"go", "sql"}}
	chunks := []models.Chunk{
		{Content: "go go services", PageNumber: 1, ChunkID: 1},
		{Content: "sql reporting", PageNumber: 1, ChunkID: 2, Offset: 15},
	}

	out, err := EmbedChunks(context.Background(), embedder, chunks)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, chunks[0], out[0].Chunk)
	assert.Equal(t, []float32{2, 0, 0.1}, out[0].Embedding)
	assert.Equal(t, chunks[1], out[1].Chunk)
	assert.Equal(t, []float32{0, 1, 0.1}, out[1].Embedding)
	assert.Equal(t, 1, embedder.Calls, "chunks are embedded in one batch")
}

func TestEmbedChunksEmpty(t *testing.T) {
	embedder := &testutil.KeywordEmbedder{}
	out, err := EmbedChunks(context.Background(), embedder, nil)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Zero(t, embedder.Calls)
}

func TestEmbedChunksProviderError(t *testing.T) {
	embedder := &testutil.KeywordEmbedder{Err: testutil.ErrFake}
	_, err := EmbedChunks(context.Background(), embedder, []models.Chunk{{Content: "x"}})
	assert.ErrorIs(t, err, testutil.ErrFake)
}

func TestEmbedChunksCountMismatch(t *testing.T) {
	embedder := &shortEmbedder{}
	_, err := EmbedChunks(context.Background(), embedder, []models.Chunk{{Content: "a"}, {Content: "b"}})
	assert.ErrorContains(t, err, "1 vectors for 2 chunks")
}

func TestNewEmbedderUnsupportedProvider(t *testing.T) {
	_, err := NewEmbedder(context.Background(), &config.LLMConfig{Provider: "huggingface"}, "key")
	assert.ErrorContains(t, err, "unsupported embedding provider")
}

func TestNewGoogleEmbedderRequiresKey(t *testing.T) {
	_, err := NewEmbedder(context.Background(), &config.LLMConfig{Provider: config.ProviderGoogleAI, Model: "text-embedding-004"}, "")
	assert.Error(t, err)
}

func TestNewOllamaEmbedder(t *testing.T) {
	embedder, err := NewEmbedder(context.Background(), &config.LLMConfig{
		Provider: config.ProviderOllama,
		BaseURL:  "http://localhost:11434",
		Model:    "nomic-embed-text",
	}, "")
	require.NoError(t, err)
	assert.NotNil(t, embedder)
}
