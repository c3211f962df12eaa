package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"resume-rag/internal/config"
	"resume-rag/internal/models"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultBatchSize = 100

// NewEmbedder creates the embedder configured in embedConfig. The apiKey is
// the caller's provider key and is only used by hosted providers.
func NewEmbedder(ctx context.Context, embedConfig *config.LLMConfig, apiKey string) (embeddings.Embedder, error) {
	switch embedConfig.Provider {
	case config.ProviderGoogleAI:
		return NewGoogleEmbedder(ctx, embedConfig, apiKey)
	case config.ProviderOllama:
		return NewOllamaEmbedder(embedConfig)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", embedConfig.Provider)
	}
}

// NewGoogleEmbedder creates a Gemini embedder
func NewGoogleEmbedder(ctx context.Context, embedConfig *config.LLMConfig, apiKey string) (*embeddings.EmbedderImpl, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required for googleai embeddings")
	}

	log.Debug().Interface("config", map[string]string{
		"provider":        embedConfig.Provider,
		"embedding_model": embedConfig.Model,
	}).Msg("Creating embedder")

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultEmbeddingModel(embedConfig.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init googleai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithBatchSize(defaultBatchSize))
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return embedder, nil
}

// new ollama embedder
func NewOllamaEmbedder(embedConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	log.Debug().Interface("config", map[string]string{
		"base_url":        embedConfig.BaseURL,
		"embedding_model": embedConfig.Model,
	}).Msg("Creating embedder")

	llm, err := ollama.New(
		ollama.WithServerURL(embedConfig.BaseURL),
		ollama.WithModel(embedConfig.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init ollama client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return embedder, nil
}

// EmbedChunks embeds every chunk in one batched call and pairs each chunk
// with its vector.
func EmbedChunks(ctx context.Context, embedder embeddings.Embedder, chunks []models.Chunk) ([]models.ChunkEmbedding, error) {
	if len(chunks) == 0 {
		log.Info().Msg("No chunks generated from content")
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	chunkEmbeddings := make([]models.ChunkEmbedding, len(chunks))
	for i, chunk := range chunks {
		if len(vectors[i]) == 0 {
			return nil, fmt.Errorf("empty embedding for chunk %d on page %d", chunk.ChunkID, chunk.PageNumber)
		}
		chunkEmbeddings[i] = models.ChunkEmbedding{Chunk: chunk, Embedding: vectors[i]}
	}

	log.Debug().Int("chunks", len(chunkEmbeddings)).Int("dimensions", len(vectors[0])).Msg("Embedded chunks")
	return chunkEmbeddings, nil
}
