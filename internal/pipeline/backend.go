package pipeline

import (
	"context"

	"resume-rag/internal/config"
	"resume-rag/internal/embedding"
	"resume-rag/internal/llmservice"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

// GeminiBackend talks to the Gemini API for model listing and generation,
// and to the configured embedding provider.
type GeminiBackend struct {
	cfg *config.Config
}

var _ Backend = GeminiBackend{}

func NewGeminiBackend(cfg *config.Config) GeminiBackend {
	return GeminiBackend{cfg: cfg}
}

func (b GeminiBackend) ListModels(ctx context.Context, apiKey string) ([]llmservice.ModelInfo, error) {
	return llmservice.ListModels(ctx, apiKey)
}

func (b GeminiBackend) NewEmbedder(ctx context.Context, apiKey string) (embeddings.Embedder, error) {
	return embedding.NewEmbedder(ctx, &b.cfg.EmbedLLM, apiKey)
}

func (b GeminiBackend) NewLLM(ctx context.Context, apiKey string) (llms.Model, error) {
	return llmservice.NewLLM(ctx, &b.cfg.LLM, apiKey)
}
