package llmservice

import (
	"context"
	"errors"
	"fmt"

	"resume-rag/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// NewLLM creates the Gemini chat model for one request. The key is passed
// through unchanged and never stored in the environment.
func NewLLM(ctx context.Context, llmConfig *config.LLMConfig, apiKey string) (llms.Model, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	if llmConfig.Provider != config.ProviderGoogleAI {
		return nil, fmt.Errorf("unsupported llm provider: %s", llmConfig.Provider)
	}

	log.Debug().Str("model", llmConfig.Model).Msg("Creating LLM client")
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(llmConfig.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init googleai client: %w", err)
	}
	return llm, nil
}
