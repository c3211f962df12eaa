package llmservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const generateContentMethod = "generateContent"

// ModelInfo is one model visible to an API key.
type ModelInfo struct {
	Name    string
	Methods []string
}

// SupportsGeneration reports whether the model can serve generateContent.
func (m ModelInfo) SupportsGeneration() bool {
	for _, method := range m.Methods {
		if method == generateContentMethod {
			return true
		}
	}
	return false
}

// ListModels returns every model the key can access.
func ListModels(ctx context.Context, apiKey string) ([]ModelInfo, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}
	defer client.Close()

	var out []ModelInfo
	it := client.ListModels(ctx)
	for {
		m, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		out = append(out, ModelInfo{Name: m.Name, Methods: m.SupportedGenerationMethods})
	}

	log.Debug().Int("models", len(out)).Msg("Listed models")
	return out, nil
}

// HasModel reports whether any listed model matches want by name and
// supports content generation. Names are matched by substring because the
// API returns them as "models/<id>".
func HasModel(available []ModelInfo, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return false
	}
	for _, m := range available {
		if strings.Contains(m.Name, want) && m.SupportsGeneration() {
			return true
		}
	}
	return false
}
