// Package testutil holds in-memory stand-ins for the model providers.
package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// KeywordEmbedder maps text to keyword counts, one dimension per keyword
// plus a constant dimension so no vector is all zeros.
type KeywordEmbedder struct {
	Keywords []string
	Err      error

	mu    sync.Mutex
	Calls int
}

func (e *KeywordEmbedder) vector(text string) []float32 {
	text = strings.ToLower(text)
	v := make([]float32, len(e.Keywords)+1)
	for i, kw := range e.Keywords {
		v[i] = float32(strings.Count(text, strings.ToLower(kw)))
	}
	v[len(e.Keywords)] = 0.1
	return v
}

func (e *KeywordEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.Calls++
	e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *KeywordEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.Calls++
	e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	return e.vector(text), nil
}

// FakeLLM returns Response for every call and records the prompts it saw.
type FakeLLM struct {
	Response string
	Err      error

	mu      sync.Mutex
	Prompts []string
}

func (f *FakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	var prompt strings.Builder
	for _, m := range messages {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt.WriteString(text.Text)
			}
		}
	}
	f.mu.Lock()
	f.Prompts = append(f.Prompts, prompt.String())
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.Response}},
	}, nil
}

func (f *FakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

// LastPrompt returns the most recent prompt, or "" if none was sent.
func (f *FakeLLM) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Prompts) == 0 {
		return ""
	}
	return f.Prompts[len(f.Prompts)-1]
}

var ErrFake = errors.New("fake provider failure")
