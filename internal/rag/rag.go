package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-rag/internal/config"
	"resume-rag/internal/helper"
	"resume-rag/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"
)

// Generator answers one query from retrieved résumé chunks by stuffing them
// into a single prompt.
type Generator struct {
	llm         llms.Model
	template    string
	temperature float64
}

func NewGenerator(llm llms.Model, cfg *config.Config) *Generator {
	template := models.BulletsPromptTemplate
	if cfg.RAG.AnswerFormat == config.AnswerFormatJSON {
		template = models.JSONPromptTemplate
	}
	return &Generator{llm: llm, template: template, temperature: cfg.LLM.Temperature}
}

// Answer retrieves the chunks relevant to query and returns the model's
// free-text answer.
func (g *Generator) Answer(ctx context.Context, retriever schema.Retriever, query string) (*models.PromptResponse, error) {
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	prompt := prompts.NewPromptTemplate(g.template, []string{"context", "question"})
	qa := chains.NewRetrievalQA(chains.NewStuffDocuments(chains.NewLLMChain(g.llm, prompt)), retriever)
	qa.ReturnSourceDocuments = true

	out, err := chains.Call(ctx, qa, map[string]any{"query": query}, chains.WithTemperature(g.temperature))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	answer, ok := out["text"].(string)
	if !ok {
		return nil, errors.New("chain returned no text output")
	}
	docs, _ := out["source_documents"].([]schema.Document)

	log.Debug().Int("sources", len(docs)).Str("answer", helper.Truncate(answer, 200)).Msg("Generated answer")
	return &models.PromptResponse{Query: query, Source: sourceText(docs), Content: answer}, nil
}

func sourceText(docs []schema.Document) string {
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = doc.PageContent
	}
	return strings.Join(parts, models.ContextSeparator)
}
