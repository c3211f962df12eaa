// Package pipeline runs one résumé through ingestion, retrieval-augmented
// generation, role extraction and job lookup.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"resume-rag/internal/chromemdb"
	"resume-rag/internal/config"
	"resume-rag/internal/embedding"
	"resume-rag/internal/llmservice"
	"resume-rag/internal/models"
	"resume-rag/internal/parser"
	"resume-rag/internal/rag"
	"resume-rag/internal/roles"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

const collectionName = "resume"

var (
	ErrMissingAPIKey    = errors.New("an API key is required")
	ErrUnsupportedModel = errors.New("the API key has no access to the required model")
)

// Error is a failure in one stage of the pipeline. Nothing produced before
// the failure is returned.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Backend creates the provider clients for one request. Every method
// receives the caller's key.
type Backend interface {
	ListModels(ctx context.Context, apiKey string) ([]llmservice.ModelInfo, error)
	NewEmbedder(ctx context.Context, apiKey string) (embeddings.Embedder, error)
	NewLLM(ctx context.Context, apiKey string) (llms.Model, error)
}

// JobFinder looks up links for a list of roles, isolating failures per role.
type JobFinder interface {
	FindAll(ctx context.Context, roles []string) []models.RoleJobs
}

type Request struct {
	APIKey   string
	Filename string
	Document io.Reader
}

type Result struct {
	Answer      string              `json:"answer"`
	Suggestions []models.Suggestion `json:"suggestions"`
	Jobs        []models.RoleJobs   `json:"jobs"`
}

// Roles returns the suggested role names in order.
func (r *Result) Roles() []string {
	out := make([]string, len(r.Suggestions))
	for i, s := range r.Suggestions {
		out[i] = s.Title
	}
	return out
}

type Pipeline struct {
	cfg     *config.Config
	backend Backend
	jobs    JobFinder

	stage func(r io.Reader, filename string) (string, func(), error)
	load  func(path string) ([]models.PageText, error)
}

func New(cfg *config.Config, backend Backend, jobs JobFinder) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		backend: backend,
		jobs:    jobs,
		stage:   parser.Stage,
		load:    parser.LoadDocument,
	}
}

// Run processes one request. It returns ErrMissingAPIKey or
// ErrUnsupportedModel before touching the document, a *Error when a stage
// fails, and otherwise a complete Result whose per-role lookup failures are
// recorded in Result.Jobs.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if req.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	available, err := p.backend.ListModels(ctx, req.APIKey)
	if err != nil {
		return nil, &Error{Stage: "list models", Err: err}
	}
	if !llmservice.HasModel(available, p.cfg.LLM.Model) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, p.cfg.LLM.Model)
	}

	answer, err := p.answer(ctx, req)
	if err != nil {
		return nil, err
	}

	suggestions := roles.Suggestions(answer)
	result := &Result{Answer: answer, Suggestions: suggestions}
	log.Info().Int("roles", len(suggestions)).Msg("Roles identified")

	result.Jobs = p.jobs.FindAll(ctx, result.Roles())
	return result, nil
}

func (p *Pipeline) answer(ctx context.Context, req Request) (string, error) {
	path, release, err := p.stage(req.Document, req.Filename)
	if err != nil {
		return "", &Error{Stage: "stage document", Err: err}
	}
	defer release()

	pages, err := p.load(path)
	if err != nil {
		return "", &Error{Stage: "read document", Err: err}
	}

	chunks, err := parser.ChunkPages(pages, p.cfg.RAG.ChunkSize, p.cfg.RAG.ChunkOverlap)
	if err != nil {
		return "", &Error{Stage: "split document", Err: err}
	}
	if len(chunks) == 0 {
		return "", &Error{Stage: "split document", Err: errors.New("no text found in document")}
	}
	log.Debug().Int("pages", len(pages)).Int("chunks", len(chunks)).Msg("Split document")

	embedder, err := p.backend.NewEmbedder(ctx, req.APIKey)
	if err != nil {
		return "", &Error{Stage: "create embedder", Err: err}
	}
	chunkEmbeddings, err := embedding.EmbedChunks(ctx, embedder, chunks)
	if err != nil {
		return "", &Error{Stage: "embed document", Err: err}
	}

	db, err := chromemdb.NewVectorDBManager(collectionName, embedder)
	if err != nil {
		return "", &Error{Stage: "build index", Err: err}
	}
	if err := db.AddChunks(ctx, chunkEmbeddings); err != nil {
		return "", &Error{Stage: "build index", Err: err}
	}

	llm, err := p.backend.NewLLM(ctx, req.APIKey)
	if err != nil {
		return "", &Error{Stage: "create llm", Err: err}
	}
	retriever := chromemdb.NewRetriever(db, embedder, p.cfg.RAG.TopK)
	resp, err := rag.NewGenerator(llm, p.cfg).Answer(ctx, retriever, p.cfg.RAG.Query)
	if err != nil {
		return "", &Error{Stage: "generate answer", Err: err}
	}
	return resp.Content, nil
}
