package chromemdb

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"resume-rag/internal/models"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
)

const (
	metaPageNumber = "page_number"
	metaChunkID    = "chunk_id"
	metaOffset     = "offset"
)

// VectorDBManager wraps one in-memory chromem-go collection. It lives for a
// single request and is never written to disk.
type VectorDBManager struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewVectorDBManager creates an in-memory database with one collection.
// Documents are added with precomputed vectors; the embedder only backs
// chromem's text queries.
func NewVectorDBManager(collectionName string, embedder embeddings.Embedder) (*VectorDBManager, error) {
	db := chromem.NewDB()

	embed := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}
	c, err := db.CreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &VectorDBManager{db: db, collection: c}, nil
}

// AddChunks stores every chunk with its vector.
func (m *VectorDBManager) AddChunks(ctx context.Context, chunkEmbeddings []models.ChunkEmbedding) error {
	if len(chunkEmbeddings) == 0 {
		return errors.New("no chunks to index")
	}

	docs := make([]chromem.Document, len(chunkEmbeddings))
	for i, ce := range chunkEmbeddings {
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("p%d-c%d", ce.PageNumber, ce.ChunkID),
			Content:   ce.Content,
			Metadata:  chunkMetadata(ce.Chunk),
			Embedding: ce.Embedding,
		}
	}

	if err := m.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	log.Debug().Int("documents", m.collection.Count()).Msg("Indexed chunks")
	return nil
}

// Count returns the number of indexed chunks.
func (m *VectorDBManager) Count() int {
	return m.collection.Count()
}

// Search returns up to k chunks nearest to the query vector, most similar
// first. k is capped at the collection size.
func (m *VectorDBManager) Search(ctx context.Context, queryEmbedding []float32, k int) ([]models.Chunk, error) {
	if len(queryEmbedding) == 0 {
		return nil, errors.New("query embedding must be provided")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if n := m.collection.Count(); k > n {
		k = n
	}
	if k == 0 {
		return nil, nil
	}

	results, err := m.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	chunks := make([]models.Chunk, len(results))
	for i, r := range results {
		chunks[i] = chunkFromResult(r)
	}
	return chunks, nil
}

func chunkMetadata(c models.Chunk) map[string]string {
	return map[string]string{
		metaPageNumber: strconv.Itoa(c.PageNumber),
		metaChunkID:    strconv.Itoa(c.ChunkID),
		metaOffset:     strconv.Itoa(c.Offset),
	}
}

func chunkFromResult(r chromem.Result) models.Chunk {
	page, _ := strconv.Atoi(r.Metadata[metaPageNumber])
	id, _ := strconv.Atoi(r.Metadata[metaChunkID])
	offset, _ := strconv.Atoi(r.Metadata[metaOffset])
	return models.Chunk{
		Content:    r.Content,
		PageNumber: page,
		ChunkID:    id,
		Offset:     offset,
	}
}
