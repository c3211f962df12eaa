package chromemdb

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
)

// Retriever exposes the index as a langchaingo schema.Retriever. Queries
// are embedded with the same embedder that produced the chunk vectors.
type Retriever struct {
	db       *VectorDBManager
	embedder embeddings.Embedder
	topK     int
}

var _ schema.Retriever = Retriever{}

func NewRetriever(db *VectorDBManager, embedder embeddings.Embedder, topK int) Retriever {
	return Retriever{db: db, embedder: embedder, topK: topK}
}

func (r Retriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	queryEmbedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := r.db.Search(ctx, queryEmbedding, r.topK)
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = schema.Document{
			PageContent: c.Content,
			Metadata: map[string]any{
				metaPageNumber: c.PageNumber,
				metaChunkID:    c.ChunkID,
				metaOffset:     c.Offset,
			},
		}
	}

	log.Debug().Int("requested", r.topK).Int("retrieved", len(docs)).Msg("Retrieved chunks")
	return docs, nil
}
