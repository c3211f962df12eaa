package parser

import (
	"fmt"
	"strings"

	"resume-rag/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/textsplitter"
)

// ChunkPages splits every page into overlapping windows of at most
// chunkSize characters. ChunkIDs are 1-based and restart on each page.
func ChunkPages(pages []models.PageText, chunkSize, chunkOverlap int) ([]models.Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	var chunks []models.Chunk
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		parts, err := splitter.SplitText(page.Text)
		if err != nil {
			return nil, fmt.Errorf("split page %d: %w", page.Index, err)
		}
		chunks = append(chunks, pageChunks(page, parts)...)
	}
	return chunks, nil
}

// pageChunks locates each split in the page text. Splits come back in page
// order, so the search for the next one starts after the previous start.
// A split that is not found verbatim gets offset -1.
func pageChunks(page models.PageText, parts []string) []models.Chunk {
	var chunks []models.Chunk
	cursor := 0
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		offset := -1
		if idx := strings.Index(page.Text[cursor:], part); idx >= 0 {
			offset = cursor + idx
			cursor = offset + 1
		} else {
			log.Debug().Int("page", page.Index).Int("chunk", len(chunks)+1).Msg("Chunk not found in page text, offset unknown")
		}
		chunks = append(chunks, models.Chunk{
			Content:    part,
			PageNumber: page.Index,
			ChunkID:    len(chunks) + 1,
			Offset:     offset,
		})
	}
	return chunks
}
