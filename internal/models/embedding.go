package models

// PageText is the raw text of one document page. Index is 1-based.
type PageText struct {
	Index int
	Text  string
}

// Chunk represents a parsed chunk with metadata
type Chunk struct {
	Content    string
	PageNumber int
	ChunkID    int
	// Offset is the byte offset of Content within its page text, or -1 if
	// the splitter changed the text so it cannot be located.
	Offset int
}

// ChunkEmbedding pairs a chunk with its vector. One vector per chunk.
type ChunkEmbedding struct {
	Chunk
	Embedding []float32
}

type PromptResponse struct {
	Query   string
	Source  string
	Content string
}
