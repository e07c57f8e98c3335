package domain

import "context"

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Split(document Document) ([]Chunk, error)
}

// Embedder converts free text into a numeric vector representation.
// Calls may block on network I/O; implementations perform no retries and
// surface backend failures verbatim.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorStore persists (vector, chunk) entries and supports similarity
// search. Upsert is append-only: existing entries are never reordered or
// deduplicated. Search on an empty store returns an empty result.
type VectorStore interface {
	Name() string
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Count(ctx context.Context) (int, error)
}

// ChatModel produces a completion for a system instruction plus a user
// turn. Synchronous from the caller's perspective.
type ChatModel interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// Retriever returns the chunks most relevant to a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]SearchResult, error)
}

// QAService defines the operations exposed by the application core.
type QAService interface {
	Ask(ctx context.Context, question string) (Answer, error)
	AddDocument(ctx context.Context, content string, metadata map[string]string) (int, error)
	IngestFiles(ctx context.Context, paths []string) (IngestReport, error)
	Stats(ctx context.Context) (Stats, error)
}
