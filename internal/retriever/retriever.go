package retriever

import (
	"context"
	"fmt"

	"github.com/bilal790042/Document-QA-System/internal/domain"
)

// Retriever embeds a question and delegates similarity search to the
// vector store with a fixed result count. Pure composition: no caching,
// no deduplication across calls.
type Retriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
	topK     int
}

// New constructs a Retriever over the given embedder and store.
func New(embedder domain.Embedder, store domain.VectorStore, topK int) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("retriever: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("retriever: store must not be nil")
	}
	if topK <= 0 {
		topK = 4
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}, nil
}

// Retrieve returns the topK chunks most similar to the question.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]domain.SearchResult, error) {
	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, domain.WrapError("retrieve", err)
	}
	results, err := r.store.Search(ctx, vec, r.topK)
	if err != nil {
		return nil, domain.WrapError("retrieve", err)
	}
	return results, nil
}
