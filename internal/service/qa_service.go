package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bilal790042/Document-QA-System/internal/domain"
)

// Composer is the answer-composition stage consumed by the facade.
type Composer interface {
	Compose(ctx context.Context, question string, results []domain.SearchResult) (domain.Answer, error)
}

// Loader resolves a path or URL into documents.
type Loader interface {
	Load(ctx context.Context, pathOrURL string) ([]domain.Document, error)
}

// QAServiceImpl composes the retrieval and answer stages behind the two
// core operations: Ask and AddDocument. It owns the only mutable shared
// state (the vector store) and serializes all mutation.
type QAServiceImpl struct {
	chunker   domain.Chunker
	embedder  domain.Embedder
	store     domain.VectorStore
	retriever domain.Retriever
	composer  Composer
	loader    Loader
	batchSize int
	logger    *slog.Logger

	// ingestMu serializes store mutation; the store implementations are
	// not assumed safe for concurrent writes. Ask runs unlocked.
	ingestMu    sync.Mutex
	initialized bool
}

func NewQAService(chunker domain.Chunker, embedder domain.Embedder, store domain.VectorStore,
	retriever domain.Retriever, composer Composer, loader Loader, batchSize int, logger *slog.Logger) *QAServiceImpl {
	if batchSize <= 0 {
		batchSize = 32
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QAServiceImpl{
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		retriever: retriever,
		composer:  composer,
		loader:    loader,
		batchSize: batchSize,
		logger:    logger.With("component", "qa-service"),
	}
}

// Ask answers a question from the indexed corpus. All-or-nothing: any
// stage failure yields no partial answer.
func (s *QAServiceImpl) Ask(ctx context.Context, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, domain.ErrEmptyQuestion
	}
	results, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return domain.Answer{}, err
	}
	answer, err := s.composer.Compose(ctx, question, results)
	if err != nil {
		return domain.Answer{}, err
	}
	s.logger.Debug("question answered", "sources", len(answer.Sources))
	return answer, nil
}

// AddDocument chunks, embeds, and indexes one document, returning the
// number of chunks added. The chunker carries the same size and overlap
// settings as every other ingestion path feeding this store.
func (s *QAServiceImpl) AddDocument(ctx context.Context, content string, metadata map[string]string) (int, error) {
	if strings.TrimSpace(content) == "" {
		return 0, domain.ErrEmptyContent
	}
	doc := domain.Document{Content: content, Metadata: metadata}
	chunks, err := s.chunker.Split(doc)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			return 0, domain.ErrEmptyContent
		}
		return 0, err
	}

	vectors := make([][]float64, 0, len(chunks))
	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, ch := range chunks[start:end] {
			texts = append(texts, ch.Content)
		}
		vecs, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return 0, err
		}
		vectors = append(vectors, vecs...)
	}

	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()
	if !s.initialized {
		if err := s.store.Init(ctx, len(vectors[0])); err != nil {
			return 0, err
		}
		s.initialized = true
	}
	if err := s.store.Upsert(ctx, chunks, vectors); err != nil {
		return 0, err
	}
	s.logger.Info("document ingested", "source", doc.Source(), "chunks", len(chunks))
	return len(chunks), nil
}

// IngestFiles loads and indexes a batch of files or URLs. A failing item
// is recorded as a warning and never aborts the rest of the batch.
func (s *QAServiceImpl) IngestFiles(ctx context.Context, paths []string) (domain.IngestReport, error) {
	var report domain.IngestReport
	for _, p := range paths {
		name := displayName(p)
		docs, err := s.loader.Load(ctx, p)
		if err != nil {
			report.Warnings = append(report.Warnings, name+": "+warningReason(err))
			continue
		}
		added := 0
		var failed error
		for _, doc := range docs {
			n, err := s.AddDocument(ctx, doc.Content, doc.Metadata)
			if err != nil {
				failed = err
				break
			}
			added += n
		}
		if failed != nil {
			report.Warnings = append(report.Warnings, name+": "+warningReason(failed))
			continue
		}
		report.Processed = append(report.Processed, name)
		report.ChunksAdded += added
	}
	return report, nil
}

// Stats reports the current index size and component identities.
func (s *QAServiceImpl) Stats(ctx context.Context) (domain.Stats, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{
		ChunksIndexed: n,
		EmbedderName:  s.embedder.Name(),
		StoreName:     s.store.Name(),
		Ready:         true,
	}, nil
}

func displayName(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	if i := strings.LastIndexAny(pathOrURL, `/\`); i >= 0 {
		return pathOrURL[i+1:]
	}
	return pathOrURL
}

// warningReason maps taxonomy errors to the short human-readable reasons
// surfaced in upload responses.
func warningReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "Unsupported file type"
	case errors.Is(err, domain.ErrEmptyContent), errors.Is(err, domain.ErrEmptyInput):
		return "No text content found"
	default:
		return err.Error()
	}
}

var _ domain.QAService = (*QAServiceImpl)(nil)

// Describe returns a one-line summary used by the console banner.
func (s *QAServiceImpl) Describe() string {
	return fmt.Sprintf("embedder=%s store=%s", s.embedder.Name(), s.store.Name())
}
