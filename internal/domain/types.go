package domain

// MetaSource is the metadata key every loaded document carries: the
// originating file name or URL.
const MetaSource = "source"

// Document represents a single source text loaded into the system.
// Metadata always includes at least MetaSource.
type Document struct {
	Content  string
	Metadata map[string]string
}

// Source returns the document's origin, or "unknown" when unset.
func (d Document) Source() string {
	if s, ok := d.Metadata[MetaSource]; ok && s != "" {
		return s
	}
	return "unknown"
}

// Chunk is a bounded-length segment of a document, the unit stored and
// retrieved by the vector store. Metadata is inherited from the parent
// document; Index is the position of the chunk within it.
type Chunk struct {
	ID       string
	Content  string
	Index    int
	Metadata map[string]string
}

// Source returns the chunk's origin, or "unknown" when unset.
func (c Chunk) Source() string {
	if s, ok := c.Metadata[MetaSource]; ok && s != "" {
		return s
	}
	return "unknown"
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Source is a citation attached to an answer: where a supporting chunk
// came from plus a short excerpt of it.
type Source struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Answer is the result of one ask call.
type Answer struct {
	Text    string
	Sources []Source
}

// IngestReport summarizes a batch file ingestion: which files made it
// into the store and per-file warnings for the ones that did not.
type IngestReport struct {
	Processed   []string
	ChunksAdded int
	Warnings    []string
}

// Stats describes the current state of the service.
type Stats struct {
	ChunksIndexed int
	EmbedderName  string
	StoreName     string
	Ready         bool
}
