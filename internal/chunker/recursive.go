package chunker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/bilal790042/Document-QA-System/internal/domain"
)

// DefaultSeparators is the boundary preference order tried when cutting a
// chunk: paragraph break, line break, sentence end, word break, then a
// hard character cut. The empty string means "cut anywhere".
var DefaultSeparators = []string{"\n\n", "\n", ".", " ", ""}

// RecursiveChunker splits text into chunks of at most chunkSize
// characters, preferring to cut at the coarsest boundary available.
// Each chunk after the first repeats the trailing overlap characters of
// the previous chunk so context survives the cut.
type RecursiveChunker struct {
	chunkSize  int
	overlap    int
	separators []string
}

func NewRecursiveChunker(chunkSize, overlap int, separators []string) *RecursiveChunker {
	if chunkSize <= 0 {
		chunkSize = 810
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return &RecursiveChunker{chunkSize: chunkSize, overlap: overlap, separators: separators}
}

func (c *RecursiveChunker) Split(document domain.Document) ([]domain.Chunk, error) {
	if strings.TrimSpace(document.Content) == "" {
		return nil, domain.ErrEmptyInput
	}
	// All positions are rune indices so cuts and the overlap rewind
	// never land inside a multibyte sequence.
	content := []rune(document.Content)
	if len(content) <= c.chunkSize {
		return []domain.Chunk{c.newChunk(document, document.Content, 0)}, nil
	}

	var chunks []domain.Chunk
	start := 0
	for {
		if len(content)-start <= c.chunkSize {
			chunks = append(chunks, c.newChunk(document, string(content[start:]), len(chunks)))
			break
		}
		window := content[start : start+c.chunkSize]
		cut := c.cutPoint(window)
		chunks = append(chunks, c.newChunk(document, string(window[:cut]), len(chunks)))
		// The next chunk re-reads the trailing overlap of this one.
		start += cut - c.overlap
	}
	return chunks, nil
}

// cutPoint returns the end of the next chunk within window, in
// (overlap, len(window)]. Separators are tried coarsest first; a cut is
// taken after the last occurrence of the first separator that leaves the
// chunk longer than the overlap, so the split always makes progress.
func (c *RecursiveChunker) cutPoint(window []rune) int {
	for _, sep := range c.separators {
		if sep == "" {
			break
		}
		sepRunes := []rune(sep)
		i := lastIndexRunes(window, sepRunes)
		if i < 0 {
			continue
		}
		cut := i + len(sepRunes)
		if cut > c.overlap {
			return cut
		}
	}
	return len(window)
}

// lastIndexRunes is strings.LastIndex over rune slices.
func lastIndexRunes(s, sep []rune) int {
	if len(sep) == 0 || len(sep) > len(s) {
		return -1
	}
outer:
	for i := len(s) - len(sep); i >= 0; i-- {
		for j, r := range sep {
			if s[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

func (c *RecursiveChunker) newChunk(document domain.Document, content string, index int) domain.Chunk {
	return domain.Chunk{
		ID:       uuid.NewString(),
		Content:  content,
		Index:    index,
		Metadata: copyMeta(document.Metadata),
	}
}

func copyMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
