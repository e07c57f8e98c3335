package composer

import (
	"context"
	"strings"

	"github.com/bilal790042/Document-QA-System/internal/domain"
	"github.com/bilal790042/Document-QA-System/internal/llm"
)

// excerptLen bounds the source preview attached to an answer.
const excerptLen = 200

// Composer turns retrieved chunks and a question into an answer: format
// the context block, fill the prompt pair, call the model, attach source
// citations. It performs no retries.
type Composer struct {
	model  domain.ChatModel
	prompt llm.Prompt
}

func New(model domain.ChatModel, prompt llm.Prompt) *Composer {
	return &Composer{model: model, prompt: prompt}
}

// Compose produces the answer for a question given its retrieval
// results. All-or-nothing: a model failure yields no partial answer.
func (c *Composer) Compose(ctx context.Context, question string, results []domain.SearchResult) (domain.Answer, error) {
	contextBlock := FormatContext(results)
	user := c.prompt.Fill(contextBlock, question)

	text, err := c.model.Complete(ctx, c.prompt.System, user)
	if err != nil {
		return domain.Answer{}, domain.WrapError("compose", err)
	}

	return domain.Answer{Text: text, Sources: sources(results)}, nil
}

// FormatContext renders retrieved chunks as labeled blocks in ranked
// order, separated by blank lines.
func FormatContext(results []domain.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, "Source: "+r.Chunk.Source()+"\n"+r.Chunk.Content)
	}
	return strings.Join(blocks, "\n\n")
}

func sources(results []domain.SearchResult) []domain.Source {
	out := make([]domain.Source, 0, len(results))
	for _, r := range results {
		out = append(out, domain.Source{
			Source:  r.Chunk.Source(),
			Content: excerpt(r.Chunk.Content),
		})
	}
	return out
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLen {
		return content
	}
	return string(runes[:excerptLen]) + "..."
}
