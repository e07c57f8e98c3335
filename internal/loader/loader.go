package loader

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bilal790042/Document-QA-System/internal/domain"
)

// Loader converts a source file or URL into documents with source
// metadata. Dispatch is by file extension (.txt, .pdf, .docx, .doc) or
// URL scheme; anything else fails with domain.ErrUnsupportedFormat.
type Loader struct {
	httpClient *http.Client
}

func New() *Loader {
	return &Loader{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

// Load reads the given path or URL. One document per source; metadata
// carries the originating file name or URL.
func (l *Loader) Load(ctx context.Context, pathOrURL string) ([]domain.Document, error) {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return l.loadURL(ctx, pathOrURL)
	}

	name := filepath.Base(pathOrURL)
	var content string
	var err error
	switch strings.ToLower(filepath.Ext(pathOrURL)) {
	case ".txt":
		content, err = loadText(pathOrURL)
	case ".pdf":
		content, err = loadPDF(pathOrURL)
	case ".docx", ".doc":
		content, err = loadDOCX(pathOrURL)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, domain.WrapError("load", err)
	}
	return []domain.Document{{
		Content:  content,
		Metadata: map[string]string{domain.MetaSource: name},
	}}, nil
}

func loadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
