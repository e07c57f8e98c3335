package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bilal790042/Document-QA-System/internal/domain"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

func (l *Loader) loadURL(ctx context.Context, pageURL string) ([]domain.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, domain.WrapError("load", err)
	}
	req.Header.Set("User-Agent", "docqa/1.0")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError("load", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, domain.WrapError("load", fmt.Errorf("fetch %s: %s", pageURL, resp.Status))
	}

	meta := map[string]string{domain.MetaSource: pageURL}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		if !strings.Contains(contentType, "text/") {
			return nil, fmt.Errorf("%w: content type %s", domain.ErrUnsupportedFormat, contentType)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, domain.WrapError("load", err)
		}
		return []domain.Document{{Content: string(body), Metadata: meta}}, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, domain.WrapError("load", err)
	}
	doc.Find("script, style, nav, footer, aside").Remove()

	if title := strings.TrimSpace(doc.Find("title").Text()); title != "" {
		meta["title"] = title
	}

	text := cleanText(doc.Find("body").Text())
	return []domain.Document{{Content: text, Metadata: meta}}, nil
}

func cleanText(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(blankLines.ReplaceAllString(s, "\n\n"))
}
