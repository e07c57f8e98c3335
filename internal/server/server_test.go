package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilal790042/Document-QA-System/internal/domain"
)

// fakeQA scripts the facade at the HTTP boundary.
type fakeQA struct {
	answer domain.Answer
	askErr error
}

func (f *fakeQA) Ask(_ context.Context, question string) (domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, domain.ErrEmptyQuestion
	}
	if f.askErr != nil {
		return domain.Answer{}, f.askErr
	}
	return f.answer, nil
}

func (f *fakeQA) AddDocument(_ context.Context, content string, _ map[string]string) (int, error) {
	if strings.TrimSpace(content) == "" {
		return 0, domain.ErrEmptyContent
	}
	return 1, nil
}

func (f *fakeQA) IngestFiles(_ context.Context, paths []string) (domain.IngestReport, error) {
	var report domain.IngestReport
	for _, p := range paths {
		name := filepath.Base(p)
		if filepath.Ext(name) == ".txt" {
			report.Processed = append(report.Processed, name)
			report.ChunksAdded += 2
			continue
		}
		report.Warnings = append(report.Warnings, name+": Unsupported file type")
	}
	return report, nil
}

func (f *fakeQA) Stats(context.Context) (domain.Stats, error) {
	return domain.Stats{ChunksIndexed: 7, EmbedderName: "fake", StoreName: "memory", Ready: true}, nil
}

func newTestServer(svc domain.QAService) *Server {
	return New(svc, []string{"http://localhost:3000"}, nil)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAsk_OK(t *testing.T) {
	svc := &fakeQA{answer: domain.Answer{
		Text:    "The sky is blue.",
		Sources: []domain.Source{{Source: "facts.txt", Content: "The sky is blue."}},
	}}
	h := newTestServer(svc).Handler()

	w := postJSON(t, h, "/api/ask/", map[string]string{"question": "sky color?"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Answer   string          `json:"answer"`
		Sources  []domain.Source `json:"sources"`
		Question string          `json:"question"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "The sky is blue.", resp.Answer)
	assert.Equal(t, "sky color?", resp.Question)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "facts.txt", resp.Sources[0].Source)
}

func TestAsk_EchoesQuestionVerbatim(t *testing.T) {
	svc := &fakeQA{answer: domain.Answer{Text: "ok"}}
	h := newTestServer(svc).Handler()

	w := postJSON(t, h, "/api/ask/", map[string]string{"question": "  padded question  "})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Question string `json:"question"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "  padded question  ", resp.Question)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	h := newTestServer(&fakeQA{}).Handler()

	w := postJSON(t, h, "/api/ask/", map[string]string{"question": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Question cannot be empty")
}

func TestAsk_BackendFailure(t *testing.T) {
	h := newTestServer(&fakeQA{askErr: domain.ErrGeneration}).Handler()

	w := postJSON(t, h, "/api/ask/", map[string]string{"question": "q"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "docqa:", "internal error text must not leak")
}

func TestAsk_ServiceUninitialized(t *testing.T) {
	h := newTestServer(nil).Handler()

	w := postJSON(t, h, "/api/ask/", map[string]string{"question": "q"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func multipartBody(t *testing.T, names map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range names {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload_MixedBatch(t *testing.T) {
	h := newTestServer(&fakeQA{}).Handler()
	body, contentType := multipartBody(t, map[string]string{
		"facts.txt": "The sky is blue.",
		"tool.exe":  "MZ",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/upload/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp uploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.FilesProcessed)
	assert.Equal(t, []string{"facts.txt"}, resp.Filenames)
	assert.Contains(t, resp.Warnings, "tool.exe: Unsupported file type")
}

func TestUpload_OnlyUnsupportedFile(t *testing.T) {
	h := newTestServer(&fakeQA{}).Handler()
	body, contentType := multipartBody(t, map[string]string{"tool.exe": "MZ"})

	req := httptest.NewRequest(http.MethodPost, "/api/upload/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "tool.exe: Unsupported file type")
}

func TestUpload_NoFiles(t *testing.T) {
	h := newTestServer(&fakeQA{}).Handler()
	body, contentType := multipartBody(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/upload/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	h := newTestServer(&fakeQA{}).Handler()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	h = newTestServer(nil).Handler()
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStats(t *testing.T) {
	h := newTestServer(&fakeQA{}).Handler()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(7), resp["documents_indexed"])
	assert.Equal(t, true, resp["qa_service_ready"])
}

func TestCORS(t *testing.T) {
	h := newTestServer(&fakeQA{}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/ask/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	// Unknown origins get no CORS grant.
	req = httptest.NewRequest(http.MethodGet, "/api/health/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
