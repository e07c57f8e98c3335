package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilal790042/Document-QA-System/internal/domain"
)

func TestComplete_ParsesFirstChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  The sky is blue.\n"}},
			},
		})
	}))
	defer srv.Close()
	t.Setenv("TEST_API_KEY", "secret")

	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_API_KEY", Model: "test-model"})
	require.NoError(t, err)

	answer, err := c.Complete(context.Background(), "be helpful", "what color is the sky?")
	require.NoError(t, err)
	assert.Equal(t, "The sky is blue.", answer)
}

func TestComplete_BackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	t.Setenv("TEST_API_KEY", "secret")

	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_API_KEY"})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()
	t.Setenv("TEST_API_KEY", "secret")

	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_API_KEY"})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestLoadPrompt_Defaults(t *testing.T) {
	p, err := LoadPrompt("", "")
	require.NoError(t, err)
	assert.NotEmpty(t, p.System)
	assert.Contains(t, p.Question, "{question}")
	assert.Contains(t, p.Question, "{context}")
}

func TestLoadPrompt_MissingFilesFallBack(t *testing.T) {
	p, err := LoadPrompt("no/such/system.txt", "no/such/qa.txt")
	require.NoError(t, err)
	assert.Contains(t, p.Question, "{question}")
}

func TestLoadPrompt_FromFiles(t *testing.T) {
	dir := t.TempDir()
	sys := filepath.Join(dir, "system.txt")
	qa := filepath.Join(dir, "qa.txt")
	require.NoError(t, os.WriteFile(sys, []byte("be terse"), 0o644))
	require.NoError(t, os.WriteFile(qa, []byte("ctx={context} q={question}"), 0o644))

	p, err := LoadPrompt(sys, qa)
	require.NoError(t, err)
	assert.Equal(t, "be terse", p.System)
	assert.Equal(t, "ctx=CTX q=Q", p.Fill("CTX", "Q"))
}

func TestLoadPrompt_RejectsTemplateWithoutQuestionSlot(t *testing.T) {
	dir := t.TempDir()
	qa := filepath.Join(dir, "qa.txt")
	require.NoError(t, os.WriteFile(qa, []byte("no slots here"), 0o644))

	_, err := LoadPrompt("", qa)
	assert.Error(t, err)
}
