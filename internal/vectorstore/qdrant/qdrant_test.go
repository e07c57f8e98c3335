package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilal790042/Document-QA-System/internal/domain"
)

func TestSearch_DecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/docqa/points/search", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(2), req["limit"])

		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{
					"id":    "abc",
					"score": 0.92,
					"payload": map[string]any{
						"content":  "the sky is blue",
						"index":    0,
						"metadata": map[string]string{domain.MetaSource: "facts.txt"},
					},
				},
			},
		})
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, Collection: "docqa"})
	res, err := s.Search(context.Background(), []float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "abc", res[0].Chunk.ID)
	assert.Equal(t, "the sky is blue", res[0].Chunk.Content)
	assert.Equal(t, "facts.txt", res[0].Chunk.Source())
	assert.InDelta(t, 0.92, res[0].Score, 1e-9)
}

func TestUpsert_SendsPoints(t *testing.T) {
	var got struct {
		Points []struct {
			ID     string    `json:"id"`
			Vector []float64 `json:"vector"`
		} `json:"points"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"result": {}}`))
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, Collection: "docqa"})
	err := s.Upsert(context.Background(),
		[]domain.Chunk{{ID: "p1", Content: "c"}}, [][]float64{{0.1, 0.2}})
	require.NoError(t, err)
	require.Len(t, got.Points, 1)
	assert.Equal(t, "p1", got.Points[0].ID)
	assert.Equal(t, []float64{0.1, 0.2}, got.Points[0].Vector)
}

func TestMissingCollectionReadsAsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":{"error":"Not found: Collection docqa doesn't exist!"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	// Queries before the first ingest created the collection must see
	// an empty index, not a failure.
	s := NewStorage(Config{URL: srv.URL, Collection: "docqa"})
	res, err := s.Search(context.Background(), []float64{1, 0}, 4)
	require.NoError(t, err)
	assert.Empty(t, res)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	// Writes still surface the failure.
	err = s.Upsert(context.Background(), []domain.Chunk{{ID: "p1"}}, [][]float64{{1, 0}})
	assert.ErrorIs(t, err, domain.ErrIndex)
}

func TestBackendErrorWrapsIndexError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad collection", http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, Collection: "docqa"})
	err := s.Init(context.Background(), 4)
	assert.ErrorIs(t, err, domain.ErrIndex)
}
