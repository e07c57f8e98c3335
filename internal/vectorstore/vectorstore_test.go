package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 0}, []float64{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float64{1}, []float64{1, 0}))
}

func TestTopK_StableOnTies(t *testing.T) {
	scores := []float64{0.5, 0.9, 0.5, 0.1}

	idxs := TopK(scores, 3)
	assert.Equal(t, []int{1, 0, 2}, idxs)
}

func TestTopK_Bounds(t *testing.T) {
	assert.Nil(t, TopK([]float64{0.1}, 0))
	assert.Nil(t, TopK([]float64{0.1}, -1))
	assert.Len(t, TopK([]float64{0.1, 0.2}, 10), 2)
	assert.Empty(t, TopK(nil, 5))
}
