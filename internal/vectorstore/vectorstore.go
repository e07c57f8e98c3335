package vectorstore

import (
	"math"
	"sort"
)

// Cosine returns the cosine similarity of two vectors, 0 when either is
// a zero vector or the lengths differ.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TopK returns the indices of the k highest scores in descending order.
// The sort is stable, so equal scores keep insertion order: the
// earlier-inserted entry wins ties.
func TopK(scores []float64, k int) []int {
	if k <= 0 {
		return nil
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(i, j int) bool {
		return scores[idxs[i]] > scores[idxs[j]]
	})
	if k > len(idxs) {
		k = len(idxs)
	}
	return idxs[:k]
}
