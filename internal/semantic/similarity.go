package semantic

import (
	"fmt"
	"math"
)

// CosineSimilarity computes the cosine similarity of two equal-length vectors.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("cosine similarity: empty vector")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("cosine similarity: vector dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		ai := float64(a[i])
		bi := float64(b[i])
		if math.IsNaN(ai) || math.IsInf(ai, 0) {
			return 0, fmt.Errorf("cosine similarity: invalid value in vector a at index %d", i)
		}
		if math.IsNaN(bi) || math.IsInf(bi, 0) {
			return 0, fmt.Errorf("cosine similarity: invalid value in vector b at index %d", i)
		}
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}

	if normA == 0 {
		return 0, fmt.Errorf("cosine similarity: zero vector norm for a")
	}
	if normB == 0 {
		return 0, fmt.Errorf("cosine similarity: zero vector norm for b")
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	return score, nil
}
