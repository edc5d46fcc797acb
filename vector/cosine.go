package vector

import "math"

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
// Mismatched lengths, empty input and zero-magnitude vectors all score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	// sqrt(normA*normB) keeps score(v, v) exactly 1.
	denom := math.Sqrt(normA * normB)
	if math.IsInf(denom, 0) || denom == 0 {
		denom = math.Sqrt(normA) * math.Sqrt(normB)
	}
	sim := dotProduct / denom
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	return clamp(sim, -1, 1)
}

// Score returns the cosine similarity of an aligned pair.
func Score(pair AlignedPair) float64 {
	return CosineSimilarity(pair.Reference, pair.Candidate)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
