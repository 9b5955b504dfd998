package embedding

import "math"

// Normalize returns a copy of vec scaled to unit length, so that the inner
// product of two normalized vectors is their cosine similarity.
// A zero vector is returned unchanged.
func Normalize(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	normalized := make([]float32, len(vec))
	if magnitude == 0 {
		copy(normalized, vec)
		return normalized
	}

	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}

// Dot is the inner product of two vectors of equal length.
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
