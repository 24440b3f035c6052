// Package relevance converts vector-store distances into relevance scores.
package relevance

// Normalize maps a cosine distance to relevance: 1 - d. No bounds checking.
func Normalize(distance float64) float64 {
	return 1 - distance
}

// Clip clamps score into [0,1] and reports whether clamping happened.
func Clip(score float64) (float64, bool) {
	switch {
	case score < 0:
		return 0, true
	case score > 1:
		return 1, true
	default:
		return score, false
	}
}
