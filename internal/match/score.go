package match

import (
	"fmt"
	"math"
)

// DefaultThreshold is the score-unit cutoff below which two faces are
// considered different people. Tuned against the dlib-style embeddings the
// extractor produces, where genuine pairs typically land above 60.
const DefaultThreshold = 52.0

// Distance returns the Euclidean (L2) distance between two embedding
// vectors. Both vectors must have the same dimension; a mismatch is a
// programming error, not a recoverable condition, and panics.
func Distance(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("match: embedding dimension mismatch: %d vs %d", len(a), len(b)))
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Sqrt(sum)
}

// Score converts the distance between two embeddings into a similarity
// percentage: (1 - distance) * 100. The value is intentionally NOT clamped:
// a distance above 1 yields a negative score and callers must tolerate it.
func Score(a, b []float64) float64 {
	return (1 - Distance(a, b)) * 100
}

// Policy decides biometric matches from a similarity score. A single
// score-unit threshold is used everywhere; a distance tolerance t is the
// same cutoff expressed as (1-t)*100.
type Policy struct {
	Threshold float64
}

// DefaultPolicy returns a Policy with the default threshold.
func DefaultPolicy() Policy {
	return Policy{Threshold: DefaultThreshold}
}

// IsMatch reports whether the score clears the threshold.
func (p Policy) IsMatch(score float64) bool {
	return score >= p.Threshold
}
