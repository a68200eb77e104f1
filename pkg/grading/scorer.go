package grading

import "math"

// DefaultPassThreshold is the minimum grade, in percent, that counts as a
// passing recitation when the caller does not configure one.
const DefaultPassThreshold = 70.0

// Result is the grade derived from one similarity score.
type Result struct {
	// Grade is the similarity expressed as a percentage in [0,100], rounded
	// to two decimal places.
	Grade float64 `json:"grade"`

	// Passed reports whether Grade reached the threshold.
	Passed bool `json:"is_passed"`

	// Similarity is the raw similarity the grade was derived from.
	Similarity float64 `json:"similarity_score"`
}

// Grade converts a similarity in [0,1] into a percentage grade and a
// pass/fail verdict against threshold (itself a percentage). A grade equal
// to the threshold passes.
func Grade(similarity, threshold float64) Result {
	grade := math.Round(similarity*100*100) / 100
	return Result{
		Grade:      grade,
		Passed:     grade >= threshold,
		Similarity: similarity,
	}
}
