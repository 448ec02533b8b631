package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/features"
)

// DTWDistance calculates the Dynamic Time Warping distance between two
// angle feature sequences. Returns infinity if either sequence is empty.
// The distance is normalized by the longer sequence length, so it reads as
// the mean per-frame Euclidean distance in degrees along the best alignment.
func DTWDistance(seq1, seq2 []features.Vector) float64 {
	n := len(seq1)
	m := len(seq2)

	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	// Two rolling rows of the (n+1) x (m+1) cost matrix.
	prev := make([]float64, m+1)
	curr := make([]float64, m+1)
	for j := range prev {
		prev[j] = math.Inf(1)
	}
	prev[0] = 0

	for i := 1; i <= n; i++ {
		curr[0] = math.Inf(1)
		for j := 1; j <= m; j++ {
			cost := frameDistance(&seq1[i-1], &seq2[j-1])
			curr[j] = cost + min(prev[j], curr[j-1], prev[j-1])
		}
		prev, curr = curr, prev
	}

	return prev[m] / float64(max(n, m))
}

// frameDistance is the Euclidean distance between two feature vectors.
func frameDistance(a, b *features.Vector) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
