// Package risk buckets a length of stay into an ordinal risk score.
package risk

import "math"

// Level is an ordinal risk bucket, 1 (very low) to 5 (high).
type Level int

const (
	VeryLow Level = iota + 1
	Low
	Moderate
	Elevated
	High
)

func (l Level) String() string {
	switch l {
	case VeryLow:
		return "very_low"
	case Low:
		return "low"
	case Moderate:
		return "moderate"
	case Elevated:
		return "elevated"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// Score returns the risk score (1-5) for a length of stay in days. The stay
// is rounded up to whole days first; the input is not validated, so zero and
// negative stays fall into the lowest bucket.
func Score(los float64) int {
	return int(LevelOf(los))
}

func LevelOf(los float64) Level {
	days := math.Ceil(los)
	switch {
	case days > 15:
		return High
	case days > 13:
		return Elevated
	case days > 10:
		return Moderate
	case days > 6:
		return Low
	default:
		return VeryLow
	}
}

// Scores maps Score over a slice.
func Scores(los []float64) []int {
	out := make([]int, len(los))
	for i, v := range los {
		out[i] = Score(v)
	}
	return out
}

// Histogram counts scores per bucket; index 0 is unused.
func Histogram(los []float64) [6]int {
	var h [6]int
	for _, v := range los {
		h[Score(v)]++
	}
	return h
}
