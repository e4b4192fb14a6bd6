// Package analytics scores task lists: cognitive load, schedule realism,
// decision fatigue, interruption cost and productivity rhythm.
//
// Every function is pure over the slice it is given and returns a neutral
// result for empty or unusable input.
package analytics

import "math"

// Level buckets a 0-100 score.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

const (
	highThreshold   = 75
	mediumThreshold = 50
)

// LevelFor classifies a score: above 75 is high, above 50 is medium.
func LevelFor(score float64) Level {
	switch {
	case score > highThreshold:
		return LevelHigh
	case score > mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
