package stats

import (
	"math"
	"strconv"
)

// Performance trend labels.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// MatchPerformance is one match's contribution to a player's recent form.
type MatchPerformance struct {
	Runs    float64
	Wickets float64
	Won     bool
}

// FormatNumber renders a stat value with fixed decimals, or "N/A" for NaN.
func FormatNumber(value float64, decimals int) string {
	if math.IsNaN(value) {
		return "N/A"
	}
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

// PerformanceTrend compares the average of the last three data points
// against the three before them. Swings beyond 10% either way count as a
// trend; anything less, or too little data, is stable.
func PerformanceTrend(data []float64) string {
	if len(data) < 6 {
		return TrendStable
	}

	recent := average(data[len(data)-3:])
	previous := average(data[len(data)-6 : len(data)-3])
	if previous == 0 {
		return TrendStable
	}

	change := (recent - previous) / previous * 100
	switch {
	case change > 10:
		return TrendImproving
	case change < -10:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// FormIndex scores a player's last five matches on a 0-100 scale: up to 3
// points each for runs and wickets, 2 for a win, 8 per match maximum.
func FormIndex(recentMatches []MatchPerformance) float64 {
	if len(recentMatches) == 0 {
		return 0
	}

	recent := recentMatches
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	points := 0.0
	for _, m := range recent {
		switch {
		case m.Runs >= 50:
			points += 3
		case m.Runs >= 30:
			points += 2
		case m.Runs >= 15:
			points += 1
		}

		switch {
		case m.Wickets >= 3:
			points += 3
		case m.Wickets >= 2:
			points += 2
		case m.Wickets >= 1:
			points += 1
		}

		if m.Won {
			points += 2
		}
	}

	return points / (float64(len(recent)) * 8) * 100
}

func average(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}
