package engine

import (
	"errors"
	"fmt"
	"slices"

	"lineup/game"
	"lineup/rng"
)

var ErrInvalidTrials = errors.New("trial count must be at least 1")

// TrialSummary describes the run totals of n simulated games.
type TrialSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P10    float64 `json:"p10"`
	P90    float64 `json:"p90"`
	// Distribution[r] is the number of games that scored exactly r runs.
	Distribution []int `json:"distribution"`
}

// Trials is the number of games the summary covers.
func (s TrialSummary) Trials() int {
	total := 0
	for _, c := range s.Distribution {
		total += c
	}
	return total
}

// Variance is the population variance of the run totals.
func (s TrialSummary) Variance() float64 {
	return HistogramVariance(s.Distribution, s.Mean)
}

// SimulateTrials plays n games from a single generator seeded with seed (or
// from entropy when seed is nil). The games share one continuous stream, in
// order, so the same arguments always produce the same summary.
func SimulateTrials(lineup game.Lineup, n int, seed *uint32) (TrialSummary, error) {
	if n < 1 {
		return TrialSummary{}, fmt.Errorf("simulate %d trials: %w", n, ErrInvalidTrials)
	}

	src := rng.New(seed)
	scores := make([]int, n)
	for i := range scores {
		scores[i] = SimulateGame(lineup, src)
	}

	return summarize(scores), nil
}

func summarize(scores []int) TrialSummary {
	sorted := slices.Clone(scores)
	slices.Sort(sorted)

	return TrialSummary{
		Mean:         Mean(scores),
		Median:       Percentile(sorted, 50),
		P10:          Percentile(sorted, 10),
		P90:          Percentile(sorted, 90),
		Distribution: Histogram(scores),
	}
}
