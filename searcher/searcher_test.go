package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lineup/experiments/metrics"
	"lineup/game"
	"lineup/rng"
)

var (
	star    = game.EventRates{Single: 0.2, Double: 0.08, Triple: 0.01, HomeRun: 0.07, WalkOrHBP: 0.13, Strikeout: 0.15, OtherOut: 0.36}
	average = game.EventRates{Single: 0.15, Double: 0.05, Triple: 0.005, HomeRun: 0.03, WalkOrHBP: 0.09, Strikeout: 0.2, OtherOut: 0.475}
	weak    = game.EventRates{Single: 0.12, Double: 0.03, Triple: 0, HomeRun: 0.005, WalkOrHBP: 0.05, Strikeout: 0.3, OtherOut: 0.495}

	roster = game.Lineup{star, average, weak, average, star, weak, average, weak, average}
)

func intPtr(v int) *int { return &v }

func TestSearchMatchesReference(t *testing.T) {
	summary, err := Search(roster, Request{
		Candidates:        20,
		GamesPerCandidate: 50,
		Seed:              rng.SeedValue(7),
		TopK:              intPtr(3),
	})
	require.NoError(t, err)
	require.Len(t, summary.ByMean, 3)
	require.Len(t, summary.ByVariance, 3)

	t.Run("ranked by mean", func(t *testing.T) {
		orders := [][game.LineupSize]int{
			{7, 1, 4, 2, 5, 3, 8, 0, 6},
			{5, 4, 7, 0, 6, 3, 1, 2, 8},
			{8, 1, 3, 4, 2, 0, 6, 5, 7},
		}
		means := []float64{5.18, 5.12, 5.12}
		variances := []float64{14.0276, 9.745600000000001, 12.4656}
		p90s := []float64{9.100000000000001, 9, 9.200000000000003}
		for i, c := range summary.ByMean {
			require.Equal(t, orders[i], c.Order)
			require.Equal(t, means[i], c.Mean)
			require.Equal(t, variances[i], c.Variance)
			require.Equal(t, 1.0, c.P10)
			require.Equal(t, p90s[i], c.P90)
		}
	})

	t.Run("ranked by variance", func(t *testing.T) {
		orders := [][game.LineupSize]int{
			{2, 0, 5, 1, 7, 4, 6, 8, 3},
			{2, 0, 1, 4, 7, 3, 8, 5, 6},
			{0, 2, 5, 1, 8, 3, 7, 6, 4},
		}
		variances := []float64{5.0164, 5.4336, 5.6004}
		means := []float64{4.06, 4.08, 4.14}
		p10s := []float64{1.9000000000000004, 1, 1}
		p90s := []float64{6, 7, 7}
		for i, c := range summary.ByVariance {
			require.Equal(t, orders[i], c.Order)
			require.Equal(t, variances[i], c.Variance)
			require.Equal(t, means[i], c.Mean)
			require.Equal(t, p10s[i], c.P10)
			require.Equal(t, p90s[i], c.P90)
		}
	})

	t.Run("lineup follows the order", func(t *testing.T) {
		for _, c := range append(summary.ByMean, summary.ByVariance...) {
			require.Equal(t, roster.Permute(c.Order), c.Lineup)
		}
	})
}

func TestSearchSmallReference(t *testing.T) {
	summary, err := Search(roster, Request{Candidates: 2, GamesPerCandidate: 10, Seed: rng.SeedValue(1)})
	require.NoError(t, err)
	require.Len(t, summary.ByMean, 2, "Fewer candidates than topK should not be padded")

	require.Equal(t, [game.LineupSize]int{7, 2, 6, 1, 4, 8, 3, 0, 5}, summary.ByMean[0].Order)
	require.Equal(t, 5.9, summary.ByMean[0].Mean)
	require.Equal(t, 18.69, summary.ByMean[0].Variance)
	require.Equal(t, 10.499999999999998, summary.ByMean[0].P90)

	require.Equal(t, [game.LineupSize]int{1, 4, 6, 5, 2, 0, 7, 3, 8}, summary.ByMean[1].Order)
	require.Equal(t, 5.3, summary.ByMean[1].Mean)
	require.Equal(t, 2.9, summary.ByMean[1].P10)
	require.Equal(t, 7.1, summary.ByMean[1].P90)
}

func TestSearchProperties(t *testing.T) {
	req := Request{Candidates: 40, GamesPerCandidate: 30, Seed: rng.SeedValue(2024), TopK: intPtr(10)}

	t.Run("identical across goroutine counts", func(t *testing.T) {
		single, _, err := New(WithGoroutines(1)).Search(roster, req)
		require.NoError(t, err)
		parallel, _, err := New(WithGoroutines(4)).Search(roster, req)
		require.NoError(t, err)
		require.Equal(t, single, parallel)
	})

	t.Run("rankings are sorted", func(t *testing.T) {
		summary, err := Search(roster, req)
		require.NoError(t, err)
		require.Len(t, summary.ByMean, 10)
		require.Len(t, summary.ByVariance, 10)
		for i := 1; i < len(summary.ByMean); i++ {
			require.GreaterOrEqual(t, summary.ByMean[i-1].Mean, summary.ByMean[i].Mean)
			require.LessOrEqual(t, summary.ByVariance[i-1].Variance, summary.ByVariance[i].Variance)
		}
	})

	t.Run("orders are permutations", func(t *testing.T) {
		summary, err := Search(roster, req)
		require.NoError(t, err)
		for _, c := range summary.ByMean {
			require.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, c.Order[:])
		}
	})

	t.Run("ties keep generation order", func(t *testing.T) {
		candidates := []Candidate{
			{Order: [game.LineupSize]int{0}, Mean: 3, Variance: 1},
			{Order: [game.LineupSize]int{1}, Mean: 4, Variance: 1},
			{Order: [game.LineupSize]int{2}, Mean: 3, Variance: 0.5},
			{Order: [game.LineupSize]int{3}, Mean: 4, Variance: 1},
		}
		got := rank(candidates, 4)
		require.Equal(t, []int{1, 3, 0, 2}, firstSlots(got.ByMean))
		require.Equal(t, []int{2, 0, 1, 3}, firstSlots(got.ByVariance))
	})
}

func firstSlots(cs []Candidate) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.Order[0]
	}
	return out
}

func TestSearchTopK(t *testing.T) {
	base := Request{Candidates: 8, GamesPerCandidate: 5, Seed: rng.SeedValue(3)}

	t.Run("defaults to five", func(t *testing.T) {
		summary, err := Search(roster, base)
		require.NoError(t, err)
		require.Len(t, summary.ByMean, 5)
		require.Len(t, summary.ByVariance, 5)
	})

	t.Run("non-positive values clamp to one", func(t *testing.T) {
		for _, k := range []int{0, -3} {
			req := base
			req.TopK = intPtr(k)
			summary, err := Search(roster, req)
			require.NoError(t, err)
			require.Len(t, summary.ByMean, 1)
			require.Len(t, summary.ByVariance, 1)
		}
	})

	t.Run("larger than candidates returns every candidate", func(t *testing.T) {
		req := base
		req.TopK = intPtr(100)
		summary, err := Search(roster, req)
		require.NoError(t, err)
		require.Len(t, summary.ByMean, 8)
	})
}

func TestSearchValidation(t *testing.T) {
	_, err := Search(roster, Request{Candidates: 0, GamesPerCandidate: 10})
	require.ErrorIs(t, err, ErrInvalidCandidates)

	_, err = Search(roster, Request{Candidates: 5, GamesPerCandidate: 0})
	require.ErrorIs(t, err, ErrInvalidGames)

	_, err = Search(roster, Request{Candidates: -1, GamesPerCandidate: -1})
	require.ErrorIs(t, err, ErrInvalidCandidates)
}

func TestSearchMetrics(t *testing.T) {
	collector := metrics.NewCollector()
	s := New(WithGoroutines(3), WithMetrics(collector))

	_, metric, err := s.Search(roster, Request{Candidates: 12, GamesPerCandidate: 7})
	require.NoError(t, err)
	require.Equal(t, 3, metric.Goroutines)
	require.Equal(t, 12, metric.Candidates)
	require.Equal(t, 7, metric.GamesPerCandidate)
	require.Equal(t, 12, metric.Evaluated)
	require.Equal(t, 84, metric.GamesSimulated)
}

func TestOptions(t *testing.T) {
	s := New(WithGoroutines(0), WithMetrics(nil))
	require.Greater(t, s.goroutines, 0, "Invalid goroutine counts should be ignored")
	require.NotNil(t, s.metrics)
}
