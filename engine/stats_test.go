package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	t.Run("single value", func(t *testing.T) {
		for _, p := range []float64{0, 10, 50, 90, 100} {
			require.Equal(t, 7.0, Percentile([]int{7}, p))
		}
	})

	t.Run("exact order statistic", func(t *testing.T) {
		sorted := []int{1, 2, 3, 4, 5}
		require.Equal(t, 3.0, Percentile(sorted, 50))
		require.Equal(t, 1.0, Percentile(sorted, 0))
		require.Equal(t, 5.0, Percentile(sorted, 100))
	})

	t.Run("interpolates between neighbours", func(t *testing.T) {
		sorted := []int{0, 10}
		require.InDelta(t, 1.0, Percentile(sorted, 10), 1e-12)
		require.InDelta(t, 5.0, Percentile(sorted, 50), 1e-12)
		require.InDelta(t, 9.0, Percentile(sorted, 90), 1e-12)
	})

	t.Run("works on floats", func(t *testing.T) {
		require.InDelta(t, 1.25, Percentile([]float64{1, 1.5}, 50), 1e-12)
	})

	t.Run("panics on empty input", func(t *testing.T) {
		require.Panics(t, func() { Percentile([]int{}, 50) })
	})
}

func TestHistogram(t *testing.T) {
	require.Nil(t, Histogram(nil))
	require.Equal(t, []int{1, 0, 2, 1}, Histogram([]int{3, 0, 2, 2}))
	require.Equal(t, []int{3}, Histogram([]int{0, 0, 0}))
}

func TestHistogramVariance(t *testing.T) {
	t.Run("constant sample has zero variance", func(t *testing.T) {
		require.Equal(t, 0.0, HistogramVariance([]int{0, 0, 5}, 2))
	})

	t.Run("empty histogram", func(t *testing.T) {
		require.Equal(t, 0.0, HistogramVariance(nil, 0))
	})

	t.Run("matches the direct computation", func(t *testing.T) {
		values := []int{1, 3, 3, 6, 8}
		mean := Mean(values)
		direct := 0.0
		for _, v := range values {
			d := float64(v) - mean
			direct += d * d
		}
		direct /= float64(len(values))
		require.InDelta(t, direct, HistogramVariance(Histogram(values), mean), 1e-12)
	})
}

func TestMean(t *testing.T) {
	require.Equal(t, 0.0, Mean([]int{}))
	require.Equal(t, 2.5, Mean([]int{1, 2, 3, 4}))
}
