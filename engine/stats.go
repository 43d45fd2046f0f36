package engine

import (
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

// Percentile interpolates linearly between the order statistics of sorted at
// index (p/100)*(n-1). sorted must be ascending and non-empty.
func Percentile[T number](sorted []T, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		panic("percentile of an empty sample")
	}
	if n == 1 {
		return float64(sorted[0])
	}

	index := (p / 100) * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return float64(sorted[lower])
	}

	fraction := index - float64(lower)
	// explicit conversion keeps the product from being fused into an FMA
	return float64(sorted[lower]) + float64(fraction*(float64(sorted[upper])-float64(sorted[lower])))
}

// Mean is the arithmetic mean of xs; zero for an empty slice.
func Mean[T number](xs []T) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	return sum / float64(len(xs))
}

// Histogram counts occurrences of each non-negative value. The result has
// max(values)+1 entries.
func Histogram(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	counts := make([]int, slices.Max(values)+1)
	for _, v := range values {
		counts[v]++
	}
	return counts
}

// HistogramVariance is the population variance of the sample described by
// counts, where counts[v] is the number of observations equal to v.
func HistogramVariance(counts []int, mean float64) float64 {
	total := 0
	var acc float64
	for v, c := range counts {
		if c == 0 {
			continue
		}
		total += c
		d := float64(v) - mean
		acc += float64(float64(c) * float64(d*d))
	}
	if total == 0 {
		return 0
	}
	return acc / float64(total)
}
