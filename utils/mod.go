package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Identity fills s with 0, 1, ..., len(s)-1.
func Identity(s []int) {
	for i := range s {
		s[i] = i
	}
}

// Shuffle is an in-place Fisher-Yates shuffle. At step i from the end it swaps
// with index floor(next()*(i+1)), so it consumes exactly len(s)-1 draws.
func Shuffle[T any](s []T, next func() float64) {
	for i := len(s) - 1; i > 0; i-- {
		j := int(next() * float64(i+1))
		s[i], s[j] = s[j], s[i]
	}
}
