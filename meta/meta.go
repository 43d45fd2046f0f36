// meta/meta.go
package meta

// GO_ROUTINES defines the number of goroutines evaluating search candidates.
const GO_ROUTINES = 8

// TRIALS defines the number of games in a simulate run.
const TRIALS = 10_000

// CANDIDATES defines the number of shuffled batting orders a search evaluates.
const CANDIDATES = 200

// GAMES_PER_CANDIDATE defines the number of games simulated per candidate.
const GAMES_PER_CANDIDATE = 200

// TOP_K defines the length of each ranked search result.
const TOP_K = 5
