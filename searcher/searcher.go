// Package searcher looks for strong batting orders by sampling random
// permutations of a roster and scoring each with a Monte Carlo trial run.
package searcher

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"lineup/engine"
	"lineup/experiments/metrics"
	"lineup/game"
	"lineup/meta"
	"lineup/rng"
	"lineup/utils"
)

var (
	ErrInvalidCandidates = errors.New("candidate count must be at least 1")
	ErrInvalidGames      = errors.New("games per candidate must be at least 1")
)

type Request struct {
	Candidates        int     `json:"candidates"`
	GamesPerCandidate int     `json:"games_per_candidate"`
	Seed              *uint32 `json:"seed,omitempty"`
	// TopK defaults to meta.TOP_K when nil; values below 1 are clamped to 1.
	TopK *int `json:"top_k,omitempty"`
}

func (r Request) topK() int {
	if r.TopK == nil {
		return meta.TOP_K
	}
	return max(*r.TopK, 1)
}

func (r Request) validate() error {
	if r.Candidates < 1 {
		return fmt.Errorf("search with %d candidates: %w", r.Candidates, ErrInvalidCandidates)
	}
	if r.GamesPerCandidate < 1 {
		return fmt.Errorf("search with %d games per candidate: %w", r.GamesPerCandidate, ErrInvalidGames)
	}
	return nil
}

// Candidate is one evaluated batting order. Order[i] is the roster index
// batting in slot i.
type Candidate struct {
	Order    [game.LineupSize]int `json:"order"`
	Lineup   game.Lineup          `json:"lineup"`
	Mean     float64              `json:"mean"`
	Variance float64              `json:"variance"`
	P10      float64              `json:"p10"`
	P90      float64              `json:"p90"`
}

type Summary struct {
	ByMean     []Candidate `json:"by_mean"`
	ByVariance []Candidate `json:"by_variance"`
}

type Option func(s *Searcher)

type Searcher struct {
	goroutines int
	metrics    metrics.Collector
}

func WithGoroutines(goroutines int) Option {
	return func(s *Searcher) {
		if goroutines > 0 {
			s.goroutines = goroutines
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *Searcher) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

func New(options ...Option) *Searcher {
	s := &Searcher{ // Default values
		goroutines: meta.GO_ROUTINES,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Search evaluates req.Candidates shuffled orders of roster with default options.
func Search(roster game.Lineup, req Request) (Summary, error) {
	summary, _, err := New().Search(roster, req)
	return summary, err
}

// plan is everything a candidate draws from the shared generator.
type plan struct {
	order [game.LineupSize]int
	seed  uint32
}

// Search samples req.Candidates batting orders and ranks them twice: by mean
// runs descending and by variance ascending. Ties keep generation order. The
// result depends only on roster and req, never on the number of goroutines.
func (s *Searcher) Search(roster game.Lineup, req Request) (Summary, metrics.SearchMetric, error) {
	if err := req.validate(); err != nil {
		return Summary{}, metrics.SearchMetric{}, err
	}

	log.Debug().Msgf("Searching %d candidates with %d games each on %d goroutines", req.Candidates, req.GamesPerCandidate, s.goroutines)
	s.metrics.Start(s.goroutines, req.Candidates, req.GamesPerCandidate)

	plans := drawPlans(req.Candidates, req.Seed)
	candidates := s.evaluate(roster, plans, req.GamesPerCandidate)

	metric := s.metrics.Complete()
	log.Debug().Msgf("Search finished in %s", metric.Duration)

	return rank(candidates, req.topK()), metric, nil
}

// drawPlans consumes the shared stream in order: a shuffle, then one draw for
// the candidate's simulation seed, per candidate.
func drawPlans(n int, seed *uint32) []plan {
	src := rng.New(seed)
	plans := make([]plan, n)
	for c := range plans {
		utils.Identity(plans[c].order[:])
		utils.Shuffle(plans[c].order[:], src.Float64)
		plans[c].seed = rng.DeriveSeed(src.Float64())
	}
	return plans
}

func (s *Searcher) evaluate(roster game.Lineup, plans []plan, games int) []Candidate {
	candidates := make([]Candidate, len(plans))

	task := make(chan int, len(plans))
	for i := range plans {
		task <- i
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < min(s.goroutines, len(plans)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for c := range task {
				candidates[c] = evaluateOne(roster, plans[c], games)
				s.metrics.AddCandidate(games)
			}
		}()
	}

	wg.Wait()
	return candidates
}

func evaluateOne(roster game.Lineup, p plan, games int) Candidate {
	lineup := roster.Permute(p.order)
	seed := p.seed
	summary, err := engine.SimulateTrials(lineup, games, &seed)
	if err != nil {
		// games was validated before any work started
		panic(err)
	}

	return Candidate{
		Order:    p.order,
		Lineup:   lineup,
		Mean:     summary.Mean,
		Variance: summary.Variance(),
		P10:      summary.P10,
		P90:      summary.P90,
	}
}

func rank(candidates []Candidate, topK int) Summary {
	byMean := slices.Clone(candidates)
	slices.SortStableFunc(byMean, func(a, b Candidate) int {
		return cmp.Compare(b.Mean, a.Mean)
	})

	byVariance := slices.Clone(candidates)
	slices.SortStableFunc(byVariance, func(a, b Candidate) int {
		return cmp.Compare(a.Variance, b.Variance)
	})

	k := min(topK, len(candidates))
	return Summary{
		ByMean:     byMean[:k],
		ByVariance: byVariance[:k],
	}
}
