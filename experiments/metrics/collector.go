package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines        int
	Candidates        int
	GamesPerCandidate int
	Duration          time.Duration
	Evaluated         int
	GamesSimulated    int
}

type Collector interface {
	Start(goroutines, candidates, gamesPerCandidate int)
	AddCandidate(games int)
	Complete() SearchMetric
}

type collector struct {
	goroutines        int
	candidates        int
	gamesPerCandidate int
	startTime         time.Time
	evaluated         atomic.Int64
	games             atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, candidates, gamesPerCandidate int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.candidates = candidates
	m.gamesPerCandidate = gamesPerCandidate
	m.evaluated.Store(0)
	m.games.Store(0)
}

// AddCandidate is safe to call from evaluation workers.
func (m *collector) AddCandidate(games int) {
	m.evaluated.Add(1)
	m.games.Add(int64(games))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:        m.goroutines,
		Candidates:        m.candidates,
		GamesPerCandidate: m.gamesPerCandidate,
		Duration:          time.Since(m.startTime),
		Evaluated:         int(m.evaluated.Load()),
		GamesSimulated:    int(m.games.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, candidates, gamesPerCandidate int) {}
func (m *dummyCollector) AddCandidate(games int)                              {}
func (m *dummyCollector) Complete() SearchMetric                              { return SearchMetric{} }
