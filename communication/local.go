package communication

import (
	"context"

	"lineup/engine"
	"lineup/searcher"
)

// Local runs each call on its own goroutine. A cancelled call returns at once;
// the abandoned goroutine finishes in the background and its result is dropped.
type Local struct {
	searcher *searcher.Searcher
}

func NewLocal(s *searcher.Searcher) *Local {
	if s == nil {
		s = searcher.New()
	}
	return &Local{searcher: s}
}

type result[T any] struct {
	value T
	err   error
}

func run[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	done := make(chan result[T], 1)
	go func() {
		v, err := fn()
		done <- result[T]{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-done:
		return r.value, r.err
	}
}

func (l *Local) Simulate(ctx context.Context, req SimulateRequest) (engine.TrialSummary, error) {
	lineup, err := req.Resolve()
	if err != nil {
		return engine.TrialSummary{}, err
	}
	return run(ctx, func() (engine.TrialSummary, error) {
		return engine.SimulateTrials(lineup, req.Trials, req.Seed)
	})
}

func (l *Local) Search(ctx context.Context, req SearchRequest) (searcher.Summary, error) {
	roster, err := req.Resolve()
	if err != nil {
		return searcher.Summary{}, err
	}
	return run(ctx, func() (searcher.Summary, error) {
		summary, _, err := l.searcher.Search(roster, req.Request)
		return summary, err
	})
}
