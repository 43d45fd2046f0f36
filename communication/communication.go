// Package communication carries simulate and search calls between a caller
// and whatever executes them: in process or over HTTP.
package communication

import (
	"context"
	"errors"
	"fmt"

	"lineup/engine"
	"lineup/game"
	"lineup/player"
	"lineup/searcher"
)

var ErrNoLineup = errors.New("request needs either a lineup or 9 players")

// Batters is a batting order given either as event rates or as raw player
// stats. Exactly one of the two must be set, with nine entries.
type Batters struct {
	Lineup  []game.EventRates `json:"lineup,omitempty"`
	Players []player.Player   `json:"players,omitempty"`
}

func (b Batters) Resolve() (game.Lineup, error) {
	switch {
	case b.Lineup != nil && len(b.Players) > 0:
		return game.Lineup{}, fmt.Errorf("both lineup and players given: %w", ErrNoLineup)
	case b.Lineup != nil:
		return game.LineupFrom(b.Lineup)
	case len(b.Players) > 0:
		return player.Lineup(b.Players)
	default:
		return game.Lineup{}, ErrNoLineup
	}
}

type SimulateRequest struct {
	Batters
	Trials int     `json:"trials"`
	Seed   *uint32 `json:"seed,omitempty"`
}

type SearchRequest struct {
	Batters
	searcher.Request
}

type SimulateResponse struct {
	RunID   int64               `json:"run_id,omitempty"`
	Summary engine.TrialSummary `json:"summary"`
}

type SearchResponse struct {
	RunID   int64            `json:"run_id,omitempty"`
	Summary searcher.Summary `json:"summary"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Runner executes simulate and search calls. Implementations return ctx.Err()
// once ctx is done, even if the computation is still running.
type Runner interface {
	Simulate(ctx context.Context, req SimulateRequest) (engine.TrialSummary, error)
	Search(ctx context.Context, req SearchRequest) (searcher.Summary, error)
}

// IsInvalidRequest reports whether err was caused by the caller's input.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrNoLineup) ||
		errors.Is(err, engine.ErrInvalidTrials) ||
		errors.Is(err, searcher.ErrInvalidCandidates) ||
		errors.Is(err, searcher.ErrInvalidGames) ||
		errors.Is(err, player.ErrZeroPlateAppearances) ||
		errors.Is(err, player.ErrInvalidPlayer) ||
		errors.Is(err, player.ErrRosterSize)
}
