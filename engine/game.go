// Package engine plays simulated games for a fixed batting order and
// aggregates many of them into summary statistics.
package engine

import (
	"lineup/game"
	"lineup/rng"
)

// MaxPlateAppearancesPerInning forcibly ends a half-inning. It only matters for
// lineups that can never make an out; an all-home-run lineup scores
// Innings * MaxPlateAppearancesPerInning runs.
const MaxPlateAppearancesPerInning = 100

// SimulateGame plays nine innings with the given batting order and returns the
// total runs. Every plate appearance consumes exactly one draw from src, and the
// batter counter carries over between innings.
func SimulateGame(lineup game.Lineup, src rng.Source) int {
	totalRuns := 0
	batter := 0

	for inning := 0; inning < game.Innings; inning++ {
		outs := 0
		bases := game.Bases{}
		plateAppearances := 0

		for outs < game.OutsPerInning && plateAppearances < MaxPlateAppearancesPerInning {
			rates := lineup[batter%game.LineupSize]
			outcome := game.SelectOutcome(rates, src.Float64())
			t := game.ApplyEvent(outcome, bases, outs)

			bases = t.Bases
			outs = t.Outs
			totalRuns += t.Runs

			batter++
			plateAppearances++
		}
	}

	return totalRuns
}
