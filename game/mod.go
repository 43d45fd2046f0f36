package game

import (
	"errors"
	"fmt"
)

var ErrLineupSize = errors.New("a lineup needs exactly 9 batters")

// LineupSize is the number of slots in a batting order.
const LineupSize = 9

// Innings is the number of innings in a simulated game.
const Innings = 9

// OutsPerInning ends a half-inning.
const OutsPerInning = 3

// EventRates holds one batter's plate-appearance probabilities. The values
// should sum to 1.0; any residual mass is treated as OtherOut by SelectOutcome.
type EventRates struct {
	Single    float64 `json:"single" yaml:"single"`
	Double    float64 `json:"double" yaml:"double"`
	Triple    float64 `json:"triple" yaml:"triple"`
	HomeRun   float64 `json:"hr" yaml:"hr"`
	WalkOrHBP float64 `json:"bb_hbp" yaml:"bb_hbp"`
	Strikeout float64 `json:"k" yaml:"k"`
	OtherOut  float64 `json:"out" yaml:"out"`
}

// Sum returns the total probability mass.
func (r EventRates) Sum() float64 {
	return r.Single + r.Double + r.Triple + r.HomeRun + r.WalkOrHBP + r.Strikeout + r.OtherOut
}

// Lineup is a batting order, leadoff first.
type Lineup [LineupSize]EventRates

// LineupFrom copies rates into a Lineup, rejecting any other length than
// LineupSize with ErrLineupSize.
func LineupFrom(rates []EventRates) (Lineup, error) {
	var l Lineup
	if len(rates) != LineupSize {
		return l, fmt.Errorf("got %d batters: %w", len(rates), ErrLineupSize)
	}
	copy(l[:], rates)
	return l, nil
}

// Permute returns the lineup reordered so that slot i holds l[order[i]].
func (l Lineup) Permute(order [LineupSize]int) Lineup {
	var out Lineup
	for i, idx := range order {
		out[i] = l[idx]
	}
	return out
}

// Uniform returns a lineup with the same rates in every slot.
func Uniform(r EventRates) Lineup {
	var l Lineup
	for i := range l {
		l[i] = r
	}
	return l
}
