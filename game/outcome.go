package game

// Outcome is the base-running result of one plate appearance.
type Outcome int

const (
	Single Outcome = iota
	Double
	Triple
	HomeRun
	WalkOrHBP
	Out
)

var outcomeNames = [...]string{
	Single:    "single",
	Double:    "double",
	Triple:    "triple",
	HomeRun:   "home_run",
	WalkOrHBP: "walk_or_hbp",
	Out:       "out",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// SelectOutcome maps one draw r in [0, 1) to an outcome for a batter with the
// given rates. The unit interval is split in the fixed order single, double,
// triple, home run, walk/HBP, strikeout, other out, and the first interval with
// r < cumulative wins. Strikeouts and other outs both resolve to Out, and any
// mass left over from floating drift falls through to Out as well.
func SelectOutcome(rates EventRates, r float64) Outcome {
	cumulative := 0.0

	cumulative += rates.Single
	if r < cumulative {
		return Single
	}
	cumulative += rates.Double
	if r < cumulative {
		return Double
	}
	cumulative += rates.Triple
	if r < cumulative {
		return Triple
	}
	cumulative += rates.HomeRun
	if r < cumulative {
		return HomeRun
	}
	cumulative += rates.WalkOrHBP
	if r < cumulative {
		return WalkOrHBP
	}

	// Strikeout and other out share base-running semantics.
	return Out
}
