package game

import "fmt"

// Bases records which bases hold a runner.
type Bases struct {
	First  bool `json:"first"`
	Second bool `json:"second"`
	Third  bool `json:"third"`
}

// Runners counts occupied bases.
func (b Bases) Runners() int {
	return runnersOn(b.First, b.Second, b.Third)
}

// Transition is the state after one plate appearance.
type Transition struct {
	Bases Bases
	Outs  int
	Runs  int
}

// ApplyEvent resolves one outcome against the current bases and out count.
//
// Advancement rules:
//   - Out: no runner moves, outs increase by one.
//   - WalkOrHBP: batter to first, runners move only when forced.
//   - Single: runners on second and third score, first to second, batter to first.
//   - Double: runners on second and third score, first to third, batter to second.
//   - Triple: every runner scores, batter to third.
//   - HomeRun: every runner and the batter score.
//
// Outs are never capped here; ending the inning is the caller's job.
func ApplyEvent(o Outcome, b Bases, outs int) Transition {
	switch o {
	case Out:
		return Transition{Bases: b, Outs: outs + 1}

	case WalkOrHBP:
		return walk(b, outs)

	case Single:
		return Transition{
			Bases: Bases{First: true, Second: b.First},
			Outs:  outs,
			Runs:  runnersOn(b.Second, b.Third),
		}

	case Double:
		return Transition{
			Bases: Bases{Second: true, Third: b.First},
			Outs:  outs,
			Runs:  runnersOn(b.Second, b.Third),
		}

	case Triple:
		return Transition{
			Bases: Bases{Third: true},
			Outs:  outs,
			Runs:  b.Runners(),
		}

	case HomeRun:
		return Transition{
			Outs: outs,
			Runs: 1 + b.Runners(),
		}

	default:
		panic(fmt.Sprintf("unexpected outcome %d", o))
	}
}

// walk pushes runners along only as far as the batter forces them.
func walk(b Bases, outs int) Transition {
	next := Bases{First: true, Second: b.Second, Third: b.Third}
	runs := 0

	if b.First {
		if b.Second {
			if b.Third {
				runs++ // forced home
			}
			next.Third = true
		} else {
			next.Second = true
		}
	}

	return Transition{Bases: next, Outs: outs, Runs: runs}
}

func runnersOn(bases ...bool) int {
	n := 0
	for _, occupied := range bases {
		if occupied {
			n++
		}
	}
	return n
}
