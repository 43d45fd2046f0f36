// Package player turns raw batting statistics into per-plate-appearance event
// rates and loads them from CSV, spreadsheet and roster files.
package player

import (
	"errors"
	"fmt"

	"lineup/game"
	"lineup/utils"
)

var (
	ErrZeroPlateAppearances = errors.New("plate appearances must be at least 1")
	ErrInvalidPlayer        = errors.New("invalid player")
	ErrRosterSize           = game.ErrLineupSize
	ErrUnknownPlayer        = errors.New("unknown player id")
)

// Positions are the accepted fielding position labels.
var Positions = []string{"投", "捕", "一", "二", "三", "遊", "左", "中", "右", "指"}

func ValidPosition(position string) bool {
	return utils.FindIndex(Positions, position) >= 0
}

// Player holds one batter's season counting stats.
type Player struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Team     string `json:"team" yaml:"team"`
	Position string `json:"position" yaml:"position"`
	PA       int    `json:"pa" yaml:"pa"`
	Single   int    `json:"single" yaml:"single"`
	Double   int    `json:"double" yaml:"double"`
	Triple   int    `json:"triple" yaml:"triple"`
	HR       int    `json:"hr" yaml:"hr"`
	BB       int    `json:"bb" yaml:"bb"`
	HBP      int    `json:"hbp" yaml:"hbp"`
	SO       int    `json:"so" yaml:"so"`
}

// Events is the number of plate appearances that ended in a counted event.
func (p Player) Events() int {
	return p.Single + p.Double + p.Triple + p.HR + p.BB + p.HBP + p.SO
}

// Validate applies the stats sheet row rules to p: positive plate
// appearances, no negative counts, no more events than plate appearances, a
// known position and a name and team.
func (p Player) Validate() error {
	if p.PA <= 0 {
		return fmt.Errorf("%w, got %d", ErrZeroPlateAppearances, p.PA)
	}
	counts := []struct {
		name  string
		value int
	}{
		{"single", p.Single},
		{"double", p.Double},
		{"triple", p.Triple},
		{"hr", p.HR},
		{"bb", p.BB},
		{"hbp", p.HBP},
		{"so", p.SO},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("%w: negative %s count %d", ErrInvalidPlayer, c.name, c.value)
		}
	}
	if events := p.Events(); events > p.PA {
		return fmt.Errorf("%w: event total %d exceeds plate appearances %d", ErrInvalidPlayer, events, p.PA)
	}
	if !ValidPosition(p.Position) {
		return fmt.Errorf("%w: invalid position %q", ErrInvalidPlayer, p.Position)
	}
	if p.Name == "" || p.Team == "" {
		return fmt.Errorf("%w: name and team must not be empty", ErrInvalidPlayer)
	}
	return nil
}

// Rates divides each event count by plate appearances. Walks and hit-by-pitch
// share one rate and OtherOut takes the remainder.
func (p Player) Rates() (game.EventRates, error) {
	if p.PA <= 0 {
		return game.EventRates{}, fmt.Errorf("player %d: %w", p.ID, ErrZeroPlateAppearances)
	}

	pa := float64(p.PA)
	r := game.EventRates{
		Single:    float64(p.Single) / pa,
		Double:    float64(p.Double) / pa,
		Triple:    float64(p.Triple) / pa,
		HomeRun:   float64(p.HR) / pa,
		WalkOrHBP: float64(p.BB+p.HBP) / pa,
		Strikeout: float64(p.SO) / pa,
	}
	r.OtherOut = 1 - (r.Single + r.Double + r.Triple + r.HomeRun + r.WalkOrHBP + r.Strikeout)
	return r, nil
}

// Lineup validates nine players, leadoff first, and converts them into a
// batting order. The same player may fill more than one slot.
func Lineup(players []Player) (game.Lineup, error) {
	if len(players) != game.LineupSize {
		return game.Lineup{}, fmt.Errorf("got %d players: %w", len(players), ErrRosterSize)
	}

	rates := make([]game.EventRates, 0, len(players))
	for i, p := range players {
		if err := p.Validate(); err != nil {
			return game.Lineup{}, fmt.Errorf("slot %d: player %d: %w", i+1, p.ID, err)
		}
		r, err := p.Rates()
		if err != nil {
			return game.Lineup{}, fmt.Errorf("slot %d: %w", i+1, err)
		}
		rates = append(rates, r)
	}
	return game.LineupFrom(rates)
}

// Select picks players by id in the given order. Ids may repeat.
func Select(players []Player, ids []int) ([]Player, error) {
	byID := make(map[int]Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	selected := make([]Player, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
		}
		selected = append(selected, p)
	}
	return selected, nil
}
