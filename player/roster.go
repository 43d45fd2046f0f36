package player

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"lineup/rng"
)

// RosterFile is the YAML and JSON roster layout. Lineup optionally lists the
// batting order as player ids.
type RosterFile struct {
	Players []Player `json:"players" yaml:"players"`
	Lineup  []int    `json:"lineup,omitempty" yaml:"lineup,omitempty"`
}

// LoadRosterFile reads players from a .csv, .yaml/.yml or .json file. CSV row
// warnings are logged and the row skipped; an invalid YAML or JSON player
// fails the whole load.
func LoadRosterFile(path string) (RosterFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return RosterFile{}, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()

	var roster RosterFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		players, warnings, err := ParseCSV(f)
		if err != nil {
			return RosterFile{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		for _, w := range warnings {
			log.Warn().Msgf("%s: %s", path, w)
		}
		roster.Players = players
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(&roster); err != nil {
			return RosterFile{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json":
		if err := json.NewDecoder(f).Decode(&roster); err != nil {
			return RosterFile{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return RosterFile{}, fmt.Errorf("unsupported roster format %q", ext)
	}

	for i, p := range roster.Players {
		if err := p.Validate(); err != nil {
			return RosterFile{}, fmt.Errorf("%s: player %d (entry %d): %w", path, p.ID, i+1, err)
		}
	}
	return roster, nil
}

// BattingOrder resolves the file's lineup ids, or takes the players in file
// order when no lineup is given.
func (r RosterFile) BattingOrder() ([]Player, error) {
	if len(r.Lineup) == 0 {
		return r.Players, nil
	}
	return Select(r.Players, r.Lineup)
}

// SyntheticRoster generates n plausible players from seed, for demos and
// benchmarks when no stats file is at hand.
func SyntheticRoster(n int, seed uint32) []Player {
	r := rng.NewRand(rng.NewSeeded(seed))

	players := make([]Player, n)
	for i := range players {
		pa := 400 + r.Intn(200)
		players[i] = Player{
			ID:       i + 1,
			Name:     fmt.Sprintf("Player %d", i+1),
			Team:     "Synthetic",
			Position: Positions[i%len(Positions)],
			PA:       pa,
			Single:   pa/8 + r.Intn(pa/10),
			Double:   r.Intn(pa / 12),
			Triple:   r.Intn(pa/80 + 1),
			HR:       r.Intn(pa / 15),
			BB:       r.Intn(pa / 10),
			HBP:      r.Intn(pa/50 + 1),
			SO:       pa/10 + r.Intn(pa/6),
		}
	}
	return players
}
