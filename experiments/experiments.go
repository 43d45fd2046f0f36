package experiments

import (
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/rs/zerolog/log"

	"lineup/experiments/metrics"
	"lineup/game"
	"lineup/meta"
	"lineup/searcher"
)

const Seed = 20240601

type Config struct {
	ID                int
	Goroutines        int
	Candidates        int
	GamesPerCandidate int
	Seed              uint32
}

// Every config shares a seed, so every run must produce the same rankings.
var parallelConfigs = []Config{
	{ID: 1, Goroutines: 1, Candidates: meta.CANDIDATES, GamesPerCandidate: meta.GAMES_PER_CANDIDATE, Seed: Seed},
	{ID: 2, Goroutines: 2, Candidates: meta.CANDIDATES, GamesPerCandidate: meta.GAMES_PER_CANDIDATE, Seed: Seed},
	{ID: 3, Goroutines: 4, Candidates: meta.CANDIDATES, GamesPerCandidate: meta.GAMES_PER_CANDIDATE, Seed: Seed},
	{ID: 4, Goroutines: 8, Candidates: meta.CANDIDATES, GamesPerCandidate: meta.GAMES_PER_CANDIDATE, Seed: Seed},
	{ID: 5, Goroutines: 16, Candidates: meta.CANDIDATES, GamesPerCandidate: meta.GAMES_PER_CANDIDATE, Seed: Seed},
}

var sampleSizeConfigs = []Config{
	{ID: 1, Goroutines: meta.GO_ROUTINES, Candidates: meta.CANDIDATES, GamesPerCandidate: 50, Seed: Seed},
	{ID: 2, Goroutines: meta.GO_ROUTINES, Candidates: meta.CANDIDATES, GamesPerCandidate: 100, Seed: Seed},
	{ID: 3, Goroutines: meta.GO_ROUTINES, Candidates: meta.CANDIDATES, GamesPerCandidate: 200, Seed: Seed},
	{ID: 4, Goroutines: meta.GO_ROUTINES, Candidates: meta.CANDIDATES, GamesPerCandidate: 400, Seed: Seed},
}

func RunParallelization(roster game.Lineup, outDir string) ([]metrics.SearchRecord, error) {
	return runExperiment("parallelization", roster, parallelConfigs, outDir)
}

func RunSampleSize(roster game.Lineup, outDir string) ([]metrics.SearchRecord, error) {
	return runExperiment("sample_size", roster, sampleSizeConfigs, outDir)
}

func runExperiment(name string, roster game.Lineup, configs []Config, outDir string) ([]metrics.SearchRecord, error) {
	writer, err := metrics.NewWriter(filepath.Join(outDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create experiment writer: %w", err)
	}

	log.Info().Msgf("starting %s experiment...", name)
	records, err := Run(roster, configs, writer)
	if err != nil {
		return nil, fmt.Errorf("%s experiment: %w", name, err)
	}
	log.Info().Msgf("completed %s experiment, results in %s", name, writer.Dir())
	return records, nil
}

// Run searches roster once per config and writes a search record per config
// plus both rankings of every search.
func Run(roster game.Lineup, configs []Config, writer *metrics.Writer) ([]metrics.SearchRecord, error) {
	searchRecords := []metrics.SearchRecord{}
	candidateRecords := []metrics.CandidateRecord{}
	var previous searcher.Summary

	for i, config := range configs {
		log.Info().Msgf("starting search %d of %d with config=%+v...", i+1, len(configs), config)

		s := searcher.New(
			searcher.WithGoroutines(config.Goroutines),
			searcher.WithMetrics(metrics.NewCollector()),
		)
		seed := config.Seed
		summary, metric, err := s.Search(roster, searcher.Request{
			Candidates:        config.Candidates,
			GamesPerCandidate: config.GamesPerCandidate,
			Seed:              &seed,
		})
		if err != nil {
			return nil, fmt.Errorf("config %d: %w", config.ID, err)
		}

		if i > 0 && sameWork(configs[i-1], config) && !reflect.DeepEqual(previous, summary) {
			log.Warn().Msgf("config %d ranked differently from config %d under the same seed", config.ID, configs[i-1].ID)
		}
		previous = summary

		searchRecords = append(searchRecords, metrics.SearchRecord{
			ID:           config.ID,
			Seed:         config.Seed,
			SearchMetric: metric,
		})
		candidateRecords = append(candidateRecords, CandidateRecords(config.ID, summary)...)

		log.Info().Msgf("completed search %d of %d in %s", i+1, len(configs), metric.Duration)
	}

	if err := writer.WriteSearchRecords(searchRecords); err != nil {
		return nil, fmt.Errorf("failed to store search records: %w", err)
	}
	if err := writer.WriteCandidateRecords(candidateRecords); err != nil {
		return nil, fmt.Errorf("failed to store candidate records: %w", err)
	}
	return searchRecords, nil
}

// sameWork reports whether two configs must produce identical rankings.
func sameWork(a, b Config) bool {
	return a.Seed == b.Seed && a.Candidates == b.Candidates && a.GamesPerCandidate == b.GamesPerCandidate
}

// CandidateRecords flattens both rankings of a search into CSV rows.
func CandidateRecords(searchID int, summary searcher.Summary) []metrics.CandidateRecord {
	records := make([]metrics.CandidateRecord, 0, len(summary.ByMean)+len(summary.ByVariance))
	add := func(ranking string, candidates []searcher.Candidate) {
		for rank, c := range candidates {
			records = append(records, metrics.CandidateRecord{
				Search:   searchID,
				Ranking:  ranking,
				Rank:     rank + 1,
				Order:    c.Order[:],
				Mean:     c.Mean,
				Variance: c.Variance,
				P10:      c.P10,
				P90:      c.P90,
			})
		}
	}
	add("mean", summary.ByMean)
	add("variance", summary.ByVariance)
	return records
}
