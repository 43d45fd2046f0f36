package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"lineup/communication"
	"lineup/communication/client"
	"lineup/communication/server"
	"lineup/config"
	"lineup/experiments"
	"lineup/experiments/metrics"
	"lineup/game"
	"lineup/player"
	"lineup/searcher"
	"lineup/store"
	"lineup/telemetry"
)

// source holds the flags shared by commands that need a batting order.
type source struct {
	roster    string
	sheet     string
	lineup    string
	synthetic int64
}

func (s *source) register(fs *flag.FlagSet) {
	fs.StringVar(&s.roster, "roster", "", "Roster file (.csv, .yaml, .yml or .json)")
	fs.StringVar(&s.sheet, "sheet", "", "Public Google Sheets URL with player stats")
	fs.StringVar(&s.lineup, "lineup", "", "Comma-separated player ids in batting order")
	fs.Int64Var(&s.synthetic, "synthetic", -1, "Generate a synthetic roster from this seed")
}

func (s *source) players(ctx context.Context, cfg config.Config) ([]player.Player, error) {
	var roster player.RosterFile
	switch {
	case s.roster != "":
		var err error
		roster, err = player.LoadRosterFile(s.roster)
		if err != nil {
			return nil, err
		}
	case s.sheet != "":
		fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
		players, warnings, err := player.LoadSpreadsheet(fetchCtx, nil, s.sheet)
		if err != nil {
			return nil, err
		}
		for _, w := range warnings {
			log.Warn().Msg(w)
		}
		roster.Players = players
	case s.synthetic >= 0:
		roster.Players = player.SyntheticRoster(game.LineupSize, uint32(s.synthetic))
	default:
		return nil, errors.New("one of -roster, -sheet or -synthetic is required")
	}

	if s.lineup != "" {
		ids, err := parseIDs(s.lineup)
		if err != nil {
			return nil, err
		}
		roster.Lineup = ids
	}
	return roster.BattingOrder()
}

func parseIDs(list string) ([]int, error) {
	var ids []int
	for _, field := range strings.Split(list, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("invalid player id %q", field)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// runner picks the HTTP client when a server URL is given, after checking
// the server answers its health check.
func runner(ctx context.Context, serverURL string, goroutines int) (communication.Runner, error) {
	if serverURL != "" {
		c := client.New(serverURL, nil)
		if err := c.Healthy(ctx); err != nil {
			return nil, fmt.Errorf("server %s is unavailable: %w", serverURL, err)
		}
		return c, nil
	}
	return communication.NewLocal(searcher.New(searcher.WithGoroutines(goroutines))), nil
}

func seedFlag(fs *flag.FlagSet) *int64 {
	return fs.Int64("seed", -1, "Generator seed; negative draws one from entropy")
}

func seedValue(seed int64) (*uint32, error) {
	if seed < 0 {
		return nil, nil
	}
	if seed > math.MaxUint32 {
		return nil, fmt.Errorf("seed %d is out of range [0, %d]", seed, uint32(math.MaxUint32))
	}
	v := uint32(seed)
	return &v, nil
}

// writePlayers stores the players behind a run next to its reports.
func writePlayers(dir string, players []player.Player) error {
	f, err := os.Create(filepath.Join(dir, "players.csv"))
	if err != nil {
		return fmt.Errorf("failed to create players.csv: %w", err)
	}
	defer f.Close()
	return player.WriteCSV(f, players)
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		return nil, nil
	}
	return store.Open(path)
}

func saveRun(ctx context.Context, dbPath string, kind store.Kind, seed *uint32, req, result any) error {
	s, err := openStore(dbPath)
	if err != nil || s == nil {
		return err
	}
	defer s.Close()

	run, err := store.NewRun(kind, seed, req, result)
	if err != nil {
		return err
	}
	id, err := s.SaveRun(ctx, run)
	if err != nil {
		return err
	}
	log.Info().Msgf("Recorded %s run %d", kind, id)
	return nil
}

func runSimulate(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	var src source
	src.register(fs)
	trials := fs.Int("n", cfg.Trials, "Number of games to simulate")
	seed := seedFlag(fs)
	serverURL := fs.String("server", "", "Run on a lineup server instead of locally")
	dbPath := fs.String("db", cfg.DBPath, "SQLite file to record the run in")
	outDir := fs.String("out", "", "Directory to write the run distribution CSV to")
	fs.Parse(args)

	seedV, err := seedValue(*seed)
	if err != nil {
		return err
	}
	players, err := src.players(ctx, cfg)
	if err != nil {
		return err
	}
	req := communication.SimulateRequest{
		Batters: communication.Batters{Players: players},
		Trials:  *trials,
		Seed:    seedV,
	}

	r, err := runner(ctx, *serverURL, cfg.Goroutines)
	if err != nil {
		return err
	}
	summary, err := r.Simulate(ctx, req)
	if err != nil {
		return err
	}
	if err := saveRun(ctx, *dbPath, store.KindSimulate, req.Seed, req, summary); err != nil {
		return err
	}
	if *outDir != "" {
		writer, err := metrics.NewWriter(*outDir)
		if err != nil {
			return err
		}
		if err := writer.WriteDistribution(summary.Distribution); err != nil {
			return err
		}
		if err := writePlayers(writer.Dir(), players); err != nil {
			return err
		}
		log.Info().Msgf("Wrote distribution to %s", writer.Dir())
	}
	return printJSON(summary)
}

func runSearch(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	var src source
	src.register(fs)
	candidates := fs.Int("candidates", cfg.Candidates, "Number of shuffled orders to evaluate")
	games := fs.Int("games", cfg.GamesPerCandidate, "Games simulated per candidate")
	topK := fs.Int("topk", cfg.TopK, "Length of each ranking")
	goroutines := fs.Int("goroutines", cfg.Goroutines, "Goroutines evaluating candidates")
	seed := seedFlag(fs)
	serverURL := fs.String("server", "", "Run on a lineup server instead of locally")
	dbPath := fs.String("db", cfg.DBPath, "SQLite file to record the run in")
	outDir := fs.String("out", "", "Directory to write candidate CSV files to")
	fs.Parse(args)

	seedV, err := seedValue(*seed)
	if err != nil {
		return err
	}
	players, err := src.players(ctx, cfg)
	if err != nil {
		return err
	}
	req := communication.SearchRequest{
		Batters: communication.Batters{Players: players},
		Request: searcher.Request{
			Candidates:        *candidates,
			GamesPerCandidate: *games,
			Seed:              seedV,
			TopK:              topK,
		},
	}

	r, err := runner(ctx, *serverURL, *goroutines)
	if err != nil {
		return err
	}
	summary, err := r.Search(ctx, req)
	if err != nil {
		return err
	}
	if err := saveRun(ctx, *dbPath, store.KindSearch, req.Seed, req, summary); err != nil {
		return err
	}
	if *outDir != "" {
		writer, err := metrics.NewWriter(*outDir)
		if err != nil {
			return err
		}
		if err := writer.WriteCandidateRecords(experiments.CandidateRecords(1, summary)); err != nil {
			return err
		}
		if err := writePlayers(writer.Dir(), players); err != nil {
			return err
		}
		log.Info().Msgf("Wrote candidates to %s", writer.Dir())
	}
	return printJSON(summary)
}

func runServe(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Addr, "Listen address")
	dbPath := fs.String("db", cfg.DBPath, "SQLite file for run history; empty disables it")
	goroutines := fs.Int("goroutines", cfg.Goroutines, "Goroutines evaluating candidates per search")
	fs.Parse(args)

	s, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	var recorder server.Recorder
	if s != nil {
		defer s.Close()
		recorder = s
	}

	shutdown, err := telemetry.Setup(ctx, cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}()

	local := communication.NewLocal(searcher.New(searcher.WithGoroutines(*goroutines)))
	return server.New(local, recorder).ListenAndServe(ctx, *addr)
}

func runExperiment(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("experiment", flag.ExitOnError)
	var src source
	src.register(fs)
	kind := fs.String("kind", "parallelization", "Sweep to run: parallelization or sample_size")
	outDir := fs.String("out", cfg.OutputDir, "Directory to write results to")
	fs.Parse(args)

	players, err := src.players(ctx, cfg)
	if err != nil {
		return err
	}
	roster, err := player.Lineup(players)
	if err != nil {
		return err
	}

	switch *kind {
	case "parallelization":
		_, err = experiments.RunParallelization(roster, *outDir)
	case "sample_size":
		_, err = experiments.RunSampleSize(roster, *outDir)
	default:
		err = fmt.Errorf("unknown experiment %q", *kind)
	}
	return err
}

func runRuns(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Number of runs to list")
	id := fs.Int64("id", 0, "Show a single run")
	serverURL := fs.String("server", "", "Read history from a lineup server")
	dbPath := fs.String("db", cfg.DBPath, "SQLite file with run history")
	fs.Parse(args)

	if *serverURL != "" {
		c := client.New(*serverURL, nil)
		if *id > 0 {
			run, err := c.Run(ctx, *id)
			if err != nil {
				return err
			}
			return printJSON(run)
		}
		runs, err := c.Runs(ctx, *limit)
		if err != nil {
			return err
		}
		return printJSON(runs)
	}

	s, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	if s == nil {
		return errors.New("-db or -server is required")
	}
	defer s.Close()

	if *id > 0 {
		run, err := s.GetRun(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(run)
	}
	runs, err := s.ListRuns(ctx, *limit)
	if err != nil {
		return err
	}
	return printJSON(runs)
}
