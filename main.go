package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lineup/config"
)

const usage = `usage: lineup <command> [flags]

commands:
  simulate    simulate games for a fixed batting order
  search      search shuffled batting orders for the best lineups
  serve       serve simulate and search over HTTP
  experiment  run a search sweep and write CSV results
  runs        list recorded runs`

func main() {
	if len(os.Args) < 2 {
		config.Exitf(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		config.Exitf("%v", err)
	}
	if err := setupLogging(cfg); err != nil {
		config.Exitf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[2:]
	switch os.Args[1] {
	case "simulate":
		err = runSimulate(ctx, cfg, args)
	case "search":
		err = runSearch(ctx, cfg, args)
	case "serve":
		err = runServe(ctx, cfg, args)
	case "experiment":
		err = runExperiment(ctx, cfg, args)
	case "runs":
		err = runRuns(ctx, cfg, args)
	default:
		config.Exitf("unknown command %q\n%s", os.Args[1], usage)
	}
	if err != nil {
		config.Exitf("%s: %v", os.Args[1], err)
	}
}

func setupLogging(cfg config.Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
