package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fgantt/shogi-ui-sub004/bitboard"
	"github.com/fgantt/shogi-ui-sub004/config"
	"github.com/fgantt/shogi-ui-sub004/search"
	"github.com/fgantt/shogi-ui-sub004/usi"
)

var (
	GitVersion string
)

func main() {

	cfg := &config.Config{}
	args := os.Args[1:]
	if err := cfg.Load(args); err != nil {
		panic(err)
	}
	if GitVersion != "" {
		usi.Version = GitVersion
	}

	// The protocol owns stdout; logs keep to stderr.
	var logger zerolog.Logger
	ll := cfg.GetString("log-level")
	if cfg.GetBool("debug") {
		ll = "debug"
	}
	switch ll {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(os.Stderr).Level(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.Disabled)
		logger = zerolog.New(os.Stderr).Level(zerolog.Disabled)
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")

	if k := cfg.GetString("scan-kernel"); k != "" {
		if err := bitboard.SetKernel(k); err != nil {
			panic(err)
		}
	}
	settings, err := cfg.SearchSettings()
	if err != nil {
		panic(err)
	}
	solver := search.NewSolver()
	if err := solver.Configure(settings); err != nil {
		panic(err)
	}

	if err := usi.NewEngine(solver).Run(os.Stdin, os.Stdout); err != nil {
		log.Err(err).Msg("protocol loop failed")
		os.Exit(1)
	}
	logger.Info().Msg("bye")
}
