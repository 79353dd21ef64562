package main

import (
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fgantt/shogi-ui-sub004/config"
	"github.com/fgantt/shogi-ui-sub004/shell"
	"github.com/fgantt/shogi-ui-sub004/usi"
)

var (
	GitVersion string
)

//go:embed karasu.txt
var karasubanner string

func main() {

	fmt.Println(karasubanner)
	fmt.Println(GitVersion)

	cfg := &config.Config{}
	args := os.Args[1:]
	if err := cfg.Load(args); err != nil {
		panic(err)
	}
	if GitVersion != "" {
		usi.Version = GitVersion
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")

	log.Info().Msgf("Loaded config: %v", cfg.AllSettings())

	if cfg.GetString("cpu-profile") != "" {
		f, err := os.Create(cfg.GetString("cpu-profile"))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	sc, err := shell.NewController(cfg)
	if err != nil {
		panic(err)
	}

	argsLine := strings.TrimSpace(strings.Join(cfg.Args(), " "))
	if argsLine == "" {
		go sc.Loop(sig)
	} else {
		sc.Execute(argsLine)
		sig <- syscall.SIGINT
	}

	<-idleConnsClosed

	if cfg.GetString("mem-profile") != "" {
		f, err := os.Create(cfg.GetString("mem-profile"))
		if err != nil {
			panic("could not create memory profile: " + err.Error())
		}
		defer f.Close()
		memstats := &runtime.MemStats{}
		runtime.ReadMemStats(memstats)
		log.Info().Interface("memstats", memstats).Msg("memory-stats")
		if err := pprof.WriteHeapProfile(f); err != nil {
			panic("could not write memory profile: " + err.Error())
		}
		log.Info().Msg("wrote memory profile")
	}

	sc.Cleanup()
	log.Info().Msg("shutting down")
}
