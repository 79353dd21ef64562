// Package usi speaks the Universal Shogi Interface: newline-delimited
// commands on a reader, id/info/bestmove responses on a writer. One
// Engine serves one GUI session.
package usi

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/movegen"
	"github.com/fgantt/shogi-ui-sub004/position"
	"github.com/fgantt/shogi-ui-sub004/search"
)

const (
	EngineName   = "Karasu"
	EngineAuthor = "fgantt"
)

// Version is stamped by the build; the default marks dev builds.
var Version = "dev"

// Engine runs the protocol loop. Commands are handled on the loop
// goroutine; a search runs on its own goroutine and emits info and
// bestmove lines through the shared writer.
type Engine struct {
	solver *search.Solver
	pos    *position.Position

	out   io.Writer
	outMu sync.Mutex

	searchCancel context.CancelFunc
	searchDone   chan struct{}

	autoProfile bool
	quit        bool
}

// NewEngine wraps solver for one protocol session starting from the
// even game.
func NewEngine(solver *search.Solver) *Engine {
	return &Engine{solver: solver, pos: position.New()}
}

// Run reads commands from in until quit or EOF. Responses and search
// output go to out. A search still running when the loop ends is
// stopped before Run returns.
func (e *Engine) Run(in io.Reader, out io.Writer) error {
	e.out = out
	e.solver.SetProgress(e.emitInfo)

	scanner := bufio.NewScanner(in)
	// A position command replaying a long game exceeds the default
	// token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for !e.quit && scanner.Scan() {
		e.dispatch(scanner.Text())
	}
	e.stopSearch()
	return scanner.Err()
}

// dispatch routes one command line. Malformed lines are logged and
// dropped; the session stays usable.
func (e *Engine) dispatch(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "usi":
		e.hello()
	case "isready":
		e.solver.Warmup()
		e.send("readyok")
	case "usinewgame":
		e.solver.ClearTT()
	case "position":
		if err := e.handlePosition(args); err != nil {
			log.Debug().Err(err).Str("line", line).Msg("position rejected")
		}
	case "go":
		if err := e.handleGo(args); err != nil {
			log.Debug().Err(err).Str("line", line).Msg("go rejected")
		}
	case "stop", "gameover":
		e.stopSearch()
	case "setoption":
		if err := e.handleSetOption(args); err != nil {
			log.Debug().Err(err).Str("line", line).Msg("setoption rejected")
		}
	case "quit":
		e.quit = true
	default:
		log.Debug().Str("line", line).Msg("unknown command")
	}
}

func (e *Engine) hello() {
	e.send("id name " + EngineName + " " + Version)
	e.send("id author " + EngineAuthor)
	for _, o := range options {
		e.send(o.declare())
	}
	e.send("usiok")
}

// handlePosition parses "position [startpos | sfen <sfen>] [moves ...]".
// The command applies atomically: any parse or legality error leaves
// the current position in place.
func (e *Engine) handlePosition(args []string) error {
	if e.searching() {
		return errors.New("search in progress")
	}
	if len(args) == 0 {
		return errors.New("empty position command")
	}

	var p *position.Position
	rest := args[1:]
	switch args[0] {
	case "startpos":
		p = position.New()
	case "sfen":
		end := len(args)
		for i, a := range args {
			if a == "moves" {
				end = i
				break
			}
		}
		if end < 2 {
			return errors.New("sfen body missing")
		}
		var err error
		p, err = position.ParseSFEN(strings.Join(args[1:end], " "))
		if err != nil {
			return err
		}
		rest = args[end:]
	default:
		return fmt.Errorf("unknown position form %q", args[0])
	}

	if len(rest) > 0 {
		if rest[0] != "moves" {
			return fmt.Errorf("expected moves, got %q", rest[0])
		}
		for _, ms := range rest[1:] {
			m, err := movegen.FindUSI(p, ms)
			if err != nil {
				return err
			}
			p.MakeMove(m)
		}
	}
	e.pos = p
	return nil
}

// handleGo starts a search on its own goroutine. The goroutine owns a
// clone of the current position, so the session can stage the next
// position while a stopped search drains.
func (e *Engine) handleGo(args []string) error {
	if e.searching() {
		return errors.New("search in progress")
	}
	limits, err := parseGo(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.searchCancel = cancel
	e.searchDone = done

	pos := e.pos.Clone()
	stopProfile := e.startProfile()
	go func() {
		defer close(done)
		defer stopProfile()
		res := e.solver.Search(ctx, pos, limits)
		if res.Resign {
			e.send("bestmove resign")
			return
		}
		e.send("bestmove " + res.Move.String())
	}()
	return nil
}

func parseGo(args []string) (search.Limits, error) {
	var l search.Limits
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			l.Infinite = true
		case "btime", "wtime", "binc", "winc", "byoyomi", "movetime":
			d, err := msAfter(args, i)
			if err != nil {
				return l, err
			}
			switch args[i] {
			case "btime":
				l.BTime = d
			case "wtime":
				l.WTime = d
			case "binc":
				l.BInc = d
			case "winc":
				l.WInc = d
			case "byoyomi":
				l.Byoyomi = d
			case "movetime":
				l.MoveTime = d
			}
			i++
		case "depth":
			if i+1 >= len(args) {
				return l, errors.New("depth needs a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 1 {
				return l, fmt.Errorf("bad depth %q", args[i+1])
			}
			l.Depth = n
			i++
		default:
			return l, fmt.Errorf("unknown go parameter %q", args[i])
		}
	}
	return l, nil
}

func msAfter(args []string, i int) (time.Duration, error) {
	if i+1 >= len(args) {
		return 0, fmt.Errorf("%s needs a value", args[i])
	}
	v, err := strconv.Atoi(args[i+1])
	if err != nil || v < 0 {
		return 0, fmt.Errorf("bad %s value %q", args[i], args[i+1])
	}
	return time.Duration(v) * time.Millisecond, nil
}

// searching reports whether a search goroutine is still live.
func (e *Engine) searching() bool {
	if e.searchDone == nil {
		return false
	}
	select {
	case <-e.searchDone:
		e.searchDone = nil
		e.searchCancel = nil
		return false
	default:
		return true
	}
}

// stopSearch cancels the running search, if any, and waits for its
// bestmove to go out.
func (e *Engine) stopSearch() {
	if e.searchDone == nil {
		return
	}
	e.searchCancel()
	<-e.searchDone
	e.searchDone = nil
	e.searchCancel = nil
}

func (e *Engine) emitInfo(info search.Info) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d seldepth %d", info.Depth, info.SelDepth)
	if plies, ok := search.MatePlies(info.Score); ok {
		fmt.Fprintf(&sb, " score mate %d", plies)
	} else {
		fmt.Fprintf(&sb, " score cp %d", info.Score)
	}
	ms := info.Elapsed.Milliseconds()
	var nps uint64
	if ms > 0 {
		nps = info.Nodes * 1000 / uint64(ms)
	}
	fmt.Fprintf(&sb, " nodes %d nps %d time %d hashfull %d",
		info.Nodes, nps, ms, info.Hashfull)
	if len(info.PV) > 0 {
		sb.WriteString(" pv ")
		sb.WriteString(strings.Join(lo.Map(info.PV, func(m move.Move, _ int) string {
			return m.String()
		}), " "))
	}
	e.send(sb.String())
}

func (e *Engine) send(line string) {
	e.outMu.Lock()
	defer e.outMu.Unlock()
	fmt.Fprintln(e.out, line)
}

// startProfile begins a CPU profile for one search when AutoProfile is
// set. The returned func stops it.
func (e *Engine) startProfile() func() {
	if !e.autoProfile {
		return func() {}
	}
	name := filepath.Join(os.TempDir(),
		fmt.Sprintf("karasu-search-%d.prof", time.Now().UnixNano()))
	f, err := os.Create(name)
	if err != nil {
		log.Error().Err(err).Msg("could not create CPU profile")
		return func() {}
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		log.Error().Err(err).Msg("could not start CPU profile")
		f.Close()
		return func() {}
	}
	log.Info().Str("file", name).Msg("cpu profile started")
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}
}
