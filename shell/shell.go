// Package shell is the interactive analysis console: it keeps a
// current position, runs searches and test suites against one solver,
// and can hand the terminal over to the USI protocol loop.
package shell

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/fgantt/shogi-ui-sub004/bitboard"
	"github.com/fgantt/shogi-ui-sub004/config"
	"github.com/fgantt/shogi-ui-sub004/kif"
	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/position"
	"github.com/fgantt/shogi-ui-sub004/search"
	"github.com/fgantt/shogi-ui-sub004/usi"
)

type Mode int

const (
	ModeStandard Mode = iota
	ModeUSI
)

// ply is one applied move with what is needed to take it back.
type ply struct {
	m move.Move
	u position.Undo
}

type Controller struct {
	l *readline.Instance
	// w receives command output and search progress. Under readline it
	// is the instance's stderr writer, which redraws the prompt.
	w io.Writer

	solver  *search.Solver
	pos     *position.Position
	history []ply

	// record is the last loaded game record; turn navigation replays
	// its moves from the even starting position.
	record *kif.Record

	last        *search.Result
	lastElapsed time.Duration

	curMode  Mode
	quitting bool
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewController(cfg *config.Config) (*Controller, error) {
	settings, err := cfg.SearchSettings()
	if err != nil {
		return nil, err
	}
	if k := cfg.GetString("scan-kernel"); k != "" {
		if err := bitboard.SetKernel(k); err != nil {
			return nil, err
		}
	}
	solver := search.NewSolver()
	if err := solver.Configure(settings); err != nil {
		return nil, err
	}

	sc := &Controller{
		solver: solver,
		pos:    position.New(),
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mkarasu>\033[0m ",
		HistoryFile:     "/tmp/karasu-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		AutoComplete:        newCompleter(),
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc.l = l
	sc.w = l.Stderr()
	return sc, nil
}

func (sc *Controller) SetMode(m Mode) { sc.curMode = m }

func (sc *Controller) showMessage(msg string) {
	showMessage(msg, sc.w)
}

func (sc *Controller) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// Execute runs one command line. It is the entry point for scripts and
// for a one-shot command given on the argv.
func (sc *Controller) Execute(line string) {
	cmd, err := extractFields(line)
	if err == errNoData {
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	resp, err := sc.executeCommand(cmd)
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *Controller) Loop(sig chan os.Signal) {

	for !sc.quitting && sc.curMode == ModeStandard {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sc.quitting = true
				break
			}
			continue
		} else if err == io.EOF {
			sc.quitting = true
			break
		}
		sc.Execute(strings.TrimSpace(line))
	}
	sc.l.Close()

	if sc.curMode == ModeUSI {
		// The console is done with the terminal; the protocol loop
		// owns stdin until quit.
		if err := usi.NewEngine(sc.solver).Run(os.Stdin, os.Stdout); err != nil {
			log.Err(err).Msg("usi loop ended")
		}
	}
	sig <- syscall.SIGINT
	log.Debug().Msg("exiting readline loop")
}

func (sc *Controller) Cleanup() {
	sc.l.Close()
}

// scoreString renders a search score the way the protocol does, mates
// as signed plies and everything else as centipawns.
func scoreString(v int32) string {
	if plies, ok := search.MatePlies(v); ok {
		return fmt.Sprintf("mate %d", plies)
	}
	return fmt.Sprintf("cp %d", v)
}

func nps(nodes uint64, elapsed time.Duration) uint64 {
	if elapsed <= 0 {
		return 0
	}
	return nodes * uint64(time.Second) / uint64(elapsed)
}
