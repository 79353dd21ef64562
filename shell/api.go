package shell

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fgantt/shogi-ui-sub004/bitboard"
	"github.com/fgantt/shogi-ui-sub004/evaluation"
	"github.com/fgantt/shogi-ui-sub004/kif"
	"github.com/fgantt/shogi-ui-sub004/movegen"
	"github.com/fgantt/shogi-ui-sub004/position"
	"github.com/fgantt/shogi-ui-sub004/search"
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *Controller) executeCommand(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "help":
		return sc.help(cmd)
	case "load":
		return sc.load(cmd)
	case "turn":
		return sc.turn(cmd)
	case "play":
		return sc.play(cmd)
	case "undo":
		return sc.undo(cmd)
	case "show":
		return sc.show(cmd)
	case "sfen":
		return msg(sc.pos.SFEN()), nil
	case "legal":
		return sc.legal(cmd)
	case "perft":
		return sc.perft(cmd)
	case "divide":
		return sc.divide(cmd)
	case "eval":
		return sc.eval(cmd)
	case "search", "go":
		return sc.search(cmd)
	case "stats":
		return sc.stats(cmd)
	case "suite":
		return sc.suite(cmd)
	case "suites":
		return sc.suites(cmd)
	case "bench":
		return sc.bench(cmd)
	case "set":
		return sc.set(cmd)
	case "kernel":
		return sc.kernel(cmd)
	case "validate":
		return sc.validate(cmd)
	case "script":
		return sc.script(cmd)
	case "usi":
		sc.SetMode(ModeUSI)
		return nil, nil
	case "exit", "quit":
		sc.quitting = true
		return nil, nil
	}
	return nil, errors.New("command " + cmd.cmd + " not found")
}

// setPosition replaces the whole analysis state; stale search results
// and history belong to the old position.
func (sc *Controller) setPosition(p *position.Position, rec *kif.Record) {
	sc.pos = p
	sc.history = nil
	sc.record = rec
	sc.last = nil
}

func (sc *Controller) load(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("usage: load <startpos | sfen <sfen> | kif <path>>")
	}
	switch cmd.args[0] {
	case "startpos":
		sc.setPosition(position.New(), nil)
		return msg(sc.pos.String()), nil
	case "sfen":
		if len(cmd.args) < 2 {
			return nil, errors.New("sfen string missing")
		}
		p, err := position.ParseSFEN(strings.Join(cmd.args[1:], " "))
		if err != nil {
			return nil, err
		}
		sc.setPosition(p, nil)
		return msg(sc.pos.String()), nil
	case "kif":
		if len(cmd.args) != 2 {
			return nil, errors.New("usage: load kif <path>")
		}
		rec, err := kif.ParseFile(cmd.args[1])
		if err != nil {
			return nil, err
		}
		sc.setPosition(position.New(), rec)
		if err := sc.gotoTurn(len(rec.Moves)); err != nil {
			return nil, err
		}
		return msg(fmt.Sprintf("%sloaded %d moves; turn <n> rewinds",
			sc.pos.String(), len(rec.Moves))), nil
	}
	return nil, errors.New("unknown load source " + cmd.args[0])
}

// gotoTurn replays the loaded record up to move n from the even start,
// so undo works from any turn the same as after play.
func (sc *Controller) gotoTurn(n int) error {
	if sc.record == nil {
		return errors.New("no game record loaded")
	}
	if n < 0 || n > len(sc.record.Moves) {
		return fmt.Errorf("turn must be between 0 and %d", len(sc.record.Moves))
	}
	p := position.New()
	history := make([]ply, 0, n)
	for _, m := range sc.record.Moves[:n] {
		history = append(history, ply{m: m, u: p.MakeMove(m)})
	}
	sc.pos = p
	sc.history = history
	sc.last = nil
	return nil
}

func (sc *Controller) turn(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: turn <n>")
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, errors.New("turn wants a move number")
	}
	if err := sc.gotoTurn(n); err != nil {
		return nil, err
	}
	return msg(sc.pos.String()), nil
}

// play applies the moves to a copy first, so a bad move partway
// through a sequence leaves the position alone.
func (sc *Controller) play(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("usage: play <usi move> ...")
	}
	p := sc.pos.Clone()
	added := make([]ply, 0, len(cmd.args))
	for _, s := range cmd.args {
		m, err := movegen.FindUSI(p, s)
		if err != nil {
			return nil, err
		}
		added = append(added, ply{m: m, u: p.MakeMove(m)})
	}
	sc.pos = p
	sc.history = append(sc.history, added...)
	sc.last = nil
	return msg(sc.pos.String()), nil
}

func (sc *Controller) undo(cmd *shellcmd) (*Response, error) {
	n := 1
	if len(cmd.args) == 1 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil || n < 1 {
			return nil, errors.New("undo wants a positive ply count")
		}
	}
	if n > len(sc.history) {
		return nil, fmt.Errorf("only %d plies to undo", len(sc.history))
	}
	for i := 0; i < n; i++ {
		last := sc.history[len(sc.history)-1]
		sc.pos.UnmakeMove(last.u)
		sc.history = sc.history[:len(sc.history)-1]
	}
	sc.last = nil
	return msg(sc.pos.String()), nil
}

func (sc *Controller) show(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	sb.WriteString(sc.pos.String())
	fmt.Fprintf(&sb, "sfen: %s\n", sc.pos.SFEN())
	fmt.Fprintf(&sb, "hash: %016x\n", sc.pos.Hash())
	fmt.Fprintf(&sb, "phase: %d/%d  balance: %+d",
		evaluation.Phase(sc.pos), evaluation.PhaseMax, evaluation.Balance(sc.pos))
	if sc.pos.InCheck() {
		sb.WriteString("  (in check)")
	}
	return msg(sb.String()), nil
}

func (sc *Controller) legal(cmd *shellcmd) (*Response, error) {
	moves := movegen.Legal(sc.pos, nil)
	if len(moves) == 0 {
		return msg("no legal moves"), nil
	}
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	sort.Strings(strs)
	var sb strings.Builder
	for i, s := range strs {
		if i > 0 {
			if i%10 == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(s)
	}
	fmt.Fprintf(&sb, "\n%d legal moves", len(moves))
	return msg(sb.String()), nil
}

func (sc *Controller) validate(cmd *shellcmd) (*Response, error) {
	if err := sc.pos.Validate(); err != nil {
		return nil, err
	}
	return msg("position ok"), nil
}

func (sc *Controller) kernel(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(fmt.Sprintf("active: %s\navailable: %s",
			bitboard.ActiveKernel(), strings.Join(bitboard.Kernels(), " "))), nil
	}
	if err := bitboard.SetKernel(cmd.args[0]); err != nil {
		return nil, err
	}
	return msg("scan kernel set to " + cmd.args[0]), nil
}

type settingDef struct {
	name string
	get  func(search.Settings) string
	set  func(*search.Settings, string) error
}

func intSetting(name string, get func(search.Settings) int, set func(*search.Settings, int)) settingDef {
	return settingDef{
		name: name,
		get:  func(s search.Settings) string { return strconv.Itoa(get(s)) },
		set: func(s *search.Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.New(name + " wants an integer")
			}
			set(s, n)
			return nil
		},
	}
}

var settingsTable = []settingDef{
	intSetting("threads",
		func(s search.Settings) int { return s.Threads },
		func(s *search.Settings, n int) { s.Threads = n }),
	intSetting("tt-size-mb",
		func(s search.Settings) int { return s.TTSizeMB },
		func(s *search.Settings, n int) { s.TTSizeMB = n }),
	intSetting("depth-limit",
		func(s search.Settings) int { return s.Depth },
		func(s *search.Settings, n int) { s.Depth = n }),
	{
		name: "null-move",
		get:  func(s search.Settings) string { return strconv.FormatBool(s.NullMove) },
		set: func(s *search.Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.New("null-move wants true or false")
			}
			s.NullMove = b
			return nil
		},
	},
	intSetting("null-move-min-depth",
		func(s search.Settings) int { return s.NullMoveMinDepth },
		func(s *search.Settings, n int) { s.NullMoveMinDepth = n }),
	intSetting("null-move-reduction",
		func(s search.Settings) int { return s.NullMoveReduction },
		func(s *search.Settings, n int) { s.NullMoveReduction = n }),
	intSetting("minors-for-null",
		func(s search.Settings) int { return s.MinorsForNull },
		func(s *search.Settings, n int) { s.MinorsForNull = n }),
	intSetting("parallel-min-depth",
		func(s search.Settings) int { return s.ParallelMinDepth },
		func(s *search.Settings, n int) { s.ParallelMinDepth = n }),
}

func (sc *Controller) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		var sb strings.Builder
		settings := sc.solver.Settings()
		for i, def := range settingsTable {
			if i > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%-22s %s", def.name, def.get(settings))
		}
		return msg(sb.String()), nil
	}
	def, err := findSetting(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if len(cmd.args) == 1 {
		return msg(def.get(sc.solver.Settings())), nil
	}
	settings := sc.solver.Settings()
	if err := def.set(&settings, cmd.args[1]); err != nil {
		return nil, err
	}
	if err := sc.solver.Configure(settings); err != nil {
		return nil, err
	}
	return msg("set " + def.name + " to " + def.get(settings)), nil
}

func findSetting(name string) (settingDef, error) {
	for _, def := range settingsTable {
		if def.name == name {
			return def, nil
		}
	}
	return settingDef{}, errors.New("no setting named " + name)
}
