package shell

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/fgantt/shogi-ui-sub004/evaluation"
	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/movegen"
	"github.com/fgantt/shogi-ui-sub004/search"
	"github.com/fgantt/shogi-ui-sub004/stats"
	"github.com/fgantt/shogi-ui-sub004/testsuite"
)

func pvString(pv []move.Move) string {
	return strings.Join(lo.Map(pv, func(m move.Move, _ int) string {
		return m.String()
	}), " ")
}

func (sc *Controller) search(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 1 {
		return nil, errors.New("usage: search [depth] [-time <ms>]")
	}
	var limits search.Limits
	if len(cmd.args) == 1 {
		d, err := strconv.Atoi(cmd.args[0])
		if err != nil || d < 1 {
			return nil, errors.New("depth wants a positive integer")
		}
		limits.Depth = d
	}
	mt, err := cmd.options.Millis("time")
	if err != nil {
		return nil, err
	}
	limits.MoveTime = mt
	if limits.Depth == 0 && limits.MoveTime == 0 {
		// an unbounded search would never give the prompt back
		limits.MoveTime = 5 * time.Second
	}

	sc.solver.SetProgress(func(info search.Info) {
		sc.showMessage(fmt.Sprintf(
			"depth %d seldepth %d score %s nodes %d time %dms pv %s",
			info.Depth, info.SelDepth, scoreString(info.Score), info.Nodes,
			info.Elapsed.Milliseconds(), pvString(info.PV)))
	})
	defer sc.solver.SetProgress(nil)

	start := time.Now()
	res := sc.solver.Search(context.Background(), sc.pos.Clone(), limits)
	elapsed := time.Since(start)
	sc.last = &res
	sc.lastElapsed = elapsed

	if res.Resign {
		return msg("no legal moves: resign"), nil
	}
	return msg(fmt.Sprintf("best %s score %s depth %d nodes %d nps %d",
		res.Move, scoreString(res.Score), res.Depth, res.Stats.Nodes,
		nps(res.Stats.Nodes, elapsed))), nil
}

func (sc *Controller) stats(cmd *shellcmd) (*Response, error) {
	if sc.last == nil {
		return nil, errors.New("no search to report on; run search first")
	}
	st := sc.last.Stats
	var sb strings.Builder
	fmt.Fprintf(&sb, "nodes %d (quiescence %d) nps %d\n",
		st.Nodes, st.QNodes, nps(st.Nodes, sc.lastElapsed))
	fmt.Fprintf(&sb, "cutoffs %d seldepth %d\n", st.Cutoffs, st.SelDepth)
	fmt.Fprintf(&sb, "tt probes %d hits %d (%.1f%%) cutoffs %d stores %d dropped %d\n",
		st.TTProbes, st.TTHits, 100*st.TTHitRate(), st.TTCutoffs, st.TTStores, st.TTDropped)
	fmt.Fprintf(&sb, "null tried %d cut %d verify-fails %d\n",
		st.NullTried, st.NullCutoffs, st.NullVerifyFails)

	scores := make([]float64, 0, len(sc.last.Roots))
	for _, r := range sc.last.Roots {
		if r.Searched() {
			scores = append(scores, float64(r.Score))
		}
	}
	if len(scores) >= 2 {
		sb.WriteString("root scores:\n")
		hist := histogram.Hist(15, scores)
		if err := histogram.Fprint(&sb, hist, histogram.Linear(40)); err != nil {
			return nil, err
		}
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func parseDepthArg(arg string) (int, error) {
	d, err := strconv.Atoi(arg)
	if err != nil || d < 1 {
		return 0, errors.New("depth wants a positive integer")
	}
	return d, nil
}

func (sc *Controller) perft(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: perft <depth>")
	}
	d, err := parseDepthArg(cmd.args[0])
	if err != nil {
		return nil, err
	}
	start := time.Now()
	nodes := movegen.Perft(sc.pos, d)
	elapsed := time.Since(start)
	return msg(fmt.Sprintf("perft(%d) = %d  (%.2fs, %d nps)",
		d, nodes, elapsed.Seconds(), nps(nodes, elapsed))), nil
}

func (sc *Controller) divide(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: divide <depth>")
	}
	d, err := parseDepthArg(cmd.args[0])
	if err != nil {
		return nil, err
	}
	counts := movegen.Divide(sc.pos, d)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	var total uint64
	for _, k := range keys {
		fmt.Fprintf(&sb, "%-6s %d\n", k, counts[k])
		total += counts[k]
	}
	fmt.Fprintf(&sb, "total  %d", total)
	return msg(sb.String()), nil
}

func (sc *Controller) eval(cmd *shellcmd) (*Response, error) {
	phase := evaluation.Phase(sc.pos)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-16s %6s %6s %7s\n", "term", "mg", "eg", "phased")
	var sum evaluation.Score
	for _, term := range evaluation.Breakdown(sc.pos) {
		sum = sum.Add(term.Score)
		fmt.Fprintf(&sb, "%-16s %+6d %+6d %+7d\n",
			term.Name, term.Score.MG, term.Score.EG, term.Score.Interpolate(phase))
	}
	fmt.Fprintf(&sb, "%-16s %+6d %+6d %+7d\n",
		"total (black)", sum.MG, sum.EG, sum.Interpolate(phase))
	fmt.Fprintf(&sb, "phase %d/%d; side to move sees %+d",
		phase, evaluation.PhaseMax, evaluation.Evaluate(sc.pos))
	return msg(sb.String()), nil
}

func (sc *Controller) suites(cmd *shellcmd) (*Response, error) {
	return msg("builtin suites: " + strings.Join(testsuite.Builtin(), " ")), nil
}

func (sc *Controller) loadSuite(name string) (*testsuite.Suite, error) {
	for _, b := range testsuite.Builtin() {
		if b == name {
			return testsuite.LoadBuiltin(name)
		}
	}
	return testsuite.Load(name)
}

func (sc *Controller) suite(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: suite <name or path> [-depth <n>]")
	}
	s, err := sc.loadSuite(cmd.args[0])
	if err != nil {
		return nil, err
	}
	d, err := cmd.options.IntDefault("depth", 0)
	if err != nil {
		return nil, err
	}
	if d > 0 {
		s.Depth = d
	}
	rep, err := testsuite.Run(context.Background(), sc.solver, s)
	if err != nil {
		return nil, err
	}
	return msg(formatReport(rep)), nil
}

func formatReport(rep *testsuite.Report) string {
	var sb strings.Builder
	for _, r := range rep.Results {
		played := "resign"
		if r.Move != move.MoveNone {
			played = r.Move.String()
		}
		status := "ok"
		if !r.Passed {
			status = "FAIL: " + r.Reason
		}
		fmt.Fprintf(&sb, "%-26s %-7s %-9s %s\n",
			r.Case.Name, played, scoreString(r.Score), status)
	}
	fmt.Fprintf(&sb, "%s: %d passed, %d failed", rep.Suite, rep.Passed, rep.Failed)
	return sb.String()
}

func (sc *Controller) bench(cmd *shellcmd) (*Response, error) {
	runs, err := cmd.options.IntDefault("runs", 3)
	if err != nil || runs < 1 {
		return nil, errors.New("runs wants a positive integer")
	}
	s, err := testsuite.LoadBuiltin("bench")
	if err != nil {
		return nil, err
	}
	d, err := cmd.options.IntDefault("depth", 0)
	if err != nil {
		return nil, err
	}
	if d > 0 {
		s.Depth = d
	}

	var speed stats.Running
	var nodes uint64
	for i := 0; i < runs; i++ {
		rep, err := testsuite.Run(context.Background(), sc.solver, s)
		if err != nil {
			return nil, err
		}
		var runNodes uint64
		var runElapsed time.Duration
		for _, r := range rep.Results {
			runNodes += r.Nodes
			runElapsed += r.Elapsed
		}
		speed.Push(float64(nps(runNodes, runElapsed)))
		nodes = runNodes
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d nodes per run, %d runs\n", nodes, runs)
	fmt.Fprintf(&sb, "nps mean %.0f stdev %.0f", speed.Mean(), speed.Stdev())
	if runs >= 2 {
		low, high := speed.ConfidenceInterval(95)
		fmt.Fprintf(&sb, "  95%% ci [%.0f, %.0f]", low, high)
	}
	return msg(sb.String()), nil
}
