package testsuite

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/position"
	"github.com/fgantt/shogi-ui-sub004/search"
)

// CaseResult is one finished case with its verdict.
type CaseResult struct {
	Case    Case
	Move    move.Move
	Score   int32
	Passed  bool
	Reason  string
	Nodes   uint64
	Elapsed time.Duration
}

// Report summarizes one suite run.
type Report struct {
	Suite   string
	Passed  int
	Failed  int
	Results []CaseResult
}

// Run executes every case in order. The solver's table is cleared
// before each case so earlier cases cannot steer later ones. A
// cancelled context aborts the run with the partial report.
func Run(ctx context.Context, solver *search.Solver, suite *Suite) (*Report, error) {
	rep := &Report{Suite: suite.Name}
	for _, c := range suite.Cases {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		cr := runCase(ctx, solver, suite, c)
		if cr.Passed {
			rep.Passed++
		} else {
			rep.Failed++
		}
		rep.Results = append(rep.Results, cr)
	}
	return rep, nil
}

func caseDepth(s *Suite, c Case) int {
	switch {
	case c.Depth > 0:
		return c.Depth
	case s.Depth > 0:
		return s.Depth
	}
	return 4
}

func runCase(ctx context.Context, solver *search.Solver, s *Suite, c Case) CaseResult {
	p, err := position.ParseSFEN(c.SFEN)
	if err != nil {
		return CaseResult{Case: c, Reason: err.Error()}
	}
	depth := caseDepth(s, c)

	if c.CheckNullConsistency {
		return runNullConsistency(ctx, solver, c, p, depth)
	}

	solver.ClearTT()
	start := time.Now()
	res := solver.Search(ctx, p, search.Limits{Depth: depth})
	cr := CaseResult{
		Case:    c,
		Move:    res.Move,
		Score:   res.Score,
		Nodes:   res.Stats.Nodes,
		Elapsed: time.Since(start),
	}
	cr.Passed, cr.Reason = judge(c, res)
	return cr
}

func judge(c Case, res search.Result) (bool, string) {
	if c.ExpectResign {
		if !res.Resign {
			return false, fmt.Sprintf("expected resign, played %s", res.Move)
		}
		return true, ""
	}
	if res.Resign {
		return false, "unexpected resign"
	}
	if c.MateIn != 0 {
		plies, ok := search.MatePlies(res.Score)
		if !ok {
			return false, fmt.Sprintf("expected mate in %d, score %d", c.MateIn, res.Score)
		}
		if plies != c.MateIn {
			return false, fmt.Sprintf("expected mate in %d, found %d", c.MateIn, plies)
		}
	}
	got := res.Move.String()
	if len(c.BestMoves) > 0 && !slices.Contains(c.BestMoves, got) {
		return false, fmt.Sprintf("played %s, wanted one of %v", got, c.BestMoves)
	}
	if slices.Contains(c.AvoidMoves, got) {
		return false, fmt.Sprintf("played forbidden %s", got)
	}
	return true, ""
}

// runNullConsistency searches the position twice at the same depth on
// one thread, null move forced on then off, and requires identical
// results. Zugzwang-prone positions go through here.
func runNullConsistency(ctx context.Context, solver *search.Solver, c Case, p *position.Position, depth int) CaseResult {
	base := solver.Settings()
	defer func() {
		if err := solver.Configure(base); err != nil {
			panic(err)
		}
	}()

	run := func(null bool) (search.Result, error) {
		cfg := base
		cfg.Threads = 1
		cfg.NullMove = null
		if err := solver.Configure(cfg); err != nil {
			return search.Result{}, err
		}
		solver.ClearTT()
		return solver.Search(ctx, p.Clone(), search.Limits{Depth: depth}), nil
	}

	start := time.Now()
	with, err := run(true)
	if err != nil {
		return CaseResult{Case: c, Reason: err.Error()}
	}
	without, err := run(false)
	if err != nil {
		return CaseResult{Case: c, Reason: err.Error()}
	}

	cr := CaseResult{
		Case:    c,
		Move:    with.Move,
		Score:   with.Score,
		Nodes:   with.Stats.Nodes + without.Stats.Nodes,
		Elapsed: time.Since(start),
	}
	if with.Move != without.Move || with.Score != without.Score {
		cr.Reason = fmt.Sprintf("null move changed result: %s %d vs %s %d",
			with.Move, with.Score, without.Move, without.Score)
		return cr
	}
	cr.Passed = true
	return cr
}
