package search

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/movegen"
	"github.com/fgantt/shogi-ui-sub004/position"
)

// Limits bounds one search invocation. Zero clocks with Infinite unset
// mean the search runs until its depth cap or an external stop. Depth,
// when positive, caps this search below the configured depth limit.
type Limits struct {
	BTime    time.Duration
	WTime    time.Duration
	BInc     time.Duration
	WInc     time.Duration
	Byoyomi  time.Duration
	MoveTime time.Duration
	Depth    int
	Infinite bool
}

// budget converts the clock into one move's thinking time; zero means
// unbounded. Byoyomi renews every move, so it sets a floor under the
// main-clock allocation.
func (l Limits) budget(stm board.Color) time.Duration {
	if l.Infinite {
		return 0
	}
	if l.MoveTime > 0 {
		return l.MoveTime
	}
	remaining, inc := l.BTime, l.BInc
	if stm == board.White {
		remaining, inc = l.WTime, l.WInc
	}
	if remaining <= 0 && inc <= 0 && l.Byoyomi <= 0 {
		return 0
	}
	b := remaining/40 + inc
	if floor := l.Byoyomi * 9 / 10; b < floor {
		b = floor
	}
	if b < 50*time.Millisecond {
		b = 50 * time.Millisecond
	}
	return b
}

// Info is one progress report, emitted after each completed iteration.
type Info struct {
	Depth    int
	SelDepth int
	Score    int32
	Nodes    uint64
	Elapsed  time.Duration
	Hashfull int
	PV       []move.Move
}

// RootScore is one root move with the score it held when the search
// ended. Moves never searched keep -scoreInfinity.
type RootScore struct {
	Move  move.Move
	Score int32
}

// Searched reports whether the move was scored by at least one
// iteration. Only a stop during the first iteration leaves it false.
func (r RootScore) Searched() bool { return r.Score != -scoreInfinity }

// Result is a finished search. When no iteration completed, Move still
// holds a playable fallback.
type Result struct {
	Move   move.Move
	Score  int32
	Resign bool
	Depth  int
	Stats  Stats
	Depths []DepthStats
	Roots  []RootScore
}

// Solver owns the transposition table and runs searches against it.
// One search runs at a time; the table persists across searches so
// later ones start warm.
type Solver struct {
	settings Settings
	tt       *Table
	progress func(Info)
}

func NewSolver() *Solver {
	return &Solver{settings: DefaultSettings()}
}

// Configure validates and applies settings, resizing the table when
// its size changed.
func (s *Solver) Configure(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if s.tt != nil && settings.TTSizeMB != s.settings.TTSizeMB {
		s.tt.Resize(settings.TTSizeMB)
	}
	s.settings = settings
	return nil
}

func (s *Solver) Settings() Settings { return s.settings }

// SetProgress registers the per-iteration callback.
func (s *Solver) SetProgress(fn func(Info)) { s.progress = fn }

// Warmup allocates the transposition table if it has not been yet.
func (s *Solver) Warmup() {
	if s.tt == nil {
		s.tt = NewTable(s.settings.TTSizeMB)
	}
}

// ClearTT empties the table between games.
func (s *Solver) ClearTT() {
	s.Warmup()
	s.tt.Clear()
}

type rootMove struct {
	move  move.Move
	score int32
	order int
}

func sortRoots(roots []rootMove) {
	sort.SliceStable(roots, func(i, j int) bool {
		if roots[i].score != roots[j].score {
			return roots[i].score > roots[j].score
		}
		return roots[i].order < roots[j].order
	})
}

// Search runs iterative deepening from p under limits. It returns the
// last completed iteration's best move; a stop or expired budget
// discards the iteration in flight rather than returning its partial
// result.
func (s *Solver) Search(ctx context.Context, p *position.Position, limits Limits) Result {
	s.Warmup()
	s.tt.NextGeneration()

	legal := movegen.Legal(p, nil)
	if len(legal) == 0 {
		return Result{Resign: true}
	}

	var stop atomic.Bool
	budget := limits.budget(p.SideToMove())
	if budget > 0 {
		t := time.AfterFunc(budget, func() { stop.Store(true) })
		defer t.Stop()
	}
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			stop.Store(true)
		case <-watchDone:
		}
	}()

	threads := s.settings.Threads
	buffered := threads > 1
	workers := make([]*worker, threads)
	for i := range workers {
		workers[i] = newWorker(i, p, &s.settings, s.tt, &stop, buffered)
	}

	roots := make([]rootMove, len(legal))
	for i, m := range legal {
		roots[i] = rootMove{move: m, score: -scoreInfinity, order: i}
	}

	res := Result{Move: s.fallback(p, legal), Score: -scoreInfinity}
	start := time.Now()
	maxD := maxDepth
	if s.settings.Depth > 0 {
		maxD = s.settings.Depth
	}
	if limits.Depth > 0 && limits.Depth < maxD {
		maxD = limits.Depth
	}

	for depth := 1; depth <= maxD; depth++ {
		prevNodes := totalNodes(workers)
		var (
			bestIdx   int
			bestScore int32
			bestPV    []move.Move
			err       error
		)
		if threads > 1 && depth >= s.settings.ParallelMinDepth {
			bestIdx, bestScore, bestPV, err = searchRootParallel(workers, roots, depth)
		} else {
			bestIdx, bestScore, bestPV, err = searchRoot(workers[0], roots, depth)
		}
		elapsed := time.Since(start)
		if err != nil {
			break
		}
		for _, w := range workers {
			w.ttw.Flush()
		}

		nodes := totalNodes(workers)
		ds := DepthStats{
			Depth:   depth,
			Score:   bestScore,
			Move:    roots[bestIdx].move,
			PV:      bestPV,
			Nodes:   nodes - prevNodes,
			Elapsed: elapsed,
		}
		res.Move = ds.Move
		res.Score = bestScore
		res.Depth = depth
		res.Depths = append(res.Depths, ds)

		if s.progress != nil {
			s.progress(Info{
				Depth:    depth,
				SelDepth: maxSelDepth(workers),
				Score:    bestScore,
				Nodes:    nodes,
				Elapsed:  elapsed,
				Hashfull: s.tt.Hashfull(),
				PV:       bestPV,
			})
		}
		log.Debug().
			Int("depth", depth).
			Int32("score", bestScore).
			Uint64("nodes", nodes).
			Dur("elapsed", elapsed).
			Str("best", ds.Move.String()).
			Msg("iteration complete")

		if IsMateScore(bestScore) {
			break
		}
		if stop.Load() {
			break
		}
		if budget > 0 && elapsed*2 >= budget {
			break
		}
		sortRoots(roots)
	}

	for _, w := range workers {
		w.finish()
		res.Stats.Add(w.stats)
	}
	sortRoots(roots)
	res.Roots = make([]RootScore, len(roots))
	for i, r := range roots {
		res.Roots[i] = RootScore{Move: r.move, Score: r.score}
	}
	return res
}

// searchRoot is the sequential root loop: every root move is searched
// against the running alpha with an unbounded beta, so each improving
// move's score is exact.
func searchRoot(w *worker, roots []rootMove, depth int) (int, int32, []move.Move, error) {
	alpha := -scoreInfinity
	bestIdx := -1
	var bestPV []move.Move
	for i := range roots {
		u := w.pos.MakeMove(roots[i].move)
		v, err := w.negamax(depth-1, 1, -scoreInfinity, -alpha, true)
		w.pos.UnmakeMove(u)
		if err != nil {
			return 0, 0, nil, err
		}
		v = -v
		roots[i].score = v
		if bestIdx < 0 || v > alpha {
			alpha = v
			bestIdx = i
			bestPV = appendPV(roots[i].move, w.pv.line(1))
		}
	}
	return bestIdx, alpha, bestPV, nil
}

// fallback picks the move returned when not even a depth-1 iteration
// finished: the highest-gaining safe capture, else the first legal
// move.
func (s *Solver) fallback(p *position.Position, legal []move.Move) move.Move {
	best := legal[0]
	bestSee := int32(-1)
	for _, m := range legal {
		if m.IsDrop() || p.PieceAt(m.To()) == board.NoPiece {
			continue
		}
		if see := SEE(p, m); see > bestSee {
			best, bestSee = m, see
		}
	}
	return best
}

func appendPV(m move.Move, tail []move.Move) []move.Move {
	pv := make([]move.Move, 0, len(tail)+1)
	pv = append(pv, m)
	return append(pv, tail...)
}

func totalNodes(workers []*worker) uint64 {
	var n uint64
	for _, w := range workers {
		n += w.stats.Nodes
	}
	return n
}

func maxSelDepth(workers []*worker) int {
	sel := 0
	for _, w := range workers {
		if w.stats.SelDepth > sel {
			sel = w.stats.SelDepth
		}
	}
	return sel
}
