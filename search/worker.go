package search

import (
	"sync/atomic"

	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/movegen"
	"github.com/fgantt/shogi-ui-sub004/position"
)

// pvTable is the triangular principal-variation store: line(ply) is
// the best line found from that ply downward.
type pvTable struct {
	moves [maxPly][maxPly]move.Move
	size  [maxPly]int
}

func (pv *pvTable) clear(ply int) { pv.size[ply] = 0 }

// adopt prepends m to the child line one ply below.
func (pv *pvTable) adopt(ply int, m move.Move) {
	n := 0
	if ply+1 < maxPly {
		n = pv.size[ply+1]
	}
	pv.moves[ply][0] = m
	copy(pv.moves[ply][1:1+n], pv.moves[ply+1][:n])
	pv.size[ply] = n + 1
}

func (pv *pvTable) line(ply int) []move.Move {
	return pv.moves[ply][:pv.size[ply]]
}

// worker is one search thread's private state. Only the transposition
// table behind ttw is shared; everything else is exclusively owned, so
// the recursion runs lock-free.
type worker struct {
	id       int
	pos      *position.Position
	settings *Settings
	ttable   *Table
	ttw      *Writer
	stop     *atomic.Bool

	stats   Stats
	pv      pvTable
	killers [maxPly][2]move.Move
	history [board.ColorArraySize][board.NumSquares + 8][board.NumSquares]int32

	moveBufs  [maxPly][]move.Move
	scoreBufs [maxPly][]int32
	quietBufs [maxPly][]move.Move

	nullDisabled bool
	nullFails    int
}

func newWorker(id int, root *position.Position, settings *Settings, tt *Table, stop *atomic.Bool, buffered bool) *worker {
	w := &worker{
		id:       id,
		pos:      root.Clone(),
		settings: settings,
		ttable:   tt,
		stop:     stop,
	}
	size := 1
	if buffered {
		size = 32
	}
	w.ttw = tt.NewWriter(size)
	return w
}

// reset prepares the worker for a new top-level search from root.
func (w *worker) reset(root *position.Position) {
	w.pos = root.Clone()
	w.stats = Stats{}
	w.killers = [maxPly][2]move.Move{}
	w.history = [board.ColorArraySize][board.NumSquares + 8][board.NumSquares]int32{}
	w.nullDisabled = false
	w.nullFails = 0
	w.ttw.Stored = 0
	w.ttw.Dropped = 0
}

func (w *worker) moveBuf(ply int) []move.Move {
	if w.moveBufs[ply] == nil {
		w.moveBufs[ply] = make([]move.Move, 0, movegen.MaxMoves)
	}
	return w.moveBufs[ply][:0]
}

func (w *worker) scoreBuf(ply, n int) []int32 {
	if cap(w.scoreBufs[ply]) < n {
		w.scoreBufs[ply] = make([]int32, movegen.MaxMoves)
	}
	return w.scoreBufs[ply][:n]
}

func (w *worker) quietBuf(ply int) []move.Move {
	if w.quietBufs[ply] == nil {
		w.quietBufs[ply] = make([]move.Move, 0, movegen.MaxMoves)
	}
	return w.quietBufs[ply][:0]
}

// finish folds the write buffer's counters into the worker stats and
// flushes whatever is still queued.
func (w *worker) finish() {
	w.ttw.Flush()
	w.stats.TTStores = w.ttw.Stored
	w.stats.TTDropped = w.ttw.Dropped
}

// nonPawnCount totals c's non-pawn material on the board and in hand,
// the zugzwang guard for null-move pruning.
func nonPawnCount(p *position.Position, c board.Color) int {
	n := 0
	for pt := board.Lance; pt < board.PieceTypeArraySize; pt++ {
		base := pt.Demoted()
		if base == board.Pawn || pt == board.King {
			continue
		}
		n += p.Pieces(c, pt).Count()
	}
	for _, pt := range board.HandPieceTypes {
		if pt == board.Pawn {
			continue
		}
		n += p.HandCount(c, pt)
	}
	return n
}
