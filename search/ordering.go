package search

import (
	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/evaluation"
	"github.com/fgantt/shogi-ui-sub004/move"
)

// Ordering tiers. Anything scored in a higher tier is tried before
// everything in the tiers below: hash move, winning or even captures
// by most-valuable-victim, killers, then quiets by history. Captures
// the exchange evaluator calls losing sink below the killers.
const (
	orderHash        int32 = 1 << 30
	orderGoodCapture int32 = 1 << 29
	orderKiller0     int32 = 1<<28 + 1
	orderKiller1     int32 = 1 << 28
	orderBadCapture  int32 = 1 << 26
)

// historyFrom widens the from-square index so drops get their own
// history rows behind the 81 board squares.
func historyFrom(m move.Move) int {
	if m.IsDrop() {
		return board.NumSquares + int(m.DropPiece())
	}
	return int(m.From())
}

const historyLimit = 1 << 20

func (w *worker) historyScore(m move.Move) int32 {
	return w.history[w.pos.SideToMove()][historyFrom(m)][m.To()]
}

// creditCutoff rewards the move that refuted the node and taxes the
// quiets tried before it, so later siblings sort it up front.
func (w *worker) creditCutoff(m move.Move, ply, depth int, tried []move.Move) {
	if w.pos.PieceAt(m.To()) != board.NoPiece && !m.IsDrop() {
		return // captures order themselves by value
	}
	if w.killers[ply][0] != m {
		w.killers[ply][1] = w.killers[ply][0]
		w.killers[ply][0] = m
	}

	us := w.pos.SideToMove()
	bonus := int32(depth * depth)
	w.bumpHistory(us, m, bonus)
	for _, q := range tried {
		if q != m {
			w.bumpHistory(us, q, -bonus)
		}
	}
}

func (w *worker) bumpHistory(us board.Color, m move.Move, by int32) {
	h := &w.history[us][historyFrom(m)][m.To()]
	*h += by
	if *h > historyLimit || *h < -historyLimit {
		w.ageHistory()
	}
}

func (w *worker) ageHistory() {
	for c := range w.history {
		for f := range w.history[c] {
			for t := range w.history[c][f] {
				w.history[c][f][t] /= 2
			}
		}
	}
}

// scoreMoves fills scores for moves so pickNext can surface the most
// promising candidate first.
func (w *worker) scoreMoves(moves []move.Move, scores []int32, hashMove move.Move, ply int) {
	for i, m := range moves {
		scores[i] = w.scoreMove(m, hashMove, ply)
	}
}

func (w *worker) scoreMove(m move.Move, hashMove move.Move, ply int) int32 {
	if m == hashMove {
		return orderHash
	}
	if victim := w.pos.PieceAt(m.To()); victim != board.NoPiece {
		see := SEE(w.pos, m)
		if see < 0 {
			return orderBadCapture + see
		}
		attacker := board.Pawn
		if !m.IsDrop() {
			attacker = w.pos.PieceAt(m.From()).Type()
		}
		return orderGoodCapture + evaluation.Value(victim.Type())*16 - evaluation.Value(attacker)
	}
	switch m {
	case w.killers[ply][0]:
		return orderKiller0
	case w.killers[ply][1]:
		return orderKiller1
	}
	return w.historyScore(m)
}

// pickNext moves the best remaining candidate to position i and
// returns it, a selection sort paid one element per call since a
// cutoff usually ends the scan early.
func pickNext(moves []move.Move, scores []int32, i int) move.Move {
	best := i
	for j := i + 1; j < len(moves); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	moves[i], moves[best] = moves[best], moves[i]
	scores[i], scores[best] = scores[best], scores[i]
	return moves[i]
}
