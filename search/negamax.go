package search

import (
	"errors"

	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/evaluation"
	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/movegen"
)

// errStopped unwinds the in-flight iteration when the budget expires
// or a stop arrives. Every path unmakes its move before passing the
// error up, so the worker's position is back at the root by the time
// the driver sees it.
var errStopped = errors.New("search stopped")

const (
	stopCheckMask   = 2047
	nullVerifyDepth = 5
	nullFailLimit   = 3
)

func (w *worker) checkStop() error {
	if w.stats.Nodes&stopCheckMask == 0 && w.stop.Load() {
		return errStopped
	}
	return nil
}

func (w *worker) negamax(depth, ply int, alpha, beta int32, nullAllowed bool) (int32, error) {
	w.pv.clear(ply)
	w.stats.Nodes++
	if err := w.checkStop(); err != nil {
		return 0, err
	}
	if ply >= maxPly-1 {
		return evaluation.Evaluate(w.pos), nil
	}

	inCheck := w.pos.InCheck()
	if inCheck {
		depth++
	}
	if depth <= 0 {
		return w.quiesce(ply, alpha, beta)
	}

	alphaOrig := alpha

	var hashMove move.Move
	w.stats.TTProbes++
	if e, ok := w.ttable.Probe(w.pos.Hash()); ok {
		w.stats.TTHits++
		hashMove = e.Move.Full()
		if e.Depth >= depth {
			score := scoreFromTT(e.Score, ply)
			hit := e.Flag == BoundExact ||
				(e.Flag == BoundLower && score >= beta) ||
				(e.Flag == BoundUpper && score <= alpha)
			if hit {
				w.stats.TTCutoffs++
				return score, nil
			}
		}
	}

	if nullAllowed && !inCheck && w.nullOK(depth, beta) {
		w.stats.NullTried++
		r := w.settings.NullMoveReduction
		if r == 0 {
			r = 2 + depth/6
		}
		nu := w.pos.MakeNullMove()
		v, err := w.negamax(depth-1-r, ply+1, -beta, -beta+1, false)
		w.pos.UnmakeNullMove(nu)
		if err != nil {
			return 0, err
		}
		v = -v
		if v >= beta {
			cut := true
			if depth >= nullVerifyDepth {
				cut, err = w.verifyNull(depth-1-r, ply, beta)
				if err != nil {
					return 0, err
				}
			}
			if cut {
				w.stats.NullCutoffs++
				return beta, nil
			}
		}
	}

	moves := movegen.Legal(w.pos, w.moveBuf(ply))
	if len(moves) == 0 {
		return matedIn(ply), nil
	}
	scores := w.scoreBuf(ply, len(moves))
	w.scoreMoves(moves, scores, hashMove, ply)

	quiets := w.quietBuf(ply)
	best := -scoreInfinity
	var bestMove move.Move
	for i := range moves {
		m := pickNext(moves, scores, i)
		quiet := m.IsDrop() || w.pos.PieceAt(m.To()) == board.NoPiece
		u := w.pos.MakeMove(m)
		v, err := w.negamax(depth-1, ply+1, -beta, -alpha, true)
		w.pos.UnmakeMove(u)
		if err != nil {
			return 0, err
		}
		v = -v
		if v > best {
			best = v
			bestMove = m
			if v > alpha {
				alpha = v
				w.pv.adopt(ply, m)
				if alpha >= beta {
					w.stats.Cutoffs++
					w.creditCutoff(m, ply, depth, quiets)
					break
				}
			}
		}
		if quiet {
			quiets = append(quiets, m)
		}
	}

	flag := BoundExact
	switch {
	case best <= alphaOrig:
		flag = BoundUpper
	case best >= beta:
		flag = BoundLower
	}
	w.ttw.Store(w.pos.Hash(), Entry{
		Move:  bestMove.Tiny(),
		Score: scoreToTT(best, ply),
		Flag:  flag,
		Depth: depth,
	})
	return best, nil
}

// nullOK gates null-move pruning: enabled, not already distrusted this
// search, deep enough, not chasing a mate bound, and enough non-pawn
// material that passing the turn is unlikely to be the best move.
func (w *worker) nullOK(depth int, beta int32) bool {
	s := w.settings
	return s.NullMove &&
		!w.nullDisabled &&
		depth >= s.NullMoveMinDepth &&
		beta < scoreWin &&
		nonPawnCount(w.pos, w.pos.SideToMove()) >= s.MinorsForNull
}

// verifyNull re-searches the node at the reduced depth without the
// null move. A fail-low means the null result was unstable; after
// nullFailLimit of those the worker stops trusting null pruning for
// the rest of the search.
func (w *worker) verifyNull(depth, ply int, beta int32) (bool, error) {
	if depth < 1 {
		depth = 1
	}
	v, err := w.negamax(depth, ply, beta-1, beta, false)
	if err != nil {
		return false, err
	}
	if v >= beta {
		return true, nil
	}
	w.stats.NullVerifyFails++
	w.nullFails++
	if w.nullFails >= nullFailLimit {
		w.nullDisabled = true
	}
	return false, nil
}

func (w *worker) quiesce(ply int, alpha, beta int32) (int32, error) {
	w.pv.clear(ply)
	w.stats.Nodes++
	w.stats.QNodes++
	if err := w.checkStop(); err != nil {
		return 0, err
	}
	if ply > w.stats.SelDepth {
		w.stats.SelDepth = ply
	}
	if ply >= maxPly-1 {
		return evaluation.Evaluate(w.pos), nil
	}

	if w.pos.InCheck() {
		return w.quiesceEvasions(ply, alpha, beta)
	}

	stand := evaluation.Evaluate(w.pos)
	if stand >= beta {
		return stand, nil
	}
	if stand > alpha {
		alpha = stand
	}
	best := stand

	us := w.pos.SideToMove()
	moves := movegen.Captures(w.pos, w.moveBuf(ply))
	scores := w.scoreBuf(ply, len(moves))
	w.scoreNoisy(moves, scores)
	for i := range moves {
		m := pickNext(moves, scores, i)
		if scores[i] < orderBadCapture {
			break // losing exchanges are not worth resolving here
		}
		u := w.pos.MakeMove(m)
		if w.pos.KingAttacked(us) {
			w.pos.UnmakeMove(u)
			continue
		}
		v, err := w.quiesce(ply+1, -beta, -alpha)
		w.pos.UnmakeMove(u)
		if err != nil {
			return 0, err
		}
		v = -v
		if v > best {
			best = v
			if v > alpha {
				alpha = v
				w.pv.adopt(ply, m)
				if alpha >= beta {
					break
				}
			}
		}
	}
	return best, nil
}

// quiesceEvasions searches the full reply set when the side to move is
// in check; standing pat is not an option there.
func (w *worker) quiesceEvasions(ply int, alpha, beta int32) (int32, error) {
	moves := movegen.Legal(w.pos, w.moveBuf(ply))
	if len(moves) == 0 {
		return matedIn(ply), nil
	}
	scores := w.scoreBuf(ply, len(moves))
	w.scoreMoves(moves, scores, move.MoveNone, ply)

	best := -scoreInfinity
	for i := range moves {
		m := pickNext(moves, scores, i)
		u := w.pos.MakeMove(m)
		v, err := w.quiesce(ply+1, -beta, -alpha)
		w.pos.UnmakeMove(u)
		if err != nil {
			return 0, err
		}
		v = -v
		if v > best {
			best = v
			if v > alpha {
				alpha = v
				w.pv.adopt(ply, m)
				if alpha >= beta {
					break
				}
			}
		}
	}
	return best, nil
}

// scoreNoisy orders the quiescence move set: winning captures by
// victim value, then even exchanges and safe promotions, with losing
// exchanges sunk below the cut line.
func (w *worker) scoreNoisy(moves []move.Move, scores []int32) {
	for i, m := range moves {
		see := SEE(w.pos, m)
		if see < 0 {
			scores[i] = orderBadCapture + see
			continue
		}
		victim := w.pos.PieceAt(m.To()).Type()
		attacker := w.pos.PieceAt(m.From()).Type()
		scores[i] = orderGoodCapture + evaluation.Value(victim)*16 - evaluation.Value(attacker)
	}
}
