package evaluation

import (
	"github.com/fgantt/shogi-ui-sub004/bitboard"
	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/position"
)

// Term is one named component of the evaluation, as the Black minus
// White score pair before phase interpolation.
type Term struct {
	Name  string
	Score Score
}

// Breakdown recomputes the evaluation term by term for display. The
// term pairs sum to the exact pair Balance interpolates; sideScore
// fuses the same terms into one board pass, so changes there must land
// here too.
func Breakdown(p *position.Position) []Term {
	occ := p.Occupied()
	side := func(f func(board.Color) Score) Score {
		return f(board.Black).Sub(f(board.White))
	}
	return []Term{
		{"material", side(func(c board.Color) Score { return materialSide(p, c) })},
		{"placement", side(func(c board.Color) Score { return placementSide(p, c) })},
		{"mobility", side(func(c board.Color) Score { return mobilitySide(p, c, occ) })},
		{"pawn structure", side(func(c board.Color) Score { return pawnStructure(p, c) })},
		{"king safety", side(func(c board.Color) Score { return kingSafety(p, c, occ) })},
		{"coordination", side(func(c board.Color) Score { return coordination(p, c, occ) })},
	}
}

func materialSide(p *position.Position, us board.Color) Score {
	var s Score
	for pt := board.Pawn; pt < board.PieceTypeArraySize; pt++ {
		if n := p.Pieces(us, pt).Count(); n > 0 {
			s = s.Add(pieceScore[pt].Scale(int32(n)))
		}
	}
	for _, pt := range board.HandPieceTypes {
		if n := p.HandCount(us, pt); n > 0 {
			s = s.Add(handScore[pt].Scale(int32(n)))
		}
	}
	return s
}

func placementSide(p *position.Position, us board.Color) Score {
	var s Score
	for pt := board.Pawn; pt < board.PieceTypeArraySize; pt++ {
		for it := p.Pieces(us, pt).Iter(); ; {
			sqi, ok := it.Next()
			if !ok {
				break
			}
			s = s.Add(pst(us, pt, board.Square(sqi)))
		}
	}
	return s
}

func mobilitySide(p *position.Position, us board.Color, occ bitboard.Bitboard) Score {
	var s Score
	own := p.ByColor(us)
	for pt := board.Pawn; pt < board.PieceTypeArraySize; pt++ {
		w := mobilityWeight(pt)
		if w == (Score{}) {
			continue
		}
		for it := p.Pieces(us, pt).Iter(); ; {
			sqi, ok := it.Next()
			if !ok {
				break
			}
			sq := board.Square(sqi)
			reach := board.Attacks(us, pt, sq, occ).AndNot(own).Count()
			s = s.Add(w.Scale(int32(reach)))
		}
	}
	return s
}
