package evaluation

import (
	"github.com/fgantt/shogi-ui-sub004/bitboard"
	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/position"
)

var (
	tempoBonus    = S(22, 12)
	isolatedPawn  = S(-6, -12)
	phalanxPawn   = S(6, 10)
	shieldPiece   = S(14, 4)
	shieldPawn    = S(10, 2)
	ringAttack    = S(-16, -6)
	cohesionBonus = S(9, 6)
	majorPair     = S(18, 24)
)

func mobilityWeight(pt board.PieceType) Score {
	switch pt {
	case board.Lance:
		return S(3, 4)
	case board.Bishop:
		return S(4, 5)
	case board.Rook:
		return S(5, 6)
	case board.Horse:
		return S(4, 4)
	case board.Dragon:
		return S(5, 5)
	}
	return Score{}
}

// Balance returns the interpolated score from Black's seat, without
// the tempo term. Balance(p) == -Balance(p.Mirrored()) exactly.
func Balance(p *position.Position) int32 {
	s, phase := balance(p)
	return s.Interpolate(phase)
}

// Evaluate returns the score from the side to move's seat, tempo
// included. This is the search's leaf value.
func Evaluate(p *position.Position) int32 {
	s, phase := balance(p)
	v := s.Interpolate(phase)
	if p.SideToMove() == board.White {
		v = -v
	}
	return v + tempoBonus.Interpolate(phase)
}

func balance(p *position.Position) (Score, int32) {
	s := sideScore(p, board.Black).Sub(sideScore(p, board.White))
	return s, Phase(p)
}

func sideScore(p *position.Position, us board.Color) Score {
	var s Score
	occ := p.Occupied()
	own := p.ByColor(us)

	for pt := board.Pawn; pt < board.PieceTypeArraySize; pt++ {
		bb := p.Pieces(us, pt)
		if bb.IsEmpty() {
			continue
		}
		material := pieceScore[pt]
		mobility := mobilityWeight(pt)
		for it := bb.Iter(); ; {
			sqi, ok := it.Next()
			if !ok {
				break
			}
			sq := board.Square(sqi)
			s = s.Add(material).Add(pst(us, pt, sq))
			if mobility != (Score{}) {
				reach := board.Attacks(us, pt, sq, occ).AndNot(own).Count()
				s = s.Add(mobility.Scale(int32(reach)))
			}
		}
	}
	for _, pt := range board.HandPieceTypes {
		if n := p.HandCount(us, pt); n > 0 {
			s = s.Add(handScore[pt].Scale(int32(n)))
		}
	}

	s = s.Add(pawnStructure(p, us))
	s = s.Add(kingSafety(p, us, occ))
	s = s.Add(coordination(p, us, occ))
	return s
}

func pawnStructure(p *position.Position, us board.Color) Score {
	pawns := p.Pieces(us, board.Pawn)
	if pawns.IsEmpty() {
		return Score{}
	}
	var s Score
	for it := pawns.Iter(); ; {
		sqi, ok := it.Next()
		if !ok {
			break
		}
		sq := board.Square(sqi)
		f := sq.File()
		var adjacent bitboard.Bitboard
		if f > 0 {
			adjacent = adjacent.Or(board.FileMasks[f-1])
		}
		if f < 8 {
			adjacent = adjacent.Or(board.FileMasks[f+1])
		}
		support := pawns.And(adjacent)
		if support.IsEmpty() {
			s = s.Add(isolatedPawn)
			continue
		}
		r := sq.Rank()
		near := board.RankMasks[r]
		if r > 0 {
			near = near.Or(board.RankMasks[r-1])
		}
		if r < 8 {
			near = near.Or(board.RankMasks[r+1])
		}
		if support.Intersects(near) {
			s = s.Add(phalanxPawn)
		}
	}
	return s
}

func kingSafety(p *position.Position, us board.Color, occ bitboard.Bitboard) Score {
	ksq := p.King(us)
	if ksq == board.NoSquare {
		return Score{}
	}
	var s Score
	ring := board.KingAttacks(ksq)
	guards := ring.And(p.Pieces(us, board.Gold).Or(p.Pieces(us, board.Silver)))
	s = s.Add(shieldPiece.Scale(int32(guards.Count())))
	s = s.Add(shieldPawn.Scale(int32(ring.And(p.Pieces(us, board.Pawn)).Count())))

	them := us.Other()
	pressure := 0
	for it := ring.Iter(); ; {
		sqi, ok := it.Next()
		if !ok {
			break
		}
		pressure += p.AttackersTo(board.Square(sqi), them, occ).Count()
	}
	if pressure > 8 {
		pressure = 8
	}
	return s.Add(ringAttack.Scale(int32(pressure)))
}

func coordination(p *position.Position, us board.Color, occ bitboard.Bitboard) Score {
	var s Score
	defenders := p.Pieces(us, board.Gold).Or(p.Pieces(us, board.Silver))
	guards := defenders.Or(p.Pieces(us, board.King))
	for it := defenders.Iter(); ; {
		sqi, ok := it.Next()
		if !ok {
			break
		}
		if p.AttackersTo(board.Square(sqi), us, occ).Intersects(guards) {
			s = s.Add(cohesionBonus)
		}
	}
	rooks := p.Pieces(us, board.Rook).Or(p.Pieces(us, board.Dragon))
	bishops := p.Pieces(us, board.Bishop).Or(p.Pieces(us, board.Horse))
	if !rooks.IsEmpty() && !bishops.IsEmpty() {
		s = s.Add(majorPair)
	}
	return s
}
