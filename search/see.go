package search

import (
	"github.com/fgantt/shogi-ui-sub004/bitboard"
	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/evaluation"
	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/position"
)

// seeOrder lists piece types cheapest first, the order in which each
// side feeds attackers into an exchange.
var seeOrder = [...]board.PieceType{
	board.Pawn, board.Lance, board.Knight, board.Silver,
	board.Gold, board.PromotedLance, board.PromotedSilver,
	board.PromotedKnight, board.PromotedPawn,
	board.Bishop, board.Rook, board.Horse, board.Dragon, board.King,
}

// SEE statically scores the exchanges a capture opens on its target
// square, positive when the capture wins material. Promotion gains
// during the sequence are ignored; both sides recapture with their
// cheapest attacker, sliders revealed by earlier captures included.
func SEE(p *position.Position, m move.Move) int32 {
	if m.IsDrop() {
		return 0
	}
	to := m.To()
	occ := p.Occupied()

	var gain [40]int32
	gain[0] = evaluation.Value(p.PieceAt(to).Type())

	attacker := p.PieceAt(m.From()).Type()
	occ.Clear(int(m.From()))
	side := p.SideToMove().Other()

	d := 0
	for {
		att := p.AttackersTo(to, side, occ).And(occ)
		if att.IsEmpty() {
			break
		}
		next, sq := cheapestAttacker(p, side, att)
		d++
		gain[d] = evaluation.Value(attacker) - gain[d-1]
		attacker = next
		occ.Clear(int(sq))
		side = side.Other()
		if d == len(gain)-1 {
			break
		}
	}
	for ; d > 0; d-- {
		if -gain[d] < gain[d-1] {
			gain[d-1] = -gain[d]
		}
	}
	return gain[0]
}

func cheapestAttacker(p *position.Position, c board.Color, att bitboard.Bitboard) (board.PieceType, board.Square) {
	for _, pt := range seeOrder {
		hit := att.And(p.Pieces(c, pt))
		if hit.IsEmpty() {
			continue
		}
		it := hit.Iter()
		sq, _ := it.Next()
		return pt, board.Square(sq)
	}
	it := att.Iter()
	sq, _ := it.Next()
	return board.NoPieceType, board.Square(sq)
}
