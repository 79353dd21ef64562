package position

import (
	"fmt"

	"github.com/fgantt/shogi-ui-sub004/bitboard"
	"github.com/fgantt/shogi-ui-sub004/board"
)

// Validate cross-checks the redundant state a Position carries: the
// square array against the bitboards, king squares, hand bounds, and
// the incremental hash against a recomputation. It is for tests and
// debugging tools, never the search path.
func (p *Position) Validate() error {
	var rebuilt [board.ColorArraySize]bitboard.Bitboard
	for c := board.Black; c <= board.White; c++ {
		var all bitboard.Bitboard
		for pt := board.Pawn; pt < board.PieceTypeArraySize; pt++ {
			bb := p.pieces[c][pt]
			if bb.Intersects(all) {
				return fmt.Errorf("square on two piece bitboards for %v", c)
			}
			all = all.Or(bb)
		}
		if all != p.byColor[c] {
			return fmt.Errorf("byColor[%v] out of sync", c)
		}
		rebuilt[c] = all

		kings := p.pieces[c][board.King]
		switch kings.Count() {
		case 0:
			if p.kings[c] != board.NoSquare {
				return fmt.Errorf("king square set for absent %v king", c)
			}
		case 1:
			it := kings.Iter()
			if sq, _ := it.Next(); board.Square(sq) != p.kings[c] {
				return fmt.Errorf("king square stale for %v", c)
			}
		default:
			return fmt.Errorf("%v has %d kings", c, kings.Count())
		}

		for i, n := range p.hands[c] {
			if n > maxHandCount {
				return fmt.Errorf("hand count %d for %v piece %d out of range", n, c, i)
			}
		}
	}
	if rebuilt[board.Black].Intersects(rebuilt[board.White]) {
		return fmt.Errorf("square occupied by both sides")
	}
	if p.occupied != rebuilt[board.Black].Or(rebuilt[board.White]) {
		return fmt.Errorf("occupied bitboard out of sync")
	}

	for sq := board.Square(0); sq < board.NumSquares; sq++ {
		pc := p.squares[sq]
		if pc == board.NoPiece {
			if p.occupied.Has(int(sq)) {
				return fmt.Errorf("square %v occupied on bitboard, empty in array", sq)
			}
			continue
		}
		if !p.pieces[pc.Color()][pc.Type()].Has(int(sq)) {
			return fmt.Errorf("square %v holds %v, bitboard disagrees", sq, pc)
		}
	}

	q := *p
	q.computeHash()
	if q.hash != p.hash {
		return fmt.Errorf("incremental hash %#x drifted from recomputed %#x", p.hash, q.hash)
	}
	return nil
}
