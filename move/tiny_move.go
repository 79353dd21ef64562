package move

import "github.com/fgantt/shogi-ui-sub004/board"

// TinyMove is a Move compressed to 16 bits for transposition-table
// entries:
//
//	bits 0-6  destination square
//	bits 7-13 origin square, with drops encoded as 81 + piece kind
//	bit  14   promotion
type TinyMove uint16

// TinyMoveNone is the absent move.
const TinyMoveNone TinyMove = 0

// Tiny compresses m. The compression is lossless: m.Tiny().Full() == m for
// any legal move.
func (m Move) Tiny() TinyMove {
	if m.IsDrop() {
		return TinyMove(m&0x7f) | TinyMove(81+int(m.DropPiece()))<<7
	}
	return TinyMove(m & 0x7fff)
}

// Full expands a TinyMove back into a Move.
func (t TinyMove) Full() Move {
	if t == TinyMoveNone {
		return MoveNone
	}
	from := int(t >> 7 & 0x7f)
	if from > 80 {
		return NewDrop(board.PieceType(from-81), board.Square(t&0x7f))
	}
	return Move(t & 0x7fff)
}
