// Package move defines the packed move representation and USI move
// notation.
package move

import (
	"fmt"
	"strings"

	"github.com/fgantt/shogi-ui-sub004/board"
)

// Move is a shogi move packed into 32 bits:
//
//	bits 0-6   destination square
//	bits 7-13  origin square, or dropOrigin for drops
//	bit  14    promotion
//	bits 15-18 dropped piece kind (Pawn through Rook), zero for board moves
//
// The zero value MoveNone is used as a sentinel and is never a legal move.
type Move uint32

// MoveNone is the absent move.
const MoveNone Move = 0

const dropOrigin = 0x7f

// New builds a board move.
func New(from, to board.Square, promote bool) Move {
	m := Move(to) | Move(from)<<7
	if promote {
		m |= 1 << 14
	}
	return m
}

// NewDrop builds a drop of piece kind pt onto to.
func NewDrop(pt board.PieceType, to board.Square) Move {
	return Move(to) | dropOrigin<<7 | Move(pt)<<15
}

// To returns the destination square.
func (m Move) To() board.Square { return board.Square(m & 0x7f) }

// From returns the origin square, or board.NoSquare for drops.
func (m Move) From() board.Square {
	f := m >> 7 & 0x7f
	if f == dropOrigin {
		return board.NoSquare
	}
	return board.Square(f)
}

// IsDrop reports whether m is a drop.
func (m Move) IsDrop() bool { return m>>7&0x7f == dropOrigin }

// Promotes reports whether m promotes the moving piece.
func (m Move) Promotes() bool { return m&(1<<14) != 0 }

// DropPiece returns the dropped piece kind, or NoPieceType for board moves.
func (m Move) DropPiece() board.PieceType { return board.PieceType(m >> 15 & 0xf) }

// String renders the move in USI notation: "7g7f", "8h2b+", or "P*5e".
func (m Move) String() string {
	if m == MoveNone {
		return "none"
	}
	if m.IsDrop() {
		return fmt.Sprintf("%s*%s", m.DropPiece(), m.To())
	}
	s := m.From().String() + m.To().String()
	if m.Promotes() {
		s += "+"
	}
	return s
}

// Parse parses USI move notation. The result is purely syntactic; legality
// is the position layer's concern.
func Parse(s string) (Move, error) {
	if i := strings.IndexByte(s, '*'); i >= 0 {
		if i != 1 {
			return MoveNone, fmt.Errorf("bad drop %q", s)
		}
		pt, err := board.ParsePieceTypeLetter(s[0])
		if err != nil || pt == board.King {
			return MoveNone, fmt.Errorf("bad drop piece in %q", s)
		}
		to, err := board.ParseSquare(s[2:])
		if err != nil {
			return MoveNone, fmt.Errorf("bad drop target in %q", s)
		}
		return NewDrop(pt, to), nil
	}

	promote := false
	if strings.HasSuffix(s, "+") {
		promote = true
		s = s[:len(s)-1]
	}
	if len(s) != 4 {
		return MoveNone, fmt.Errorf("bad move %q", s)
	}
	from, err := board.ParseSquare(s[:2])
	if err != nil {
		return MoveNone, fmt.Errorf("bad origin in %q", s)
	}
	to, err := board.ParseSquare(s[2:])
	if err != nil {
		return MoveNone, fmt.Errorf("bad destination in %q", s)
	}
	return New(from, to, promote), nil
}
