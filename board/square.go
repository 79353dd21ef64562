// Package board defines the square, color, and piece vocabulary for a 9x9
// shogi board, plus the precomputed attack geometry used by move generation
// and evaluation.
package board

import (
	"fmt"

	"github.com/fgantt/shogi-ui-sub004/bitboard"
)

// NumSquares is the number of squares on the board.
const NumSquares = 81

// Square identifies a board square as rank*9 + file. File 0 is USI file
// '1', rank 0 is USI rank 'a' (the white home rank). Black moves toward
// rank 0.
type Square int

// NoSquare marks the absence of a square (for example the origin of a
// drop).
const NoSquare Square = -1

// NewSquare builds a square from zero-based file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*9 + file)
}

// File returns the zero-based file (USI file minus one).
func (sq Square) File() int { return int(sq) % 9 }

// Rank returns the zero-based rank (0 for rank 'a').
func (sq Square) Rank() int { return int(sq) / 9 }

// Flip returns the square after a 180 degree rotation of the board.
func (sq Square) Flip() Square { return NumSquares - 1 - sq }

// Bit returns the bitboard containing only sq.
func (sq Square) Bit() bitboard.Bitboard { return bitboard.Bit(int(sq)) }

// String renders the square in USI notation, e.g. "7g".
func (sq Square) String() string {
	if sq == NoSquare {
		return "-"
	}
	return fmt.Sprintf("%d%c", sq.File()+1, rune('a'+sq.Rank()))
}

// ParseSquare parses USI square notation such as "7g".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < '1' || s[0] > '9' || s[1] < 'a' || s[1] > 'i' {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	return NewSquare(int(s[0]-'1'), int(s[1]-'a')), nil
}

// Color identifies a player. Black (sente) moves first.
type Color int

const (
	Black Color = iota
	White
	// ColorArraySize sizes arrays indexed by Color.
	ColorArraySize
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}
