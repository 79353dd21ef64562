// Package bitboard implements an 81-square occupancy set over two machine
// words, with interchangeable bit-scanning kernels selected at startup.
package bitboard

import "strings"

// NumSquares is the number of squares on a 9x9 board.
const NumSquares = 81

// hiMask covers the 17 squares (64..80) that live in the high word.
const hiMask = uint64(1)<<(NumSquares-64) - 1

// A Bitboard is a set of board squares. Square indexes 0 through 63 live in
// Lo, 64 through 80 in Hi. The zero value is the empty set.
type Bitboard struct {
	Lo uint64
	Hi uint64
}

// Full contains every square on the board.
var Full = Bitboard{Lo: ^uint64(0), Hi: hiMask}

// Bit returns a bitboard containing only sq.
func Bit(sq int) Bitboard {
	if sq < 64 {
		return Bitboard{Lo: uint64(1) << uint(sq)}
	}
	return Bitboard{Hi: uint64(1) << uint(sq-64)}
}

// FromSquares returns a bitboard containing exactly the given squares.
func FromSquares(sqs ...int) Bitboard {
	var b Bitboard
	for _, sq := range sqs {
		b.Set(sq)
	}
	return b
}

// And returns the intersection of b and o.
func (b Bitboard) And(o Bitboard) Bitboard {
	return Bitboard{Lo: b.Lo & o.Lo, Hi: b.Hi & o.Hi}
}

// Or returns the union of b and o.
func (b Bitboard) Or(o Bitboard) Bitboard {
	return Bitboard{Lo: b.Lo | o.Lo, Hi: b.Hi | o.Hi}
}

// Xor returns the symmetric difference of b and o.
func (b Bitboard) Xor(o Bitboard) Bitboard {
	return Bitboard{Lo: b.Lo ^ o.Lo, Hi: b.Hi ^ o.Hi}
}

// AndNot returns the squares of b not in o.
func (b Bitboard) AndNot(o Bitboard) Bitboard {
	return Bitboard{Lo: b.Lo &^ o.Lo, Hi: b.Hi &^ o.Hi}
}

// Not returns the complement of b within the board.
func (b Bitboard) Not() Bitboard {
	return Bitboard{Lo: ^b.Lo, Hi: ^b.Hi & hiMask}
}

// IsEmpty reports whether b contains no squares.
func (b Bitboard) IsEmpty() bool { return b.Lo == 0 && b.Hi == 0 }

// Intersects reports whether b and o share at least one square.
func (b Bitboard) Intersects(o Bitboard) bool {
	return b.Lo&o.Lo != 0 || b.Hi&o.Hi != 0
}

// Has reports whether sq is in b.
func (b Bitboard) Has(sq int) bool {
	if sq < 64 {
		return b.Lo&(uint64(1)<<uint(sq)) != 0
	}
	return b.Hi&(uint64(1)<<uint(sq-64)) != 0
}

// Set adds sq to b.
func (b *Bitboard) Set(sq int) {
	if sq < 64 {
		b.Lo |= uint64(1) << uint(sq)
	} else {
		b.Hi |= uint64(1) << uint(sq-64)
	}
}

// Clear removes sq from b.
func (b *Bitboard) Clear(sq int) {
	if sq < 64 {
		b.Lo &^= uint64(1) << uint(sq)
	} else {
		b.Hi &^= uint64(1) << uint(sq-64)
	}
}

// Count returns the number of squares in b.
func (b Bitboard) Count() int {
	return active.popCount(b.Lo) + active.popCount(b.Hi)
}

// First returns the lowest square in b, or ok=false if b is empty.
func (b Bitboard) First() (sq int, ok bool) {
	if b.Lo != 0 {
		return active.forward(b.Lo), true
	}
	if b.Hi != 0 {
		return 64 + active.forward(b.Hi), true
	}
	return 0, false
}

// Last returns the highest square in b, or ok=false if b is empty.
func (b Bitboard) Last() (sq int, ok bool) {
	if b.Hi != 0 {
		return 64 + active.backward(b.Hi), true
	}
	if b.Lo != 0 {
		return active.backward(b.Lo), true
	}
	return 0, false
}

// Pop removes and returns the lowest square in b. b must not be empty.
func (b *Bitboard) Pop() int {
	if b.Lo != 0 {
		sq := active.forward(b.Lo)
		b.Lo &= b.Lo - 1
		return sq
	}
	sq := active.forward(b.Hi)
	b.Hi &= b.Hi - 1
	return 64 + sq
}

// An Iterator walks a bitboard's squares in ascending order. It holds its
// own copy of the bitboard and never allocates.
type Iterator struct{ bb Bitboard }

// Iter returns a forward iterator over b's squares.
func (b Bitboard) Iter() Iterator { return Iterator{bb: b} }

// Next returns the next square, or ok=false when the iterator is exhausted.
func (it *Iterator) Next() (sq int, ok bool) {
	if it.bb.IsEmpty() {
		return 0, false
	}
	return it.bb.Pop(), true
}

// A ReverseIterator walks a bitboard's squares in descending order.
type ReverseIterator struct{ bb Bitboard }

// ReverseIter returns a reverse iterator over b's squares.
func (b Bitboard) ReverseIter() ReverseIterator { return ReverseIterator{bb: b} }

// Next returns the next square, or ok=false when the iterator is exhausted.
func (it *ReverseIterator) Next() (sq int, ok bool) {
	sq, ok = it.bb.Last()
	if !ok {
		return 0, false
	}
	it.bb.Clear(sq)
	return sq, true
}

// String renders b as nine rows, rank a at the top, file 9 on the left,
// matching diagram orientation.
func (b Bitboard) String() string {
	var sb strings.Builder
	for r := 0; r < 9; r++ {
		for f := 8; f >= 0; f-- {
			if b.Has(r*9 + f) {
				sb.WriteByte('x')
			} else {
				sb.WriteByte('.')
			}
			if f > 0 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
