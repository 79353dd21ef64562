// Package zobrist supplies the random keys behind the incremental position
// hash. The key tables are built lazily on first use and are read-only
// afterward, so they may be shared freely across search threads.
package zobrist

import (
	"sync"

	"lukechampine.com/frand"

	"github.com/fgantt/shogi-ui-sub004/board"
)

const bignum = 1<<63 - 2

// maxHandCount is the most pieces of one kind a hand can hold (all
// eighteen pawns).
const maxHandCount = 18

type keyTables struct {
	pieces [board.ColorArraySize][board.PieceTypeArraySize][board.NumSquares]uint64
	hands  [board.ColorArraySize][8][maxHandCount + 1]uint64
	side   uint64
}

var (
	once sync.Once
	k    keyTables
)

func initKeys() {
	for c := range k.pieces {
		for pt := range k.pieces[c] {
			for sq := range k.pieces[c][pt] {
				k.pieces[c][pt][sq] = frand.Uint64n(bignum) + 1
			}
		}
	}
	for c := range k.hands {
		for pt := range k.hands[c] {
			// a count of zero contributes nothing to the hash
			for n := 1; n <= maxHandCount; n++ {
				k.hands[c][pt][n] = frand.Uint64n(bignum) + 1
			}
		}
	}
	k.side = frand.Uint64n(bignum) + 1
}

func ensure() { once.Do(initKeys) }

// Piece returns the key for a piece of kind pt and color c standing on sq.
func Piece(c board.Color, pt board.PieceType, sq board.Square) uint64 {
	ensure()
	return k.pieces[c][pt][sq]
}

// Hand returns the key for color c holding n pieces of kind pt. A count of
// zero maps to zero, so empty hands never perturb the hash.
func Hand(c board.Color, pt board.PieceType, n int) uint64 {
	ensure()
	return k.hands[c][pt][n]
}

// Side returns the key XORed into the hash whenever it is white's move.
func Side() uint64 {
	ensure()
	return k.side
}
