package movegen

import (
	"testing"

	"github.com/matryer/is"

	"github.com/fgantt/shogi-ui-sub004/position"
)

// Published perft counts for the start position.
var startPerft = []uint64{1, 30, 900, 25470, 719731}

func TestPerftStartpos(t *testing.T) {
	is := is.New(t)
	p := position.New()
	for depth, want := range startPerft {
		is.Equal(Perft(p, depth), want)
	}
	// The tree must be walked without disturbing the position.
	is.Equal(p.SFEN(), position.StartSFEN)
}

func TestPerftStartposDepth5(t *testing.T) {
	if testing.Short() {
		t.Skip("depth-5 perft takes a while")
	}
	is := is.New(t)
	p := position.New()
	is.Equal(Perft(p, 5), uint64(19861490))
}

func TestDivideSumsToPerft(t *testing.T) {
	is := is.New(t)
	p := position.New()
	div := Divide(p, 2)
	is.Equal(len(div), 30)

	var total uint64
	for _, n := range div {
		total += n
	}
	is.Equal(total, uint64(900))
}
