package movegen

import (
	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/position"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
// It exists to validate move generation against published counts.
func Perft(p *position.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var buf [MaxMoves]move.Move
	moves := Legal(p, buf[:0])
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		u := p.MakeMove(m)
		nodes += Perft(p, depth-1)
		p.UnmakeMove(u)
	}
	return nodes
}

// Divide returns the perft count under each root move, keyed by USI
// text. It is the standard tool for pinning down a generation bug.
func Divide(p *position.Position, depth int) map[string]uint64 {
	var buf [MaxMoves]move.Move
	moves := Legal(p, buf[:0])
	out := make(map[string]uint64, len(moves))
	for _, m := range moves {
		u := p.MakeMove(m)
		out[m.String()] = Perft(p, depth-1)
		p.UnmakeMove(u)
	}
	return out
}
