package position

import (
	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/zobrist"
)

// Undo is the token MakeMove returns; handing it back to UnmakeMove
// restores the previous state bit for bit, including the hash.
type Undo struct {
	Move     move.Move
	captured board.Piece
	hash     uint64
}

// Captured returns the piece the move removed from the board, or NoPiece.
func (u Undo) Captured() board.Piece { return u.captured }

// MakeMove applies m, which must be legal for the side to move. The hash
// is maintained incrementally, never recomputed.
func (p *Position) MakeMove(m move.Move) Undo {
	u := Undo{Move: m, hash: p.hash}
	us := p.stm

	if m.IsDrop() {
		pt := m.DropPiece()
		n := int(p.hands[us][pt])
		p.hash ^= zobrist.Hand(us, pt, n) ^ zobrist.Hand(us, pt, n-1)
		p.hands[us][pt]--
		p.putPiece(us, pt, m.To())
		p.hash ^= zobrist.Piece(us, pt, m.To())
	} else {
		from, to := m.From(), m.To()
		pt := p.squares[from].Type()

		if cap := p.squares[to]; cap != board.NoPiece {
			u.captured = cap
			capPt := cap.Type()
			p.removePiece(to)
			p.hash ^= zobrist.Piece(us.Other(), capPt, to)

			base := capPt.Demoted()
			n := int(p.hands[us][base])
			p.hash ^= zobrist.Hand(us, base, n) ^ zobrist.Hand(us, base, n+1)
			p.hands[us][base]++
		}

		p.removePiece(from)
		p.hash ^= zobrist.Piece(us, pt, from)
		placed := pt
		if m.Promotes() {
			placed = pt.Promoted()
		}
		p.putPiece(us, placed, to)
		p.hash ^= zobrist.Piece(us, placed, to)
	}

	p.stm = us.Other()
	p.hash ^= zobrist.Side()
	p.moveNum++
	return u
}

// UnmakeMove reverses the most recent MakeMove given its token.
func (p *Position) UnmakeMove(u Undo) {
	p.stm = p.stm.Other()
	us := p.stm
	p.moveNum--
	m := u.Move

	if m.IsDrop() {
		p.removePiece(m.To())
		p.hands[us][m.DropPiece()]++
	} else {
		placed := p.squares[m.To()].Type()
		p.removePiece(m.To())
		orig := placed
		if m.Promotes() {
			orig = placed.Demoted()
		}
		p.putPiece(us, orig, m.From())
		if u.captured != board.NoPiece {
			p.putPiece(us.Other(), u.captured.Type(), m.To())
			p.hands[us][u.captured.Type().Demoted()]--
		}
	}
	p.hash = u.hash
}

// NullUndo restores state after a null move.
type NullUndo struct{ hash uint64 }

// MakeNullMove passes the turn without touching the board, for null-move
// pruning.
func (p *Position) MakeNullMove() NullUndo {
	u := NullUndo{hash: p.hash}
	p.stm = p.stm.Other()
	p.hash ^= zobrist.Side()
	return u
}

// UnmakeNullMove reverses MakeNullMove.
func (p *Position) UnmakeNullMove(u NullUndo) {
	p.stm = p.stm.Other()
	p.hash = u.hash
}
