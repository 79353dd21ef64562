// Package movegen generates legal shogi moves: board moves with their
// promotion options, and drops screened by the two-pawns-per-file rule,
// the dead-piece drop bans, and the pawn-drop-mate rule.
package movegen

import (
	"fmt"

	"github.com/fgantt/shogi-ui-sub004/bitboard"
	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/position"
)

// MaxMoves bounds the move list of any legal position; the known maximum
// is 593.
const MaxMoves = 600

// PseudoLegal appends every pseudo-legal move for the side to move to buf
// and returns it. King safety is not checked.
func PseudoLegal(p *position.Position, buf []move.Move) []move.Move {
	us := p.SideToMove()
	own := p.ByColor(us)
	occ := p.Occupied()
	buf = boardMoves(p, us, own, occ, buf)
	return drops(p, us, occ, buf)
}

func boardMoves(p *position.Position, us board.Color, own, occ bitboard.Bitboard, buf []move.Move) []move.Move {
	for pt := board.Pawn; pt < board.PieceTypeArraySize; pt++ {
		pieces := p.Pieces(us, pt)
		for it := pieces.Iter(); ; {
			f, ok := it.Next()
			if !ok {
				break
			}
			from := board.Square(f)
			fromZone := board.InPromotionZone(us, from)
			att := board.Attacks(us, pt, from, occ).AndNot(own)
			for at := att.Iter(); ; {
				tsq, ok := at.Next()
				if !ok {
					break
				}
				to := board.Square(tsq)
				if pt.CanPromote() && (fromZone || board.InPromotionZone(us, to)) {
					buf = append(buf, move.New(from, to, true))
				}
				if !board.MustPromote(pt, us, to) {
					buf = append(buf, move.New(from, to, false))
				}
			}
		}
	}
	return buf
}

func drops(p *position.Position, us board.Color, occ bitboard.Bitboard, buf []move.Move) []move.Move {
	if p.HandEmpty(us) {
		return buf
	}
	empty := occ.Not()
	for _, pt := range board.HandPieceTypes {
		if p.HandCount(us, pt) == 0 {
			continue
		}
		targets := empty.And(board.DropZone(us, pt))
		if pt == board.Pawn {
			targets = targets.And(pawnDropFiles(p, us))
		}
		for it := targets.Iter(); ; {
			tsq, ok := it.Next()
			if !ok {
				break
			}
			buf = append(buf, move.NewDrop(pt, board.Square(tsq)))
		}
	}
	return buf
}

// pawnDropFiles returns the files holding none of us's unpromoted pawns.
func pawnDropFiles(p *position.Position, us board.Color) bitboard.Bitboard {
	pawns := p.Pieces(us, board.Pawn)
	var b bitboard.Bitboard
	for f := 0; f < 9; f++ {
		if !pawns.Intersects(board.FileMasks[f]) {
			b = b.Or(board.FileMasks[f])
		}
	}
	return b
}

// Captures appends the quiescence move set: every capture and every
// promotion. Drops are quiet by definition and excluded. Moves are
// pseudo-legal; callers screen king safety after making them.
func Captures(p *position.Position, buf []move.Move) []move.Move {
	us := p.SideToMove()
	own := p.ByColor(us)
	enemy := p.ByColor(us.Other())
	occ := p.Occupied()
	for pt := board.Pawn; pt < board.PieceTypeArraySize; pt++ {
		pieces := p.Pieces(us, pt)
		for it := pieces.Iter(); ; {
			f, ok := it.Next()
			if !ok {
				break
			}
			from := board.Square(f)
			fromZone := board.InPromotionZone(us, from)
			att := board.Attacks(us, pt, from, occ).AndNot(own)
			for at := att.Iter(); ; {
				tsq, ok := at.Next()
				if !ok {
					break
				}
				to := board.Square(tsq)
				promotable := pt.CanPromote() && (fromZone || board.InPromotionZone(us, to))
				if promotable {
					buf = append(buf, move.New(from, to, true))
				}
				if enemy.Has(tsq) && !board.MustPromote(pt, us, to) {
					buf = append(buf, move.New(from, to, false))
				}
			}
		}
	}
	return buf
}

// Legal returns the legal moves for the side to move, reusing buf's
// backing storage.
func Legal(p *position.Position, buf []move.Move) []move.Move {
	pseudo := PseudoLegal(p, buf[:0])
	us := p.SideToMove()
	legal := pseudo[:0]
	for _, m := range pseudo {
		if !leavesKingSafe(p, us, m) {
			continue
		}
		if m.IsDrop() && m.DropPiece() == board.Pawn && isPawnDropMate(p, m) {
			continue
		}
		legal = append(legal, m)
	}
	return legal
}

// HasLegal reports whether the side to move has at least one legal move.
func HasLegal(p *position.Position) bool {
	var buf [MaxMoves]move.Move
	pseudo := PseudoLegal(p, buf[:0])
	us := p.SideToMove()
	for _, m := range pseudo {
		if !leavesKingSafe(p, us, m) {
			continue
		}
		if m.IsDrop() && m.DropPiece() == board.Pawn && isPawnDropMate(p, m) {
			continue
		}
		return true
	}
	return false
}

func leavesKingSafe(p *position.Position, us board.Color, m move.Move) bool {
	u := p.MakeMove(m)
	safe := !p.KingAttacked(us)
	p.UnmakeMove(u)
	return safe
}

// isPawnDropMate simulates the pawn drop and reports whether it delivers
// an immediate mate, which the rules forbid. Replies are screened for
// king safety only.
func isPawnDropMate(p *position.Position, m move.Move) bool {
	u := p.MakeMove(m)
	them := p.SideToMove()
	mate := false
	if p.KingAttacked(them) {
		mate = !hasSafeReply(p, them)
	}
	p.UnmakeMove(u)
	return mate
}

func hasSafeReply(p *position.Position, us board.Color) bool {
	var buf [MaxMoves]move.Move
	for _, m := range PseudoLegal(p, buf[:0]) {
		if leavesKingSafe(p, us, m) {
			return true
		}
	}
	return false
}

// FindUSI parses USI move text and validates it against p's legal moves.
// On error the position is untouched.
func FindUSI(p *position.Position, s string) (move.Move, error) {
	m, err := move.Parse(s)
	if err != nil {
		return move.MoveNone, err
	}
	var buf [MaxMoves]move.Move
	for _, lm := range Legal(p, buf[:0]) {
		if lm == m {
			return m, nil
		}
	}
	return move.MoveNone, fmt.Errorf("illegal move %q", s)
}
