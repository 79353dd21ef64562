// Package position maintains the full game state: piece placement by
// bitboard and mailbox, the hands, the side to move, and the incremental
// zobrist hash.
package position

import (
	"strings"

	"github.com/fgantt/shogi-ui-sub004/bitboard"
	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/zobrist"
)

// maxHandCount is the most pieces of one kind a hand can hold.
const maxHandCount = 18

// Position is a complete shogi game state. The zero value is an empty
// board; use New or ParseSFEN to obtain playable positions.
type Position struct {
	pieces   [board.ColorArraySize][board.PieceTypeArraySize]bitboard.Bitboard
	byColor  [board.ColorArraySize]bitboard.Bitboard
	occupied bitboard.Bitboard
	squares  [board.NumSquares]board.Piece
	hands    [board.ColorArraySize][8]uint8
	kings    [board.ColorArraySize]board.Square
	stm      board.Color
	hash     uint64
	moveNum  int
}

// New returns the standard starting position.
func New() *Position {
	p, err := ParseSFEN(StartSFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// SideToMove returns the color whose turn it is.
func (p *Position) SideToMove() board.Color { return p.stm }

// Hash returns the running zobrist hash.
func (p *Position) Hash() uint64 { return p.hash }

// MoveNumber returns the SFEN move counter (the number of the next move,
// starting at 1).
func (p *Position) MoveNumber() int { return p.moveNum }

// Pieces returns the bitboard of c's pieces of kind pt.
func (p *Position) Pieces(c board.Color, pt board.PieceType) bitboard.Bitboard {
	return p.pieces[c][pt]
}

// ByColor returns the bitboard of all of c's pieces.
func (p *Position) ByColor(c board.Color) bitboard.Bitboard { return p.byColor[c] }

// Occupied returns the bitboard of all occupied squares.
func (p *Position) Occupied() bitboard.Bitboard { return p.occupied }

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq board.Square) board.Piece { return p.squares[sq] }

// HandCount returns how many pieces of base kind pt color c holds.
func (p *Position) HandCount(c board.Color, pt board.PieceType) int {
	return int(p.hands[c][pt])
}

// HandEmpty reports whether c holds no pieces at all.
func (p *Position) HandEmpty(c board.Color) bool {
	for _, pt := range board.HandPieceTypes {
		if p.hands[c][pt] != 0 {
			return false
		}
	}
	return true
}

// King returns the square of c's king. Only valid when the king is on the
// board; check Pieces(c, King) first in artificial positions.
func (p *Position) King(c board.Color) board.Square { return p.kings[c] }

// Clone returns an independent copy. Position contains no reference types,
// so a shallow copy suffices.
func (p *Position) Clone() *Position {
	q := *p
	return &q
}

func (p *Position) putPiece(c board.Color, pt board.PieceType, sq board.Square) {
	b := sq.Bit()
	p.pieces[c][pt] = p.pieces[c][pt].Or(b)
	p.byColor[c] = p.byColor[c].Or(b)
	p.occupied = p.occupied.Or(b)
	p.squares[sq] = board.NewPiece(c, pt)
	if pt == board.King {
		p.kings[c] = sq
	}
}

func (p *Position) removePiece(sq board.Square) {
	pc := p.squares[sq]
	b := sq.Bit()
	p.pieces[pc.Color()][pc.Type()] = p.pieces[pc.Color()][pc.Type()].AndNot(b)
	p.byColor[pc.Color()] = p.byColor[pc.Color()].AndNot(b)
	p.occupied = p.occupied.AndNot(b)
	p.squares[sq] = board.NoPiece
}

// AttackersTo returns the squares of by's pieces that attack sq under the
// given occupancy. Passing a modified occupancy supports exchange
// evaluation and pin detection.
func (p *Position) AttackersTo(sq board.Square, by board.Color, occ bitboard.Bitboard) bitboard.Bitboard {
	opp := by.Other()
	pcs := &p.pieces[by]

	// a piece on x attacks sq exactly when the same piece of the other
	// color standing on sq would attack x
	a := board.PawnAttacks(opp, sq).And(pcs[board.Pawn])
	a = a.Or(board.KnightAttacks(opp, sq).And(pcs[board.Knight]))
	a = a.Or(board.SilverAttacks(opp, sq).And(pcs[board.Silver]))

	golds := pcs[board.Gold].
		Or(pcs[board.PromotedPawn]).
		Or(pcs[board.PromotedLance]).
		Or(pcs[board.PromotedKnight]).
		Or(pcs[board.PromotedSilver])
	a = a.Or(board.GoldAttacks(opp, sq).And(golds))

	a = a.Or(board.KingAttacks(sq).And(pcs[board.King]))
	a = a.Or(board.OrthoStepAttacks(sq).And(pcs[board.Horse]))
	a = a.Or(board.DiagStepAttacks(sq).And(pcs[board.Dragon]))

	a = a.Or(board.LanceAttacks(opp, sq, occ).And(pcs[board.Lance]))
	a = a.Or(board.BishopAttacks(sq, occ).And(pcs[board.Bishop].Or(pcs[board.Horse])))
	a = a.Or(board.RookAttacks(sq, occ).And(pcs[board.Rook].Or(pcs[board.Dragon])))
	return a
}

// KingAttacked reports whether c's king stands attacked. Positions without
// a king for c (artificial problem setups) report false.
func (p *Position) KingAttacked(c board.Color) bool {
	if p.pieces[c][board.King].IsEmpty() {
		return false
	}
	return !p.AttackersTo(p.kings[c], c.Other(), p.occupied).IsEmpty()
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.KingAttacked(p.stm) }

// Mirrored returns the position rotated 180 degrees with owners and hands
// swapped and the move handed to the other side: the same game seen from
// the opposite seat.
func (p *Position) Mirrored() *Position {
	m := &Position{stm: p.stm.Other(), moveNum: p.moveNum}
	for sq := board.Square(0); sq < board.NumSquares; sq++ {
		if pc := p.squares[sq]; pc != board.NoPiece {
			m.putPiece(pc.Color().Other(), pc.Type(), sq.Flip())
		}
	}
	for c := board.Black; c < board.ColorArraySize; c++ {
		m.hands[c.Other()] = p.hands[c]
	}
	m.computeHash()
	return m
}

func (p *Position) computeHash() {
	h := uint64(0)
	for sq := board.Square(0); sq < board.NumSquares; sq++ {
		if pc := p.squares[sq]; pc != board.NoPiece {
			h ^= zobrist.Piece(pc.Color(), pc.Type(), sq)
		}
	}
	for c := board.Black; c < board.ColorArraySize; c++ {
		for _, pt := range board.HandPieceTypes {
			h ^= zobrist.Hand(c, pt, int(p.hands[c][pt]))
		}
	}
	if p.stm == board.White {
		h ^= zobrist.Side()
	}
	p.hash = h
}

// String renders the board diagram-style: rank a at the top, file 9 on the
// left, with hands and the side to move below.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("  9  8  7  6  5  4  3  2  1\n")
	for r := 0; r < 9; r++ {
		for f := 8; f >= 0; f-- {
			pc := p.squares[board.NewSquare(f, r)]
			s := pc.String()
			if len(s) == 1 {
				sb.WriteString("  " + s)
			} else {
				sb.WriteString(" " + s)
			}
		}
		sb.WriteString("  ")
		sb.WriteByte(byte('a' + r))
		sb.WriteByte('\n')
	}
	sb.WriteString("black hand: " + p.handString(board.Black) + "\n")
	sb.WriteString("white hand: " + p.handString(board.White) + "\n")
	sb.WriteString(p.stm.String() + " to move\n")
	return sb.String()
}

func (p *Position) handString(c board.Color) string {
	var sb strings.Builder
	for _, pt := range board.HandPieceTypes {
		for i := 0; i < int(p.hands[c][pt]); i++ {
			sb.WriteString(pt.String())
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}
