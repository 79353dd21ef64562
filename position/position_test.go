package position

import (
	"testing"

	"github.com/matryer/is"

	"github.com/fgantt/shogi-ui-sub004/board"
)

func TestAttackersTo(t *testing.T) {
	is := is.New(t)

	p := New()

	// 1g is covered by the 1i lance and the 2i knight, nothing else
	att := p.AttackersTo(sq(t, "1g"), board.Black, p.Occupied())
	is.Equal(att.Count(), 2)
	is.True(att.Has(int(sq(t, "1i"))))
	is.True(att.Has(int(sq(t, "2i"))))

	// an empty center square is attacked by nobody at the start
	is.True(p.AttackersTo(sq(t, "5e"), board.Black, p.Occupied()).IsEmpty())
	is.True(p.AttackersTo(sq(t, "5e"), board.White, p.Occupied()).IsEmpty())

	// 5f is covered by the 5g pawn
	att = p.AttackersTo(sq(t, "5f"), board.Black, p.Occupied())
	is.Equal(att.Count(), 1)
	is.True(att.Has(int(sq(t, "5g"))))
}

func TestAttackersThroughOccupancy(t *testing.T) {
	is := is.New(t)

	// black rook behind a black pawn: removing the pawn from the
	// occupancy exposes the rook as an attacker of 5c
	p, err := ParseSFEN("4k4/9/9/9/4P4/9/9/4R4/4K4 b - 1")
	is.NoErr(err)

	att := p.AttackersTo(sq(t, "5c"), board.Black, p.Occupied())
	is.True(att.IsEmpty())

	occ := p.Occupied()
	occ.Clear(int(sq(t, "5e")))
	att = p.AttackersTo(sq(t, "5c"), board.Black, occ)
	is.True(att.Has(int(sq(t, "5h"))))
}

func TestInCheck(t *testing.T) {
	is := is.New(t)

	p := New()
	is.True(!p.InCheck())

	p, err := ParseSFEN("4k4/4P4/9/9/9/9/9/9/4K4 w - 1")
	is.NoErr(err)
	is.True(p.InCheck())
	is.True(p.KingAttacked(board.White))
	is.True(!p.KingAttacked(board.Black))

	// a white pawn in front of the white king is no checker
	p, err = ParseSFEN("4k4/4p4/9/9/9/9/9/9/4K4 w - 1")
	is.NoErr(err)
	is.True(!p.InCheck())
}

func TestMirrorOfStartIsStart(t *testing.T) {
	is := is.New(t)

	p := New()
	m := p.Mirrored()

	// the starting setup is rotationally symmetric, so only the side to
	// move changes
	is.Equal(m.SFEN(), "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL w - 1")
}

func TestMirrorInvolution(t *testing.T) {
	is := is.New(t)

	p, err := ParseSFEN("lnsgk1snl/1r4g2/p1pppp1pp/1p4p2/9/2P6/PP1PPPPPP/1SG4R1/LN2KGSNL b Bb 9")
	is.NoErr(err)

	m := p.Mirrored()
	is.Equal(m.SideToMove(), board.White)
	is.Equal(m.HandCount(board.White, board.Bishop), 1)
	is.Equal(m.HandCount(board.Black, board.Bishop), 1)
	is.Equal(*m.Mirrored(), *p)
}
