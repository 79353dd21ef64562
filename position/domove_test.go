package position

import (
	"testing"

	"github.com/matryer/is"

	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/zobrist"
)

func mv(t *testing.T, s string) move.Move {
	t.Helper()
	m, err := move.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// checkHash verifies the incrementally maintained hash against a fresh
// recomputation.
func checkHash(t *testing.T, p *Position) {
	t.Helper()
	c := p.Clone()
	c.computeHash()
	if c.hash != p.hash {
		t.Fatalf("incremental hash drifted: have %x, want %x", p.hash, c.hash)
	}
}

func TestMakeUnmakePawnPush(t *testing.T) {
	is := is.New(t)

	p := New()
	saved := *p

	u := p.MakeMove(mv(t, "7g7f"))
	is.Equal(p.PieceAt(sq(t, "7f")), board.NewPiece(board.Black, board.Pawn))
	is.Equal(p.PieceAt(sq(t, "7g")), board.NoPiece)
	is.Equal(p.SideToMove(), board.White)
	is.Equal(p.MoveNumber(), 2)
	is.True(p.Hash() != saved.hash)
	checkHash(t, p)

	p.UnmakeMove(u)
	is.Equal(*p, saved)
}

func TestMakeUnmakeCaptureAndPromotion(t *testing.T) {
	is := is.New(t)

	p := New()
	saved := *p

	undos := []Undo{
		p.MakeMove(mv(t, "7g7f")),
		p.MakeMove(mv(t, "3c3d")),
		p.MakeMove(mv(t, "8h2b+")),
	}
	checkHash(t, p)

	is.Equal(p.PieceAt(sq(t, "2b")), board.NewPiece(board.Black, board.Horse))
	is.Equal(p.HandCount(board.Black, board.Bishop), 1)
	is.Equal(undos[2].Captured(), board.NewPiece(board.White, board.Bishop))

	// the promoted piece is captured back and enters the hand demoted
	u := p.MakeMove(mv(t, "3a2b"))
	is.Equal(p.PieceAt(sq(t, "2b")), board.NewPiece(board.White, board.Silver))
	is.Equal(p.HandCount(board.White, board.Bishop), 1)
	is.Equal(u.Captured(), board.NewPiece(board.Black, board.Horse))
	checkHash(t, p)

	p.UnmakeMove(u)
	for i := len(undos) - 1; i >= 0; i-- {
		p.UnmakeMove(undos[i])
	}
	is.Equal(*p, saved)
}

func TestMakeUnmakeDrop(t *testing.T) {
	is := is.New(t)

	p, err := ParseSFEN("4k4/9/9/9/9/9/9/9/4K4 b P 1")
	is.NoErr(err)
	saved := *p

	u := p.MakeMove(mv(t, "P*5f"))
	is.Equal(p.PieceAt(sq(t, "5f")), board.NewPiece(board.Black, board.Pawn))
	is.Equal(p.HandCount(board.Black, board.Pawn), 0)
	is.Equal(p.SideToMove(), board.White)
	checkHash(t, p)

	p.UnmakeMove(u)
	is.Equal(*p, saved)
}

func TestKingSquareTracking(t *testing.T) {
	is := is.New(t)

	p := New()
	u := p.MakeMove(mv(t, "5i5h"))
	is.Equal(p.King(board.Black), sq(t, "5h"))
	p.UnmakeMove(u)
	is.Equal(p.King(board.Black), sq(t, "5i"))
}

func TestNullMove(t *testing.T) {
	is := is.New(t)

	p := New()
	saved := *p

	u := p.MakeNullMove()
	is.Equal(p.SideToMove(), board.White)
	is.Equal(p.Hash(), saved.hash^zobrist.Side())
	is.Equal(p.MoveNumber(), saved.moveNum)

	p.UnmakeNullMove(u)
	is.Equal(*p, saved)
}

func TestCloneIsIndependent(t *testing.T) {
	is := is.New(t)

	p := New()
	q := p.Clone()
	q.MakeMove(mv(t, "7g7f"))

	is.Equal(p.PieceAt(sq(t, "7g")), board.NewPiece(board.Black, board.Pawn))
	is.Equal(q.PieceAt(sq(t, "7g")), board.NoPiece)
	is.True(p.Hash() != q.Hash())
}
