package board

import (
	"testing"

	"github.com/matryer/is"
)

func TestSquareNotation(t *testing.T) {
	is := is.New(t)

	for _, tc := range []struct {
		s  string
		sq Square
	}{
		{"1a", 0},
		{"9a", 8},
		{"7g", 60},
		{"5e", 40},
		{"1i", 72},
		{"9i", 80},
	} {
		sq, err := ParseSquare(tc.s)
		is.NoErr(err)
		is.Equal(sq, tc.sq)
		is.Equal(sq.String(), tc.s)
	}

	for _, bad := range []string{"", "5", "0a", "5j", "e5", "10a"} {
		_, err := ParseSquare(bad)
		is.True(err != nil)
	}
}

func TestSquareParts(t *testing.T) {
	is := is.New(t)

	sq := NewSquare(6, 6) // 7g
	is.Equal(sq, Square(60))
	is.Equal(sq.File(), 6)
	is.Equal(sq.Rank(), 6)

	is.Equal(Square(0).Flip(), Square(80))
	is.Equal(Square(80).Flip(), Square(0))
	is.Equal(Square(40).Flip(), Square(40))
}

func TestColorOther(t *testing.T) {
	is := is.New(t)
	is.Equal(Black.Other(), White)
	is.Equal(White.Other(), Black)
	is.Equal(Black.String(), "black")
}

func TestPieceLetters(t *testing.T) {
	is := is.New(t)

	is.Equal(NewPiece(Black, Rook).String(), "R")
	is.Equal(NewPiece(White, Rook).String(), "r")
	is.Equal(NewPiece(Black, Horse).String(), "+B")
	is.Equal(NewPiece(White, Dragon).String(), "+r")
	is.Equal(NoPiece.String(), ".")

	p := NewPiece(White, PromotedPawn)
	is.Equal(p.Color(), White)
	is.Equal(p.Type(), PromotedPawn)
}

func TestPromotionMaps(t *testing.T) {
	is := is.New(t)

	is.Equal(Pawn.Promoted(), PromotedPawn)
	is.Equal(Bishop.Promoted(), Horse)
	is.Equal(Rook.Promoted(), Dragon)
	is.True(!Gold.CanPromote())
	is.True(!King.CanPromote())
	is.True(!Horse.CanPromote())

	for _, pt := range []PieceType{Pawn, Lance, Knight, Silver, Bishop, Rook} {
		is.True(pt.CanPromote())
		is.Equal(pt.Promoted().Demoted(), pt)
		is.True(pt.Promoted().IsPromoted())
	}
	is.Equal(Gold.Demoted(), Gold)
}

func TestHandPieceTypeOrder(t *testing.T) {
	is := is.New(t)
	is.Equal(HandPieceTypes[0], Rook)
	is.Equal(HandPieceTypes[len(HandPieceTypes)-1], Pawn)
	is.Equal(len(HandPieceTypes), 7)
}
