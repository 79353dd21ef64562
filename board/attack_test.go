package board

import (
	"testing"

	"github.com/matryer/is"

	"github.com/fgantt/shogi-ui-sub004/bitboard"
)

func sqs(names ...string) bitboard.Bitboard {
	var b bitboard.Bitboard
	for _, n := range names {
		sq, err := ParseSquare(n)
		if err != nil {
			panic(err)
		}
		b.Set(int(sq))
	}
	return b
}

func at(name string) Square {
	sq, err := ParseSquare(name)
	if err != nil {
		panic(err)
	}
	return sq
}

func TestStepperAttacks(t *testing.T) {
	is := is.New(t)

	is.Equal(PawnAttacks(Black, at("5e")), sqs("5d"))
	is.Equal(PawnAttacks(White, at("5e")), sqs("5f"))
	is.True(PawnAttacks(Black, at("5a")).IsEmpty())

	is.Equal(KnightAttacks(Black, at("5e")), sqs("4c", "6c"))
	is.Equal(KnightAttacks(Black, at("1c")), sqs("2a"))
	is.True(KnightAttacks(Black, at("5a")).IsEmpty())
	is.Equal(KnightAttacks(White, at("5e")), sqs("4g", "6g"))

	is.Equal(SilverAttacks(Black, at("5e")), sqs("5d", "4d", "6d", "4f", "6f"))
	is.Equal(GoldAttacks(Black, at("5e")), sqs("5d", "4d", "6d", "4e", "6e", "5f"))
	is.Equal(GoldAttacks(White, at("5e")), sqs("5f", "4f", "6f", "4e", "6e", "5d"))

	is.Equal(KingAttacks(at("5e")).Count(), 8)
	is.Equal(KingAttacks(at("1a")), sqs("2a", "1b", "2b"))

	// promoted minors move like gold
	is.Equal(Attacks(Black, PromotedPawn, at("5e"), bitboard.Bitboard{}),
		GoldAttacks(Black, at("5e")))
	is.Equal(Attacks(Black, PromotedKnight, at("5e"), bitboard.Bitboard{}),
		GoldAttacks(Black, at("5e")))
}

func TestLanceAttacks(t *testing.T) {
	is := is.New(t)

	empty := bitboard.Bitboard{}
	is.Equal(LanceAttacks(Black, at("5i"), empty),
		sqs("5a", "5b", "5c", "5d", "5e", "5f", "5g", "5h"))

	// the ray stops at and includes the first blocker
	occ := sqs("5e")
	is.Equal(LanceAttacks(Black, at("5i"), occ), sqs("5e", "5f", "5g", "5h"))
	is.Equal(LanceAttacks(White, at("5a"), occ), sqs("5b", "5c", "5d", "5e"))
}

func TestRookAttacks(t *testing.T) {
	is := is.New(t)

	empty := bitboard.Bitboard{}
	is.Equal(RookAttacks(at("5e"), empty).Count(), 16)
	is.Equal(RookAttacks(at("1a"), empty).Count(), 16)

	occ := sqs("5d", "4e")
	got := RookAttacks(at("5e"), occ)
	is.Equal(got.Count(), 10)
	is.True(got.Has(int(at("5d"))))
	is.True(got.Has(int(at("4e"))))
	is.True(!got.Has(int(at("5c"))))
	is.True(!got.Has(int(at("3e"))))
}

func TestBishopAttacks(t *testing.T) {
	is := is.New(t)

	empty := bitboard.Bitboard{}
	is.Equal(BishopAttacks(at("5e"), empty).Count(), 16)
	is.Equal(BishopAttacks(at("1a"), empty),
		sqs("2b", "3c", "4d", "5e", "6f", "7g", "8h", "9i"))

	occ := sqs("4d")
	got := BishopAttacks(at("5e"), occ)
	is.True(got.Has(int(at("4d"))))
	is.True(!got.Has(int(at("3c"))))
}

func TestPromotedSliderAttacks(t *testing.T) {
	is := is.New(t)

	empty := bitboard.Bitboard{}
	is.Equal(HorseAttacks(at("5e"), empty).Count(), 20)
	is.Equal(DragonAttacks(at("5e"), empty).Count(), 20)
	is.True(HorseAttacks(at("5e"), empty).Has(int(at("5d"))))
	is.True(DragonAttacks(at("5e"), empty).Has(int(at("4d"))))
}

func flipBB(b bitboard.Bitboard) bitboard.Bitboard {
	var out bitboard.Bitboard
	for it := b.Iter(); ; {
		sq, ok := it.Next()
		if !ok {
			break
		}
		out.Set(int(Square(sq).Flip()))
	}
	return out
}

func TestAttackRotationSymmetry(t *testing.T) {
	is := is.New(t)

	// white's attack pattern is black's rotated 180 degrees
	types := []PieceType{Pawn, Lance, Knight, Silver, Gold, Bishop, Rook, King,
		PromotedPawn, PromotedLance, PromotedKnight, PromotedSilver, Horse, Dragon}
	for _, pt := range types {
		for sq := Square(0); sq < NumSquares; sq++ {
			black := Attacks(Black, pt, sq, bitboard.Bitboard{})
			white := Attacks(White, pt, sq.Flip(), bitboard.Bitboard{})
			if white != flipBB(black) {
				t.Fatalf("%v at %v: attack rotation mismatch", pt, sq)
			}
		}
	}
	is.True(true)
}

func TestZonesAndDropRules(t *testing.T) {
	is := is.New(t)

	is.True(InPromotionZone(Black, at("5c")))
	is.True(!InPromotionZone(Black, at("5d")))
	is.True(InPromotionZone(White, at("5g")))
	is.Equal(PromotionZone(Black).Count(), 27)

	is.True(MustPromote(Pawn, Black, at("5a")))
	is.True(!MustPromote(Pawn, Black, at("5b")))
	is.True(MustPromote(Lance, Black, at("5a")))
	is.True(MustPromote(Knight, Black, at("5b")))
	is.True(!MustPromote(Knight, Black, at("5c")))
	is.True(!MustPromote(Silver, Black, at("5a")))
	is.True(MustPromote(Pawn, White, at("5i")))
	is.True(MustPromote(Knight, White, at("5h")))

	is.Equal(DropZone(Black, Pawn).Count(), 72)
	is.Equal(DropZone(Black, Knight).Count(), 63)
	is.Equal(DropZone(Black, Gold).Count(), 81)
	is.True(!DropZone(White, Pawn).Intersects(RankMasks[8]))
}
