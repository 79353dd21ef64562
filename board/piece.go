package board

import "fmt"

// PieceType identifies a kind of piece, independent of owner.
type PieceType int

const (
	NoPieceType PieceType = iota
	Pawn
	Lance
	Knight
	Silver
	Gold
	Bishop
	Rook
	King
	PromotedPawn
	PromotedLance
	PromotedKnight
	PromotedSilver
	Horse  // promoted bishop
	Dragon // promoted rook
	// PieceTypeArraySize sizes arrays indexed by PieceType.
	PieceTypeArraySize
)

// HandPieceTypes lists the piece kinds that can be held in hand, in the
// order SFEN writes them.
var HandPieceTypes = [...]PieceType{Rook, Bishop, Gold, Silver, Knight, Lance, Pawn}

var typeLetters = [PieceTypeArraySize]string{
	"", "P", "L", "N", "S", "G", "B", "R", "K",
	"+P", "+L", "+N", "+S", "+B", "+R",
}

var promotions = [PieceTypeArraySize]PieceType{
	Pawn:   PromotedPawn,
	Lance:  PromotedLance,
	Knight: PromotedKnight,
	Silver: PromotedSilver,
	Bishop: Horse,
	Rook:   Dragon,
}

var demotions = [PieceTypeArraySize]PieceType{
	Pawn: Pawn, Lance: Lance, Knight: Knight, Silver: Silver,
	Gold: Gold, Bishop: Bishop, Rook: Rook, King: King,
	PromotedPawn:   Pawn,
	PromotedLance:  Lance,
	PromotedKnight: Knight,
	PromotedSilver: Silver,
	Horse:          Bishop,
	Dragon:         Rook,
}

// CanPromote reports whether the piece kind has a promoted form.
func (pt PieceType) CanPromote() bool { return promotions[pt] != NoPieceType }

// Promoted returns the promoted form, or NoPieceType if there is none.
func (pt PieceType) Promoted() PieceType { return promotions[pt] }

// Demoted returns the unpromoted form; base kinds map to themselves.
// Captured pieces enter the hand in this form.
func (pt PieceType) Demoted() PieceType { return demotions[pt] }

// IsPromoted reports whether the piece kind is a promoted form.
func (pt PieceType) IsPromoted() bool { return pt >= PromotedPawn }

// String returns the uppercase USI letter form, e.g. "N" or "+B".
func (pt PieceType) String() string { return typeLetters[pt] }

// ParsePieceTypeLetter maps a base-kind letter (as used in drop notation
// and hand strings) to its PieceType.
func ParsePieceTypeLetter(b byte) (PieceType, error) {
	switch b {
	case 'P':
		return Pawn, nil
	case 'L':
		return Lance, nil
	case 'N':
		return Knight, nil
	case 'S':
		return Silver, nil
	case 'G':
		return Gold, nil
	case 'B':
		return Bishop, nil
	case 'R':
		return Rook, nil
	case 'K':
		return King, nil
	}
	return NoPieceType, fmt.Errorf("bad piece letter %q", string(b))
}

// Piece is a colored piece, or NoPiece for an empty square. The low four
// bits hold the PieceType, bit four the Color.
type Piece int8

// NoPiece marks an empty square.
const NoPiece Piece = 0

// NewPiece builds a piece from owner and kind.
func NewPiece(c Color, pt PieceType) Piece {
	return Piece(int(pt) | int(c)<<4)
}

// Color returns the owner. Only valid for p != NoPiece.
func (p Piece) Color() Color { return Color(p >> 4) }

// Type returns the piece kind.
func (p Piece) Type() PieceType { return PieceType(p & 0xf) }

// String renders the piece as its SFEN letter form: uppercase for black,
// lowercase for white, with a '+' prefix on promoted forms.
func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	s := typeLetters[p.Type()]
	if p.Color() == White {
		return lowercase(s)
	}
	return s
}

func lowercase(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
