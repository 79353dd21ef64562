package board

import "github.com/fgantt/shogi-ui-sub004/bitboard"

// Ray directions. North is toward rank a, which is black's forward
// direction; east is toward file 1.
const (
	dirNorth = iota
	dirSouth
	dirEast
	dirWest
	dirNorthEast
	dirNorthWest
	dirSouthEast
	dirSouthWest
	numDirs
)

// dirDeltas holds {file, rank} steps per direction.
var dirDeltas = [numDirs][2]int{
	dirNorth:     {0, -1},
	dirSouth:     {0, 1},
	dirEast:      {-1, 0},
	dirWest:      {1, 0},
	dirNorthEast: {-1, -1},
	dirNorthWest: {1, -1},
	dirSouthEast: {-1, 1},
	dirSouthWest: {1, 1},
}

// dirTowardHigher marks directions along which square indexes increase,
// which decides the scan direction when locating the first blocker.
var dirTowardHigher = [numDirs]bool{
	dirSouth: true, dirWest: true, dirSouthEast: true, dirSouthWest: true,
}

var (
	rays       [numDirs][NumSquares]bitboard.Bitboard
	stepTables [ColorArraySize][PieceTypeArraySize][NumSquares]bitboard.Bitboard
	orthoSteps [NumSquares]bitboard.Bitboard
	diagSteps  [NumSquares]bitboard.Bitboard
	kingSteps  [NumSquares]bitboard.Bitboard

	// FileMasks[f] holds the squares of zero-based file f; RankMasks[r]
	// the squares of zero-based rank r.
	FileMasks [9]bitboard.Bitboard
	RankMasks [9]bitboard.Bitboard

	promotionZones [ColorArraySize]bitboard.Bitboard
	lastRank       [ColorArraySize]bitboard.Bitboard
	lastTwoRanks   [ColorArraySize]bitboard.Bitboard
)

func init() {
	buildMasks()
	buildRays()
	buildSteps()
}

func buildMasks() {
	for r := 0; r < 9; r++ {
		for f := 0; f < 9; f++ {
			sq := int(NewSquare(f, r))
			FileMasks[f].Set(sq)
			RankMasks[r].Set(sq)
		}
	}
	promotionZones[Black] = RankMasks[0].Or(RankMasks[1]).Or(RankMasks[2])
	promotionZones[White] = RankMasks[6].Or(RankMasks[7]).Or(RankMasks[8])
	lastRank[Black] = RankMasks[0]
	lastRank[White] = RankMasks[8]
	lastTwoRanks[Black] = RankMasks[0].Or(RankMasks[1])
	lastTwoRanks[White] = RankMasks[7].Or(RankMasks[8])
}

func buildRays() {
	for sq := Square(0); sq < NumSquares; sq++ {
		for dir := 0; dir < numDirs; dir++ {
			d := dirDeltas[dir]
			f, r := sq.File()+d[0], sq.Rank()+d[1]
			for f >= 0 && f < 9 && r >= 0 && r < 9 {
				rays[dir][sq].Set(int(NewSquare(f, r)))
				f += d[0]
				r += d[1]
			}
		}
	}
}

// stepBB collects the in-bounds squares one delta step away from sq.
// mirror negates the rank component, turning black deltas into white ones.
func stepBB(sq Square, deltas [][2]int, mirror bool) bitboard.Bitboard {
	var b bitboard.Bitboard
	for _, d := range deltas {
		df, dr := d[0], d[1]
		if mirror {
			dr = -dr
		}
		f, r := sq.File()+df, sq.Rank()+dr
		if f >= 0 && f < 9 && r >= 0 && r < 9 {
			b.Set(int(NewSquare(f, r)))
		}
	}
	return b
}

var (
	orthoDeltas = [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	diagDeltas  = [][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
)

func buildSteps() {
	// stepper deltas from black's seat; white mirrors the rank component
	blackSteps := map[PieceType][][2]int{
		Pawn:   {{0, -1}},
		Knight: {{-1, -2}, {1, -2}},
		Silver: {{0, -1}, {-1, -1}, {1, -1}, {-1, 1}, {1, 1}},
		Gold:   {{0, -1}, {-1, -1}, {1, -1}, {-1, 0}, {1, 0}, {0, 1}},
	}

	for sq := Square(0); sq < NumSquares; sq++ {
		orthoSteps[sq] = stepBB(sq, orthoDeltas, false)
		diagSteps[sq] = stepBB(sq, diagDeltas, false)
		kingSteps[sq] = orthoSteps[sq].Or(diagSteps[sq])
	}

	for c := Black; c < ColorArraySize; c++ {
		mirror := c == White
		for pt, deltas := range blackSteps {
			for sq := Square(0); sq < NumSquares; sq++ {
				stepTables[c][pt][sq] = stepBB(sq, deltas, mirror)
			}
		}
		for _, pt := range []PieceType{PromotedPawn, PromotedLance, PromotedKnight, PromotedSilver} {
			stepTables[c][pt] = stepTables[c][Gold]
		}
		stepTables[c][King] = kingSteps
		// the step components of the promoted sliders
		stepTables[c][Horse] = orthoSteps
		stepTables[c][Dragon] = diagSteps
	}
}

func rayAttack(dir int, sq Square, occ bitboard.Bitboard) bitboard.Bitboard {
	att := rays[dir][sq]
	blockers := att.And(occ)
	if blockers.IsEmpty() {
		return att
	}
	var first int
	if dirTowardHigher[dir] {
		first, _ = blockers.First()
	} else {
		first, _ = blockers.Last()
	}
	// squares from sq up to and including the first blocker
	return att.Xor(rays[dir][first])
}

// PawnAttacks returns the square a pawn of color c on sq attacks.
func PawnAttacks(c Color, sq Square) bitboard.Bitboard { return stepTables[c][Pawn][sq] }

// KnightAttacks returns a knight's two jump targets.
func KnightAttacks(c Color, sq Square) bitboard.Bitboard { return stepTables[c][Knight][sq] }

// SilverAttacks returns a silver's five step targets.
func SilverAttacks(c Color, sq Square) bitboard.Bitboard { return stepTables[c][Silver][sq] }

// GoldAttacks returns a gold's six step targets. Promoted pawns, lances,
// knights, and silvers move the same way.
func GoldAttacks(c Color, sq Square) bitboard.Bitboard { return stepTables[c][Gold][sq] }

// KingAttacks returns the eight neighboring squares.
func KingAttacks(sq Square) bitboard.Bitboard { return kingSteps[sq] }

// LanceAttacks returns the forward ray for a lance of color c, cut at the
// first blocker in occ.
func LanceAttacks(c Color, sq Square, occ bitboard.Bitboard) bitboard.Bitboard {
	if c == Black {
		return rayAttack(dirNorth, sq, occ)
	}
	return rayAttack(dirSouth, sq, occ)
}

// BishopAttacks returns the four diagonal rays cut at blockers.
func BishopAttacks(sq Square, occ bitboard.Bitboard) bitboard.Bitboard {
	return rayAttack(dirNorthEast, sq, occ).
		Or(rayAttack(dirNorthWest, sq, occ)).
		Or(rayAttack(dirSouthEast, sq, occ)).
		Or(rayAttack(dirSouthWest, sq, occ))
}

// RookAttacks returns the four orthogonal rays cut at blockers.
func RookAttacks(sq Square, occ bitboard.Bitboard) bitboard.Bitboard {
	return rayAttack(dirNorth, sq, occ).
		Or(rayAttack(dirSouth, sq, occ)).
		Or(rayAttack(dirEast, sq, occ)).
		Or(rayAttack(dirWest, sq, occ))
}

// HorseAttacks returns bishop rays plus one orthogonal step.
func HorseAttacks(sq Square, occ bitboard.Bitboard) bitboard.Bitboard {
	return BishopAttacks(sq, occ).Or(orthoSteps[sq])
}

// DragonAttacks returns rook rays plus one diagonal step.
func DragonAttacks(sq Square, occ bitboard.Bitboard) bitboard.Bitboard {
	return RookAttacks(sq, occ).Or(diagSteps[sq])
}

// OrthoStepAttacks returns the four orthogonal neighbors of sq, the step
// component of a horse's move.
func OrthoStepAttacks(sq Square) bitboard.Bitboard { return orthoSteps[sq] }

// DiagStepAttacks returns the four diagonal neighbors of sq, the step
// component of a dragon's move.
func DiagStepAttacks(sq Square) bitboard.Bitboard { return diagSteps[sq] }

// Attacks returns the squares attacked by a piece of kind pt and color c
// standing on sq, given board occupancy occ.
func Attacks(c Color, pt PieceType, sq Square, occ bitboard.Bitboard) bitboard.Bitboard {
	switch pt {
	case Lance:
		return LanceAttacks(c, sq, occ)
	case Bishop:
		return BishopAttacks(sq, occ)
	case Rook:
		return RookAttacks(sq, occ)
	case Horse:
		return HorseAttacks(sq, occ)
	case Dragon:
		return DragonAttacks(sq, occ)
	default:
		return stepTables[c][pt][sq]
	}
}

// PromotionZone returns the three ranks where c's pieces may promote.
func PromotionZone(c Color) bitboard.Bitboard { return promotionZones[c] }

// InPromotionZone reports whether sq lies in c's promotion zone.
func InPromotionZone(c Color, sq Square) bool {
	return promotionZones[c].Has(int(sq))
}

// MustPromote reports whether a piece of kind pt owned by c moving to sq
// would be left without further moves unless it promotes.
func MustPromote(pt PieceType, c Color, to Square) bool {
	switch pt {
	case Pawn, Lance:
		return lastRank[c].Has(int(to))
	case Knight:
		return lastTwoRanks[c].Has(int(to))
	}
	return false
}

// DropZone returns the squares where a piece of kind pt owned by c may be
// dropped as far as board geometry allows. The two-pawns-per-file rule is
// a separate check.
func DropZone(c Color, pt PieceType) bitboard.Bitboard {
	switch pt {
	case Pawn, Lance:
		return bitboard.Full.AndNot(lastRank[c])
	case Knight:
		return bitboard.Full.AndNot(lastTwoRanks[c])
	}
	return bitboard.Full
}
