package evaluation

import (
	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/position"
)

// pieceScore values pieces on the board. Promoted minors move like
// golds and are valued near them, keeping the premium a promotion
// earned.
var pieceScore = [board.PieceTypeArraySize]Score{
	board.Pawn:           S(90, 100),
	board.Lance:          S(315, 330),
	board.Knight:         S(405, 420),
	board.Silver:         S(495, 505),
	board.Gold:           S(540, 555),
	board.Bishop:         S(855, 870),
	board.Rook:           S(990, 1010),
	board.PromotedPawn:   S(630, 640),
	board.PromotedLance:  S(540, 555),
	board.PromotedKnight: S(585, 600),
	board.PromotedSilver: S(540, 555),
	board.Horse:          S(1125, 1150),
	board.Dragon:         S(1395, 1420),
}

// handScore values pieces in hand. A piece in hand carries a premium
// over its board value: it can be dropped where it is worth most.
var handScore = [board.PieceTypeArraySize]Score{
	board.Pawn:   S(100, 110),
	board.Lance:  S(330, 345),
	board.Knight: S(420, 435),
	board.Silver: S(515, 525),
	board.Gold:   S(565, 580),
	board.Bishop: S(890, 905),
	board.Rook:   S(1030, 1050),
}

// phaseWeights rates non-pawn material by demoted type. The full
// starting complement sums to totalPhase.
var phaseWeights = [board.PieceTypeArraySize]int32{
	board.Lance:  1,
	board.Knight: 1,
	board.Silver: 2,
	board.Gold:   2,
	board.Bishop: 3,
	board.Rook:   4,
}

const totalPhase = 38

// Phase maps the non-pawn material still on the board to 0..PhaseMax.
// Hands are excluded: material leaving the board is what moves a shogi
// game toward its endgame, and a drop brings the phase back up.
func Phase(p *position.Position) int32 {
	var w int32
	for c := board.Black; c <= board.White; c++ {
		for pt := board.Lance; pt < board.PieceTypeArraySize; pt++ {
			weight := phaseWeights[pt.Demoted()]
			if weight == 0 {
				continue
			}
			w += int32(p.Pieces(c, pt).Count()) * weight
		}
	}
	phase := w * PhaseMax / totalPhase
	if phase > PhaseMax {
		phase = PhaseMax
	}
	return phase
}

// Value is the flat exchange value of a piece type, used by capture
// ordering and static exchange evaluation. The king's value dwarfs any
// exchange sequence.
func Value(pt board.PieceType) int32 {
	if pt == board.King {
		return 15000
	}
	return pieceScore[pt].MG
}
