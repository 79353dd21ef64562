package evaluation

import (
	"github.com/fgantt/shogi-ui-sub004/board"
)

// pstShape is a compact piece-square parameterization: a rank curve
// plus a file curve per game phase, seen from Black's side of the
// board (rank 0 is deep in White's camp). The full tables are built in
// init, with White's table the 180-degree flip of Black's.
type pstShape struct {
	rankMG [9]int16
	fileMG [9]int16
	rankEG [9]int16
	fileEG [9]int16
}

var pstShapes = [board.PieceTypeArraySize]pstShape{
	board.Pawn: {
		rankMG: [9]int16{0, 52, 34, 18, 10, 4, 0, -2, -4},
		fileMG: [9]int16{-4, -2, 0, 2, 4, 2, 0, -2, -4},
		rankEG: [9]int16{0, 80, 55, 35, 20, 8, 0, -4, -6},
		fileEG: [9]int16{-2, -1, 0, 1, 2, 1, 0, -1, -2},
	},
	board.Lance: {
		rankMG: [9]int16{0, -2, 0, 2, 2, 2, 2, 4, 6},
		rankEG: [9]int16{0, 4, 4, 4, 2, 2, 2, 2, 2},
	},
	board.Knight: {
		rankMG: [9]int16{0, 0, 4, 8, 10, 6, 0, -2, -4},
		fileMG: [9]int16{-6, -3, 0, 2, 3, 2, 0, -3, -6},
		rankEG: [9]int16{0, 0, 6, 10, 10, 6, 2, 0, -2},
		fileEG: [9]int16{-4, -2, 0, 1, 2, 1, 0, -2, -4},
	},
	board.Silver: {
		rankMG: [9]int16{4, 10, 14, 12, 8, 4, 0, -2, -4},
		fileMG: [9]int16{-4, -2, 0, 3, 5, 3, 0, -2, -4},
		rankEG: [9]int16{6, 10, 12, 10, 8, 4, 2, 0, -2},
		fileEG: [9]int16{-3, -1, 0, 2, 3, 2, 0, -1, -3},
	},
	board.Gold: {
		rankMG: [9]int16{2, 6, 8, 6, 4, 2, 0, 2, 0},
		fileMG: [9]int16{-2, -1, 0, 2, 3, 2, 0, -1, -2},
		rankEG: [9]int16{4, 8, 8, 6, 4, 2, 0, 0, 0},
		fileEG: [9]int16{-2, -1, 0, 1, 2, 1, 0, -1, -2},
	},
	board.Bishop: {
		rankMG: [9]int16{0, 2, 4, 6, 6, 6, 4, 2, 0},
		fileMG: [9]int16{-8, -4, 0, 4, 8, 4, 0, -4, -8},
		rankEG: [9]int16{0, 2, 4, 6, 6, 6, 4, 2, 0},
		fileEG: [9]int16{-8, -4, 0, 4, 8, 4, 0, -4, -8},
	},
	board.Rook: {
		rankMG: [9]int16{10, 14, 12, 4, 2, 0, 0, 2, 0},
		rankEG: [9]int16{12, 14, 12, 6, 4, 2, 0, 0, 0},
	},
	board.King: {
		rankMG: [9]int16{-60, -48, -36, -24, -12, 0, 10, 16, 20},
		fileMG: [9]int16{8, 16, 12, -12, -28, -12, 12, 16, 8},
		rankEG: [9]int16{16, 12, 8, 6, 4, 2, 0, -2, -4},
		fileEG: [9]int16{-6, -3, 0, 3, 6, 3, 0, -3, -6},
	},
	board.Horse: {
		rankMG: [9]int16{2, 4, 4, 4, 4, 4, 6, 6, 4},
		fileMG: [9]int16{-8, -4, 0, 4, 8, 4, 0, -4, -8},
		rankEG: [9]int16{4, 4, 4, 4, 4, 4, 6, 6, 4},
		fileEG: [9]int16{-8, -4, 0, 4, 8, 4, 0, -4, -8},
	},
	board.Dragon: {
		rankMG: [9]int16{12, 14, 12, 6, 4, 2, 0, 0, 0},
		fileMG: [9]int16{-4, -2, 0, 2, 4, 2, 0, -2, -4},
		rankEG: [9]int16{12, 14, 12, 6, 4, 2, 0, 0, 0},
		fileEG: [9]int16{-4, -2, 0, 2, 4, 2, 0, -2, -4},
	},
}

var (
	pstMG [board.ColorArraySize][board.PieceTypeArraySize][board.NumSquares]int16
	pstEG [board.ColorArraySize][board.PieceTypeArraySize][board.NumSquares]int16
)

func init() {
	// Gold-movers share the gold's shape.
	for _, pt := range []board.PieceType{
		board.PromotedPawn, board.PromotedLance, board.PromotedKnight, board.PromotedSilver,
	} {
		pstShapes[pt] = pstShapes[board.Gold]
	}
	for pt := board.Pawn; pt < board.PieceTypeArraySize; pt++ {
		sh := pstShapes[pt]
		for sq := board.Square(0); sq < board.NumSquares; sq++ {
			mg := sh.rankMG[sq.Rank()] + sh.fileMG[sq.File()]
			eg := sh.rankEG[sq.Rank()] + sh.fileEG[sq.File()]
			pstMG[board.Black][pt][sq] = mg
			pstEG[board.Black][pt][sq] = eg
			pstMG[board.White][pt][sq.Flip()] = mg
			pstEG[board.White][pt][sq.Flip()] = eg
		}
	}
}

func pst(c board.Color, pt board.PieceType, sq board.Square) Score {
	return Score{int32(pstMG[c][pt][sq]), int32(pstEG[c][pt][sq])}
}
