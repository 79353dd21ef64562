package evaluation

import (
	"testing"

	"github.com/matryer/is"

	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/position"
)

func fromSFEN(t *testing.T, sfen string) *position.Position {
	t.Helper()
	p, err := position.ParseSFEN(sfen)
	if err != nil {
		t.Fatalf("bad sfen %q: %v", sfen, err)
	}
	return p
}

var evalPositions = []string{
	position.StartSFEN,
	"lnsgkgsnl/1r5b1/pppppppp1/9/9/8P/PPPPPPPP1/1B5R1/LNSGKGSNL b - 3",
	"4k4/9/9/9/9/9/9/9/4K4 b RB2P 1",
	"4k4/2+P6/9/9/9/9/6+p2/9/4K4 b - 1",
	"lnsgk1snl/1r4gb1/p1pppp1pp/1p4p2/9/2P6/PP1PPPPPP/1B3S1R1/LNSGKG1NL w - 9",
	"8k/8G/9/9/8L/9/9/9/4K4 w - 1",
}

func TestBalanceAntisymmetry(t *testing.T) {
	is := is.New(t)
	for _, sfen := range evalPositions {
		p := fromSFEN(t, sfen)
		is.Equal(Balance(p), -Balance(p.Mirrored()))
	}
}

func TestEvaluateMirrorInvariance(t *testing.T) {
	// The mirror swaps seats along with the board, so the score seen
	// by the side to move is unchanged.
	is := is.New(t)
	for _, sfen := range evalPositions {
		p := fromSFEN(t, sfen)
		is.Equal(Evaluate(p), Evaluate(p.Mirrored()))
	}
}

func TestEvaluateDeterminism(t *testing.T) {
	is := is.New(t)
	for _, sfen := range evalPositions {
		p := fromSFEN(t, sfen)
		first := Evaluate(p)
		for i := 0; i < 10; i++ {
			is.Equal(Evaluate(p), first)
		}
	}
}

func TestStartposIsBalanced(t *testing.T) {
	is := is.New(t)
	p := position.New()
	is.Equal(Balance(p), int32(0))
	is.Equal(Evaluate(p), tempoBonus.MG) // full-material phase, tempo only
}

func TestPhase(t *testing.T) {
	is := is.New(t)
	is.Equal(Phase(position.New()), int32(PhaseMax))
	is.Equal(Phase(fromSFEN(t, "4k4/9/9/9/9/9/9/9/4K4 b - 1")), int32(0))

	mid := Phase(fromSFEN(t, "4k4/9/9/9/9/9/9/9/R3K4 b - 1"))
	is.True(mid > 0 && mid < PhaseMax)
}

func TestMaterialDominates(t *testing.T) {
	is := is.New(t)

	onBoard := fromSFEN(t, "4k4/9/9/9/9/9/9/9/R3K4 b - 1")
	is.True(Balance(onBoard) > 800)

	inHand := fromSFEN(t, "4k4/9/9/9/9/9/9/9/4K4 b R 1")
	is.True(Balance(inHand) > 800)
}

func TestHandPremium(t *testing.T) {
	is := is.New(t)
	for _, pt := range board.HandPieceTypes {
		is.True(handScore[pt].MG > pieceScore[pt].MG)
		is.True(handScore[pt].EG > pieceScore[pt].EG)
	}
}

func TestExchangeValueOrdering(t *testing.T) {
	is := is.New(t)
	order := []board.PieceType{
		board.Pawn, board.Lance, board.Knight, board.Silver,
		board.Gold, board.Bishop, board.Rook, board.King,
	}
	for i := 1; i < len(order); i++ {
		is.True(Value(order[i]) > Value(order[i-1]))
	}
}

func TestBreakdownSumsToBalance(t *testing.T) {
	is := is.New(t)
	for _, sfen := range evalPositions {
		p := fromSFEN(t, sfen)
		var sum Score
		for _, term := range Breakdown(p) {
			sum = sum.Add(term.Score)
		}
		is.Equal(sum.Interpolate(Phase(p)), Balance(p))
	}
}
