// Package search finds the best move by iterative-deepening negamax
// with alpha-beta pruning, a shared transposition table, null-move and
// quiescence pruning, and Young-Brothers-Wait root parallelism.
package search

const (
	maxDepth = 64
	maxPly   = 128

	scoreInfinity int32 = 30000
	scoreMate     int32 = scoreInfinity - 1
	scoreWin      int32 = scoreMate - maxPly
	scoreDraw     int32 = 0
)

func mateIn(ply int) int32  { return scoreMate - int32(ply) }
func matedIn(ply int) int32 { return -scoreMate + int32(ply) }

// IsMateScore reports whether v encodes a forced mate.
func IsMateScore(v int32) bool { return v >= scoreWin || v <= -scoreWin }

// MatePlies converts a mate score to signed plies until mate: positive
// when the side to move mates, negative when it is mated. ok is false
// for ordinary scores.
func MatePlies(v int32) (int, bool) {
	switch {
	case v >= scoreWin:
		return int(scoreMate - v), true
	case v <= -scoreWin:
		return -int(scoreMate + v), true
	}
	return 0, false
}

// Mate scores are stored in the table relative to the probing node, so
// an entry written at one root distance stays valid at another.
func scoreToTT(v int32, ply int) int16 {
	if v >= scoreWin {
		v += int32(ply)
	} else if v <= -scoreWin {
		v -= int32(ply)
	}
	return int16(v)
}

func scoreFromTT(v int16, ply int) int32 {
	s := int32(v)
	if s >= scoreWin {
		s -= int32(ply)
	} else if s <= -scoreWin {
		s += int32(ply)
	}
	return s
}
