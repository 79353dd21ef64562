// Package evaluation scores positions with a phase-tapered blend of
// material, piece-square, pawn-structure, king-safety, mobility, and
// coordination terms. Balance reports the score from Black's seat;
// Evaluate reports it from the side to move with a tempo bonus, which
// is what the search consumes.
package evaluation

// PhaseMax is the game phase of the full starting material. Phase 0 is
// a bare-kings endgame.
const PhaseMax = 256

// Score is a midgame/endgame pair. Terms accumulate componentwise and
// interpolate once, at the end.
type Score struct {
	MG, EG int32
}

// S builds a Score literal.
func S(mg, eg int32) Score { return Score{mg, eg} }

func (s Score) Add(o Score) Score   { return Score{s.MG + o.MG, s.EG + o.EG} }
func (s Score) Sub(o Score) Score   { return Score{s.MG - o.MG, s.EG - o.EG} }
func (s Score) Neg() Score          { return Score{-s.MG, -s.EG} }
func (s Score) Scale(n int32) Score { return Score{s.MG * n, s.EG * n} }

// Interpolate blends the pair linearly on a 0..PhaseMax phase.
func (s Score) Interpolate(phase int32) int32 {
	return (s.MG*phase + s.EG*(PhaseMax-phase)) / PhaseMax
}
