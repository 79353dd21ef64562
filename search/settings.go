package search

import "fmt"

// Settings is the solver's typed configuration surface. Values arrive
// from the protocol layer as strings and are range-checked here, once,
// before a search can see them.
type Settings struct {
	// Depth caps iterative deepening; 0 means no cap.
	Depth int
	// TTSizeMB sizes the transposition table in mebibytes.
	TTSizeMB int
	// Threads is the worker count for root parallelism.
	Threads int
	// NullMove enables null-move pruning.
	NullMove bool
	// NullMoveMinDepth is the least remaining depth that may try a
	// null move.
	NullMoveMinDepth int
	// NullMoveReduction is the null-move depth reduction in plies;
	// 0 scales the reduction with remaining depth.
	NullMoveReduction int
	// MinorsForNull is the least non-pawn material, counting board and
	// hand, the side to move must keep for null-move pruning to apply.
	// Below it the position is treated as zugzwang-prone.
	MinorsForNull int
	// ParallelMinDepth keeps iterations shallower than this on a
	// single thread, where fan-out overhead outweighs the tree.
	ParallelMinDepth int
}

// DefaultSettings mirrors the engine's USI option defaults.
func DefaultSettings() Settings {
	return Settings{
		Depth:             0,
		TTSizeMB:          256,
		Threads:           1,
		NullMove:          true,
		NullMoveMinDepth:  2,
		NullMoveReduction: 0,
		MinorsForNull:     2,
		ParallelMinDepth:  5,
	}
}

func (s Settings) Validate() error {
	if s.Depth < 0 || s.Depth > maxDepth {
		return fmt.Errorf("depth cap %d outside 0..%d", s.Depth, maxDepth)
	}
	if s.TTSizeMB < 1 || s.TTSizeMB > 1<<20 {
		return fmt.Errorf("table size %dMB outside 1..%d", s.TTSizeMB, 1<<20)
	}
	if s.Threads < 1 || s.Threads > 256 {
		return fmt.Errorf("thread count %d outside 1..256", s.Threads)
	}
	if s.NullMoveMinDepth < 1 || s.NullMoveMinDepth > maxDepth {
		return fmt.Errorf("null-move minimum depth %d outside 1..%d", s.NullMoveMinDepth, maxDepth)
	}
	if s.NullMoveReduction < 0 || s.NullMoveReduction > 8 {
		return fmt.Errorf("null-move reduction %d outside 0..8", s.NullMoveReduction)
	}
	if s.MinorsForNull < 0 || s.MinorsForNull > 16 {
		return fmt.Errorf("null-move material floor %d outside 0..16", s.MinorsForNull)
	}
	if s.ParallelMinDepth < 1 || s.ParallelMinDepth > maxDepth {
		return fmt.Errorf("parallel minimum depth %d outside 1..%d", s.ParallelMinDepth, maxDepth)
	}
	return nil
}
