package search

import (
	"time"

	"github.com/fgantt/shogi-ui-sub004/move"
)

// Stats are the counters one search accumulates. Each worker owns a
// private copy; they are summed at join points, so none of the fields
// need atomics.
type Stats struct {
	Nodes   uint64
	QNodes  uint64
	Cutoffs uint64

	SelDepth int

	TTProbes  uint64
	TTHits    uint64
	TTCutoffs uint64
	TTStores  uint64
	TTDropped uint64

	NullTried       uint64
	NullCutoffs     uint64
	NullVerifyFails uint64
}

// Add folds another worker's counters into s.
func (s *Stats) Add(o Stats) {
	s.Nodes += o.Nodes
	s.QNodes += o.QNodes
	s.Cutoffs += o.Cutoffs
	if o.SelDepth > s.SelDepth {
		s.SelDepth = o.SelDepth
	}
	s.TTProbes += o.TTProbes
	s.TTHits += o.TTHits
	s.TTCutoffs += o.TTCutoffs
	s.TTStores += o.TTStores
	s.TTDropped += o.TTDropped
	s.NullTried += o.NullTried
	s.NullCutoffs += o.NullCutoffs
	s.NullVerifyFails += o.NullVerifyFails
}

// TTHitRate is the fraction of probes answered from the table.
func (s Stats) TTHitRate() float64 {
	if s.TTProbes == 0 {
		return 0
	}
	return float64(s.TTHits) / float64(s.TTProbes)
}

// DepthStats records one completed iteration for reporting and for
// benchmark tooling.
type DepthStats struct {
	Depth   int
	Score   int32
	Move    move.Move
	PV      []move.Move
	Nodes   uint64
	Elapsed time.Duration
}
