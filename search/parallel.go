package search

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fgantt/shogi-ui-sub004/move"
)

// searchRootParallel runs one iteration under the Young-Brothers-Wait
// discipline: the first root move is searched to completion on the
// main worker, and only then do the remaining siblings fan out across
// the pool, each worker on its own position clone against the shared
// alpha. Ties in the final score go to the lowest move index, so the
// chosen move matches what the sequential loop would pick.
func searchRootParallel(workers []*worker, roots []rootMove, depth int) (int, int32, []move.Move, error) {
	main := workers[0]
	u := main.pos.MakeMove(roots[0].move)
	v, err := main.negamax(depth-1, 1, -scoreInfinity, scoreInfinity, true)
	main.pos.UnmakeMove(u)
	if err != nil {
		return 0, 0, nil, err
	}
	first := -v
	roots[0].score = first

	var (
		mu      sync.Mutex
		alpha   = first
		bestIdx = 0
		bestPV  = appendPV(roots[0].move, main.pv.line(1))
	)

	jobs := make(chan int, len(roots))
	for i := 1; i < len(roots); i++ {
		jobs <- i
	}
	close(jobs)

	var g errgroup.Group
	for _, wk := range workers {
		wk := wk
		g.Go(func() error {
			for i := range jobs {
				mu.Lock()
				localAlpha := alpha
				mu.Unlock()

				u := wk.pos.MakeMove(roots[i].move)
				v, err := wk.negamax(depth-1, 1, -scoreInfinity, -localAlpha, true)
				wk.pos.UnmakeMove(u)
				if err != nil {
					return err
				}
				v = -v
				roots[i].score = v

				mu.Lock()
				if v > alpha || (v == alpha && i < bestIdx) {
					alpha = v
					bestIdx = i
					bestPV = appendPV(roots[i].move, wk.pv.line(1))
				}
				mu.Unlock()
			}
			wk.ttw.Flush()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, nil, err
	}
	return bestIdx, alpha, bestPV, nil
}
