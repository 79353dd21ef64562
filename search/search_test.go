package search

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/movegen"
	"github.com/fgantt/shogi-ui-sub004/position"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func fromSFEN(t *testing.T, sfen string) *position.Position {
	t.Helper()
	p, err := position.ParseSFEN(sfen)
	if err != nil {
		t.Fatalf("bad sfen %q: %v", sfen, err)
	}
	return p
}

func testSolver(t *testing.T, mutate func(*Settings)) *Solver {
	t.Helper()
	s := NewSolver()
	cfg := DefaultSettings()
	cfg.TTSizeMB = 8
	if mutate != nil {
		mutate(&cfg)
	}
	if err := s.Configure(cfg); err != nil {
		t.Fatal(err)
	}
	return s
}

// The gold drop on 1b, backed by the lance, is the only mate.
const mateInOneSFEN = "8k/9/9/9/8L/9/9/9/4K4 b G 1"

func TestFindsMateInOne(t *testing.T) {
	is := is.New(t)
	s := testSolver(t, func(c *Settings) { c.Depth = 2 })
	res := s.Search(context.Background(), fromSFEN(t, mateInOneSFEN), Limits{})

	is.True(!res.Resign)
	is.Equal(res.Move.String(), "G*1b")
	is.True(IsMateScore(res.Score))
	plies, ok := MatePlies(res.Score)
	is.True(ok)
	is.Equal(plies, 1)
}

func TestMateDistanceStableAcrossDepths(t *testing.T) {
	is := is.New(t)
	s := testSolver(t, func(c *Settings) { c.Depth = 5 })
	res := s.Search(context.Background(), fromSFEN(t, mateInOneSFEN), Limits{})

	is.Equal(res.Move.String(), "G*1b")
	is.Equal(res.Score, mateIn(1))
}

func TestResignWithNoLegalMoves(t *testing.T) {
	is := is.New(t)
	s := testSolver(t, func(c *Settings) { c.Depth = 3 })
	res := s.Search(context.Background(), fromSFEN(t, "8k/8G/9/9/8L/9/9/9/4K4 w - 1"), Limits{})
	is.True(res.Resign)
}

func TestStartposDepthFour(t *testing.T) {
	is := is.New(t)
	s := testSolver(t, func(c *Settings) { c.Depth = 4 })
	p := position.New()
	res := s.Search(context.Background(), p, Limits{})

	is.True(!res.Resign)
	_, err := movegen.FindUSI(p, res.Move.String())
	is.NoErr(err) // best move is legal in the root position
	is.True(res.Score >= -50 && res.Score <= 50)
	is.True(res.Stats.Nodes > 0)
	is.Equal(res.Depth, 4)
	is.Equal(len(res.Depths), 4)

	is.Equal(len(res.Roots), 30) // every root move reported
	is.Equal(res.Roots[0].Move, res.Move)
	for i := 1; i < len(res.Roots); i++ {
		is.True(res.Roots[i-1].Score >= res.Roots[i].Score)
	}
}

func TestIterationsDeepenInOrder(t *testing.T) {
	is := is.New(t)
	s := testSolver(t, func(c *Settings) { c.Depth = 3 })
	p := position.New()

	var depths []int
	s.SetProgress(func(info Info) { depths = append(depths, info.Depth) })
	res := s.Search(context.Background(), p, Limits{})

	is.Equal(depths, []int{1, 2, 3})
	for i, ds := range res.Depths {
		is.Equal(ds.Depth, i+1)
		is.True(ds.Nodes > 0)
		is.True(len(ds.PV) > 0)
		_, err := movegen.FindUSI(p, ds.Move.String())
		is.NoErr(err)
	}
}

func TestQuiescenceTakesHangingRook(t *testing.T) {
	is := is.New(t)
	s := testSolver(t, func(c *Settings) { c.Depth = 1 })
	res := s.Search(context.Background(), fromSFEN(t, "4k4/9/9/9/4r4/4P4/9/9/4K4 b - 1"), Limits{})

	is.Equal(res.Move.String(), "5f5e")
	is.True(res.Score > 800)
}

func TestThreadCountDoesNotChangeForcedResult(t *testing.T) {
	is := is.New(t)

	single := testSolver(t, func(c *Settings) { c.Depth = 3; c.Threads = 1 })
	one := single.Search(context.Background(), fromSFEN(t, mateInOneSFEN), Limits{})

	multi := testSolver(t, func(c *Settings) {
		c.Depth = 3
		c.Threads = 4
		c.ParallelMinDepth = 1
	})
	many := multi.Search(context.Background(), fromSFEN(t, mateInOneSFEN), Limits{})

	is.Equal(one.Move, many.Move)
	is.Equal(one.Score, many.Score)
}

func TestNullMoveSafeInPawnEndgame(t *testing.T) {
	is := is.New(t)
	sfen := "4k4/4p4/9/9/9/9/4P4/9/4K4 b - 1"

	withNull := testSolver(t, func(c *Settings) { c.Depth = 4; c.NullMove = true })
	a := withNull.Search(context.Background(), fromSFEN(t, sfen), Limits{})

	without := testSolver(t, func(c *Settings) { c.Depth = 4; c.NullMove = false })
	b := without.Search(context.Background(), fromSFEN(t, sfen), Limits{})

	is.Equal(a.Move, b.Move)
	is.Equal(a.Score, b.Score)
}

func TestStopViaContext(t *testing.T) {
	is := is.New(t)
	s := testSolver(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res := s.Search(ctx, position.New(), Limits{Infinite: true})
	is.True(time.Since(start) < 10*time.Second)
	is.True(res.Move != move.MoveNone)
}

func TestByoyomiBudgetRespected(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	is := is.New(t)
	s := testSolver(t, nil)

	start := time.Now()
	res := s.Search(context.Background(), position.New(), Limits{Byoyomi: 200 * time.Millisecond})
	is.True(time.Since(start) < 5*time.Second)
	is.True(res.Depth >= 1)
}

func TestFallbackPrefersCapture(t *testing.T) {
	is := is.New(t)
	s := NewSolver()
	p := fromSFEN(t, "4k4/9/9/9/4r4/4P4/9/9/4K4 b - 1")
	legal := movegen.Legal(p, nil)
	is.Equal(s.fallback(p, legal).String(), "5f5e")
}

func TestSettingsValidation(t *testing.T) {
	is := is.New(t)
	is.NoErr(DefaultSettings().Validate())

	bad := DefaultSettings()
	bad.Threads = 0
	is.True(bad.Validate() != nil)

	bad = DefaultSettings()
	bad.TTSizeMB = 0
	is.True(bad.Validate() != nil)

	bad = DefaultSettings()
	bad.NullMoveReduction = 99
	is.True(bad.Validate() != nil)

	bad = DefaultSettings()
	bad.Depth = -1
	is.True(bad.Validate() != nil)
}

func TestStatsAccumulate(t *testing.T) {
	is := is.New(t)
	s := testSolver(t, func(c *Settings) { c.Depth = 3 })
	res := s.Search(context.Background(), position.New(), Limits{})

	is.True(res.Stats.Nodes > 0)
	is.True(res.Stats.TTProbes > 0)
	rate := res.Stats.TTHitRate()
	is.True(rate >= 0 && rate <= 1)
}
