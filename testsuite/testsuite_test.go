package testsuite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/fgantt/shogi-ui-sub004/search"
)

func testSolver(t *testing.T) *search.Solver {
	t.Helper()
	s := search.NewSolver()
	cfg := search.DefaultSettings()
	cfg.TTSizeMB = 8
	if err := s.Configure(cfg); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseValidatesAndDedups(t *testing.T) {
	is := is.New(t)
	s, err := Parse([]byte(`
name: sample
depth: 2
cases:
  - name: one
    sfen: 8k/9/9/9/8L/9/9/9/4K4 b G 1
  - name: duplicate-of-one
    sfen: 8k/9/9/9/8L/9/9/9/4K4 b G 1
  - name: two
    sfen: 4k4/9/9/9/9/9/9/9/4K4 b P 1
`))
	is.NoErr(err)
	is.Equal(s.Name, "sample")
	is.Equal(len(s.Cases), 2)
	is.Equal(s.Cases[0].Name, "one")
	is.Equal(s.Cases[1].Name, "two")
}

func TestParseRejectsBadSFEN(t *testing.T) {
	is := is.New(t)
	_, err := Parse([]byte(`
cases:
  - name: broken
    sfen: not/a/position
`))
	is.True(err != nil)

	_, err = Parse([]byte("name: empty\ncases: []\n"))
	is.True(err != nil)
}

func TestLoadNamesAfterFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "smoke.yaml")
	is.NoErr(os.WriteFile(path, []byte(`
cases:
  - name: lone-kings
    sfen: 4k4/9/9/9/9/9/9/9/4K4 b P 1
`), 0o644))

	s, err := Load(path)
	is.NoErr(err)
	is.Equal(s.Name, "smoke")
	is.Equal(len(s.Cases), 1)
}

func TestBuiltinSuitesLoad(t *testing.T) {
	is := is.New(t)
	names := Builtin()
	is.Equal(names, []string{"bench", "mate", "zugzwang"})
	for _, n := range names {
		s, err := LoadBuiltin(n)
		is.NoErr(err)
		is.True(len(s.Cases) > 0)
	}

	_, err := LoadBuiltin("nonexistent")
	is.True(err != nil)
}

func TestRunMateSuite(t *testing.T) {
	is := is.New(t)
	suite, err := LoadBuiltin("mate")
	is.NoErr(err)

	rep, err := Run(context.Background(), testSolver(t), suite)
	is.NoErr(err)
	is.Equal(rep.Failed, 0)
	is.Equal(rep.Passed, len(suite.Cases))
	for _, r := range rep.Results {
		is.True(r.Passed)
	}
}

func TestRunZugzwangSuite(t *testing.T) {
	is := is.New(t)
	suite, err := LoadBuiltin("zugzwang")
	is.NoErr(err)

	solver := testSolver(t)
	before := solver.Settings()
	rep, err := Run(context.Background(), solver, suite)
	is.NoErr(err)
	is.Equal(rep.Failed, 0)
	is.Equal(solver.Settings(), before) // consistency runs restore settings
}

func TestRunBenchSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("bench suite is slow")
	}
	is := is.New(t)
	suite, err := LoadBuiltin("bench")
	is.NoErr(err)

	rep, err := Run(context.Background(), testSolver(t), suite)
	is.NoErr(err)
	is.Equal(rep.Failed, 0)
	for _, r := range rep.Results {
		is.True(r.Nodes > 0)
		is.True(r.Elapsed > 0)
	}
}

func TestJudgeVerdicts(t *testing.T) {
	is := is.New(t)
	suite, err := Parse([]byte(`
name: verdicts
depth: 2
cases:
  - name: wrong-best
    sfen: 8k/9/9/9/8L/9/9/9/4K4 b G 1
    best_moves:
      - P*5e
  - name: forbidden-move
    sfen: 8k/9/9/9/8L/9/9/9/4K4 b G 1
    avoid_moves:
      - G*1b
  - name: not-actually-resigned
    sfen: 8k/9/9/9/8L/9/9/9/4K4 b G 1
    expect_resign: true
`))
	is.NoErr(err)

	rep, err := Run(context.Background(), testSolver(t), suite)
	is.NoErr(err)
	is.Equal(rep.Passed, 0)
	is.Equal(rep.Failed, 3)
	for _, r := range rep.Results {
		is.True(r.Reason != "")
	}
}

func TestRunHonorsContext(t *testing.T) {
	is := is.New(t)
	suite, err := LoadBuiltin("mate")
	is.NoErr(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := Run(ctx, testSolver(t), suite)
	is.True(err != nil)
	is.Equal(len(rep.Results), 0)
}
