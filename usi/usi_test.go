package usi

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/movegen"
	"github.com/fgantt/shogi-ui-sub004/position"
	"github.com/fgantt/shogi-ui-sub004/search"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	solver := search.NewSolver()
	cfg := search.DefaultSettings()
	cfg.TTSizeMB = 8
	if err := solver.Configure(cfg); err != nil {
		t.Fatal(err)
	}
	return NewEngine(solver)
}

// syncBuffer lets the test read output while the search goroutine is
// still writing to it.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

// session runs the engine loop over a pipe so commands can be paced
// against observed output.
type session struct {
	w    io.WriteCloser
	out  *syncBuffer
	done chan error
}

func startSession(t *testing.T) *session {
	t.Helper()
	e := testEngine(t)
	pr, pw := io.Pipe()
	s := &session{w: pw, out: &syncBuffer{}, done: make(chan error, 1)}
	go func() { s.done <- e.Run(pr, s.out) }()
	t.Cleanup(func() {
		pw.Close()
		<-s.done
	})
	return s
}

func (s *session) sendLine(t *testing.T, line string) {
	t.Helper()
	if _, err := fmt.Fprintln(s.w, line); err != nil {
		t.Fatal(err)
	}
}

func (s *session) waitFor(t *testing.T, substr string) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(s.out.String(), substr) {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q, got:\n%s", substr, s.out.String())
}

func (s *session) lines() []string {
	return strings.Split(strings.TrimRight(s.out.String(), "\n"), "\n")
}

func TestHandshake(t *testing.T) {
	is := is.New(t)
	s := startSession(t)
	s.sendLine(t, "usi")
	s.waitFor(t, "usiok")

	lines := s.lines()
	is.Equal(lines[0], "id name Karasu "+Version)
	is.Equal(lines[1], "id author fgantt")
	out := s.out.String()
	is.True(strings.Contains(out,
		"option name USI_Hash type spin default 256 min 1 max 1048576"))
	is.True(strings.Contains(out, "option name Threads type spin"))
	is.True(strings.Contains(out, "option name NullMove type check default true"))
	is.True(strings.Contains(out,
		"option name ScanKernel type combo default hardware var hardware var debruijn var portable"))
	is.Equal(lines[len(lines)-1], "usiok")
}

func TestIsReady(t *testing.T) {
	is := is.New(t)
	s := startSession(t)
	s.sendLine(t, "isready")
	s.waitFor(t, "readyok")
	is.True(strings.Contains(s.out.String(), "readyok"))
}

func TestGoDepthEmitsInfoAndBestmove(t *testing.T) {
	is := is.New(t)
	s := startSession(t)
	s.sendLine(t, "isready")
	s.waitFor(t, "readyok")
	s.sendLine(t, "position startpos")
	s.sendLine(t, "go depth 2")
	s.waitFor(t, "bestmove")

	out := s.out.String()
	is.True(strings.Contains(out, "info depth 1 "))
	is.True(strings.Contains(out, "info depth 2 "))
	is.True(strings.Contains(out, " score cp "))
	is.True(strings.Contains(out, " pv "))

	var best string
	for _, line := range s.lines() {
		if rest, ok := strings.CutPrefix(line, "bestmove "); ok {
			best = rest
		}
	}
	_, err := movegen.FindUSI(position.New(), best)
	is.NoErr(err) // bestmove must be legal in the root position
}

func TestGoReportsMateScore(t *testing.T) {
	is := is.New(t)
	s := startSession(t)
	s.sendLine(t, "position sfen 8k/9/9/9/8L/9/9/9/4K4 b G 1")
	s.sendLine(t, "go depth 3")
	s.waitFor(t, "bestmove")

	out := s.out.String()
	is.True(strings.Contains(out, " score mate 1 "))
	is.True(strings.Contains(out, "bestmove G*1b"))
}

func TestResignWhenMated(t *testing.T) {
	is := is.New(t)
	s := startSession(t)
	s.sendLine(t, "position sfen 8k/8G/9/9/8L/9/9/9/4K4 w - 1")
	s.sendLine(t, "go depth 1")
	s.waitFor(t, "bestmove resign")
	is.True(strings.Contains(s.out.String(), "bestmove resign"))
}

func TestStopEndsInfiniteSearch(t *testing.T) {
	is := is.New(t)
	s := startSession(t)
	s.sendLine(t, "position startpos")
	s.sendLine(t, "go infinite")
	s.waitFor(t, "info depth 1 ")
	s.sendLine(t, "stop")
	s.waitFor(t, "bestmove")
	is.True(strings.Contains(s.out.String(), "bestmove "))
}

func TestMalformedCommandsIgnored(t *testing.T) {
	is := is.New(t)
	s := startSession(t)
	s.sendLine(t, "position startpos moves 7g7e")
	s.sendLine(t, "go depth nope")
	s.sendLine(t, "setoption name Bogus value 1")
	s.sendLine(t, "flurble")
	s.sendLine(t, "isready")
	s.waitFor(t, "readyok")
	is.True(!strings.Contains(s.out.String(), "bestmove"))
}

func TestPositionAppliesAtomically(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)
	e.out = io.Discard

	is.NoErr(e.handlePosition(strings.Fields("startpos moves 7g7f")))
	staged := e.pos.SFEN()

	err := e.handlePosition(strings.Fields("startpos moves 2g2f 2g2e"))
	is.True(err != nil) // 2g2e repeats the moved pawn's origin
	is.Equal(e.pos.SFEN(), staged)

	err = e.handlePosition(strings.Fields("sfen not a position 1"))
	is.True(err != nil)
	is.Equal(e.pos.SFEN(), staged)
}

func TestPositionSfenWithMoves(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)
	e.out = io.Discard

	is.NoErr(e.handlePosition(strings.Fields(
		"sfen 8k/9/9/9/8L/9/9/9/4K4 b G 1 moves G*1b")))
	is.Equal(e.pos.SideToMove(), board.White)
	is.True(!movegen.HasLegal(e.pos))
}

func TestParseGo(t *testing.T) {
	is := is.New(t)

	l, err := parseGo(strings.Fields("btime 60000 wtime 45000 byoyomi 10000"))
	is.NoErr(err)
	is.Equal(l.BTime, time.Minute)
	is.Equal(l.WTime, 45*time.Second)
	is.Equal(l.Byoyomi, 10*time.Second)
	is.True(!l.Infinite)

	l, err = parseGo(strings.Fields("binc 2000 winc 3000"))
	is.NoErr(err)
	is.Equal(l.BInc, 2*time.Second)
	is.Equal(l.WInc, 3*time.Second)

	l, err = parseGo(strings.Fields("movetime 500"))
	is.NoErr(err)
	is.Equal(l.MoveTime, 500*time.Millisecond)

	l, err = parseGo(strings.Fields("depth 8"))
	is.NoErr(err)
	is.Equal(l.Depth, 8)

	l, err = parseGo(strings.Fields("infinite"))
	is.NoErr(err)
	is.True(l.Infinite)

	_, err = parseGo(strings.Fields("btime"))
	is.True(err != nil)
	_, err = parseGo(strings.Fields("btime -5"))
	is.True(err != nil)
	_, err = parseGo(strings.Fields("ponder"))
	is.True(err != nil)
}

func TestSetOption(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)
	e.out = io.Discard

	is.NoErr(e.handleSetOption(strings.Fields("name Threads value 4")))
	is.Equal(e.solver.Settings().Threads, 4)

	is.NoErr(e.handleSetOption(strings.Fields("name DepthLimit value 12")))
	is.Equal(e.solver.Settings().Depth, 12)

	is.NoErr(e.handleSetOption(strings.Fields("name NullMove value false")))
	is.True(!e.solver.Settings().NullMove)

	is.NoErr(e.handleSetOption(strings.Fields("name AutoProfile value true")))
	is.True(e.autoProfile)

	err := e.handleSetOption(strings.Fields("name Threads value many"))
	is.True(err != nil)
	is.Equal(e.solver.Settings().Threads, 4)

	err = e.handleSetOption(strings.Fields("name NoSuchOption value 1"))
	is.True(err != nil)

	err = e.handleSetOption(strings.Fields("value 1"))
	is.True(err != nil)
}

func TestOptionDeclarations(t *testing.T) {
	is := is.New(t)
	for _, o := range options {
		d := o.declare()
		is.True(strings.HasPrefix(d, "option name "+o.name+" type "+o.typ))
	}
}
