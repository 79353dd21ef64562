// Package kif reads KIF shogi game records, the export format of most
// Japanese client software. Bytes are decoded from Shift-JIS unless
// they are already valid UTF-8; the mainline is replayed move by move
// so every parsed record is known legal.
package kif

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/fgantt/shogi-ui-sub004/board"
	"github.com/fgantt/shogi-ui-sub004/move"
	"github.com/fgantt/shogi-ui-sub004/movegen"
	"github.com/fgantt/shogi-ui-sub004/position"
)

// Terminal markers that end a KIF mainline.
const (
	ResultResign     = "投了"
	ResultMate       = "詰み"
	ResultRepetition = "千日手"
	ResultAborted    = "中断"
	ResultImpasse    = "持将棋"
)

// Record is one parsed game record.
type Record struct {
	Headers map[string]string
	Black   string
	White   string
	Moves   []move.Move
	Result  string
}

var (
	headerRe   = regexp.MustCompile(`^([^：:]+)[：:](.*)$`)
	moveLineRe = regexp.MustCompile(`^\s*\d+\s+(.*)$`)
	terminalRe = regexp.MustCompile(`^(投了|詰み|千日手|中断|持将棋)`)
	// destination, piece, promotion marker, then 打 or an (fr) origin.
	bodyRe = regexp.MustCompile(`^(同|[１-９][一二三四五六七八九])[　\s]*` +
		`(成香|成桂|成銀|と|歩|香|桂|銀|金|角|飛|玉|王|馬|龍|竜)` +
		`(成|不成)?(?:(打)|\((\d)(\d)\))?`)
)

var fullWidthFiles = map[rune]int{
	'１': 1, '２': 2, '３': 3, '４': 4, '５': 5,
	'６': 6, '７': 7, '８': 8, '９': 9,
}

var kanjiRanks = map[rune]int{
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
}

var pieceNames = map[string]board.PieceType{
	"歩": board.Pawn, "香": board.Lance, "桂": board.Knight,
	"銀": board.Silver, "金": board.Gold, "角": board.Bishop,
	"飛": board.Rook, "玉": board.King, "王": board.King,
	"と": board.PromotedPawn, "成香": board.PromotedLance,
	"成桂": board.PromotedKnight, "成銀": board.PromotedSilver,
	"馬": board.Horse, "龍": board.Dragon, "竜": board.Dragon,
}

// Parse reads one record from raw file bytes.
func Parse(data []byte) (*Record, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}
	ps := &parser{
		rec: &Record{Headers: make(map[string]string)},
		pos: position.New(),
	}
	for i, line := range strings.Split(text, "\n") {
		if err := ps.parseLine(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return ps.rec, nil
}

// ParseReader reads one record from r.
func ParseReader(r io.Reader) (*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ParseFile reads one record from a .kif file.
func ParseFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// decode converts record bytes to UTF-8. KIF has no encoding pragma;
// legacy tooling writes Shift-JIS, modern exports write UTF-8.
func decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decoding record: %w", err)
	}
	return string(out), nil
}

// Final replays the mainline and returns the resulting position.
func (r *Record) Final() *position.Position {
	p := position.New()
	for _, m := range r.Moves {
		p.MakeMove(m)
	}
	return p
}

// USIMoves returns the mainline in USI notation.
func (r *Record) USIMoves() []string {
	return lo.Map(r.Moves, func(m move.Move, _ int) string { return m.String() })
}

type parser struct {
	rec    *Record
	pos    *position.Position
	lastTo board.Square
	haveTo bool
	done   bool
}

func (ps *parser) parseLine(line string) error {
	line = strings.TrimRight(line, "\r")
	trimmed := strings.TrimSpace(line)
	switch {
	case ps.done || trimmed == "":
		return nil
	case strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "*"):
		return nil
	case strings.HasPrefix(trimmed, "変化"):
		// Variations follow the mainline; we take the mainline only.
		ps.done = true
		return nil
	case strings.HasPrefix(trimmed, "手数--"):
		return nil
	}
	if m := moveLineRe.FindStringSubmatch(line); m != nil {
		return ps.parseMove(m[1])
	}
	if m := headerRe.FindStringSubmatch(trimmed); m != nil {
		key, val := m[1], strings.TrimSpace(m[2])
		ps.rec.Headers[key] = val
		switch key {
		case "先手", "下手":
			ps.rec.Black = val
		case "後手", "上手":
			ps.rec.White = val
		case "手合割":
			if val != "" && val != "平手" {
				return fmt.Errorf("unsupported handicap %q", val)
			}
		}
		return nil
	}
	return fmt.Errorf("unrecognized line %q", trimmed)
}

func (ps *parser) parseMove(body string) error {
	if m := terminalRe.FindStringSubmatch(body); m != nil {
		ps.rec.Result = m[1]
		ps.done = true
		return nil
	}
	m := bodyRe.FindStringSubmatch(body)
	if m == nil {
		return fmt.Errorf("unparsable move %q", body)
	}
	dest, pieceName, promoMark, dropMark := m[1], m[2], m[3], m[4]
	origFile, origRank := m[5], m[6]

	var to board.Square
	if dest == "同" {
		if !ps.haveTo {
			return errors.New("同 with no preceding move")
		}
		to = ps.lastTo
	} else {
		runes := []rune(dest)
		to = squareOf(fullWidthFiles[runes[0]], kanjiRanks[runes[1]])
	}
	pt := pieceNames[pieceName]

	var usi string
	switch {
	case dropMark == "打":
		usi = pt.String() + "*" + to.String()
	case origFile != "":
		from := squareOf(int(origFile[0]-'0'), int(origRank[0]-'0'))
		if got := ps.pos.PieceAt(from); got == board.NoPiece || got.Type() != pt {
			return fmt.Errorf("record has %s on %s, board disagrees", pieceName, from)
		}
		usi = from.String() + to.String()
		if promoMark == "成" {
			usi += "+"
		}
	default:
		return fmt.Errorf("move %q has neither origin nor 打", body)
	}

	mv, err := movegen.FindUSI(ps.pos, usi)
	if err != nil {
		return fmt.Errorf("move %d: %w", len(ps.rec.Moves)+1, err)
	}
	ps.pos.MakeMove(mv)
	ps.rec.Moves = append(ps.rec.Moves, mv)
	ps.lastTo = to
	ps.haveTo = true
	return nil
}

func squareOf(file, rank int) board.Square {
	return board.Square((rank-1)*9 + file - 1)
}
