package position

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fgantt/shogi-ui-sub004/board"
)

// StartSFEN is the even-game starting position.
const StartSFEN = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"

// ParseSFEN parses an SFEN record: board field, side to move, hands, and
// an optional move number. Parsing never mutates shared state; on error
// the partial position is discarded.
func ParseSFEN(s string) (*Position, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) < 3 {
		return nil, fmt.Errorf("sfen %q: need board, side, and hand fields", s)
	}
	p := &Position{moveNum: 1}

	rows := strings.Split(fields[0], "/")
	if len(rows) != 9 {
		return nil, fmt.Errorf("sfen board has %d ranks, want 9", len(rows))
	}
	for r, row := range rows {
		f := 8
		promoted := false
		for i := 0; i < len(row); i++ {
			ch := row[i]
			switch {
			case ch >= '1' && ch <= '9':
				if promoted {
					return nil, fmt.Errorf("sfen rank %c: + before empty run", 'a'+r)
				}
				f -= int(ch - '0')
			case ch == '+':
				if promoted {
					return nil, fmt.Errorf("sfen rank %c: doubled +", 'a'+r)
				}
				promoted = true
			default:
				if f < 0 {
					return nil, fmt.Errorf("sfen rank %c overflows the board", 'a'+r)
				}
				c := board.Black
				letter := ch
				if ch >= 'a' && ch <= 'z' {
					c = board.White
					letter = ch - 'a' + 'A'
				}
				pt, err := board.ParsePieceTypeLetter(letter)
				if err != nil {
					return nil, fmt.Errorf("sfen rank %c: %v", 'a'+r, err)
				}
				if promoted {
					pt = pt.Promoted()
					if pt == board.NoPieceType {
						return nil, fmt.Errorf("sfen rank %c: %q cannot promote", 'a'+r, string(letter))
					}
					promoted = false
				}
				if pt == board.King && !p.pieces[c][board.King].IsEmpty() {
					return nil, fmt.Errorf("sfen: two %v kings", c)
				}
				p.putPiece(c, pt, board.NewSquare(f, r))
				f--
			}
		}
		if f != -1 || promoted {
			return nil, fmt.Errorf("sfen rank %c covers %d files, want 9", 'a'+r, 8-f)
		}
	}

	switch fields[1] {
	case "b":
		p.stm = board.Black
	case "w":
		p.stm = board.White
	default:
		return nil, fmt.Errorf("sfen side %q, want b or w", fields[1])
	}

	if fields[2] != "-" {
		n := 0
		for i := 0; i < len(fields[2]); i++ {
			ch := fields[2][i]
			if ch >= '0' && ch <= '9' {
				n = n*10 + int(ch-'0')
				continue
			}
			c := board.Black
			letter := ch
			if ch >= 'a' && ch <= 'z' {
				c = board.White
				letter = ch - 'a' + 'A'
			}
			pt, err := board.ParsePieceTypeLetter(letter)
			if err != nil || pt == board.King {
				return nil, fmt.Errorf("sfen hand: bad piece %q", string(rune(ch)))
			}
			if n == 0 {
				n = 1
			}
			if int(p.hands[c][pt])+n > maxHandCount {
				return nil, fmt.Errorf("sfen hand: %d %v pieces is past the full set", n, pt)
			}
			p.hands[c][pt] += uint8(n)
			n = 0
		}
		if n != 0 {
			return nil, fmt.Errorf("sfen hand: dangling count %d", n)
		}
	}

	if len(fields) >= 4 {
		mn, err := strconv.Atoi(fields[3])
		if err != nil || mn < 1 {
			return nil, fmt.Errorf("sfen move number %q", fields[3])
		}
		p.moveNum = mn
	}

	p.computeHash()
	return p, nil
}

// SFEN renders the position as an SFEN record.
func (p *Position) SFEN() string {
	var sb strings.Builder
	for r := 0; r < 9; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for f := 8; f >= 0; f-- {
			pc := p.squares[board.NewSquare(f, r)]
			if pc == board.NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}

	sb.WriteByte(' ')
	if p.stm == board.Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}
	sb.WriteByte(' ')

	hands := ""
	for _, c := range []board.Color{board.Black, board.White} {
		for _, pt := range board.HandPieceTypes {
			n := int(p.hands[c][pt])
			if n == 0 {
				continue
			}
			letter := pt.String()
			if c == board.White {
				letter = strings.ToLower(letter)
			}
			if n > 1 {
				hands += strconv.Itoa(n)
			}
			hands += letter
		}
	}
	if hands == "" {
		hands = "-"
	}
	sb.WriteString(hands)

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.moveNum))
	return sb.String()
}
