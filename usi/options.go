package usi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fgantt/shogi-ui-sub004/bitboard"
	"github.com/fgantt/shogi-ui-sub004/search"
)

// option is one setoption-settable knob with its USI advertisement.
type option struct {
	name     string
	typ      string // spin, check, combo
	def      string
	min, max int
	vars     []string
	apply    func(e *Engine, value string) error
}

func (o option) declare() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "option name %s type %s default %s", o.name, o.typ, o.def)
	if o.typ == "spin" {
		fmt.Fprintf(&sb, " min %d max %d", o.min, o.max)
	}
	for _, v := range o.vars {
		fmt.Fprintf(&sb, " var %s", v)
	}
	return sb.String()
}

func spinOption(name string, def, lo, hi int, set func(*search.Settings, int)) option {
	return option{
		name: name,
		typ:  "spin",
		def:  strconv.Itoa(def),
		min:  lo,
		max:  hi,
		apply: func(e *Engine, value string) error {
			n, err := strconv.Atoi(value)
			if err != nil || n < lo || n > hi {
				return fmt.Errorf("%s wants an integer in [%d, %d], got %q", name, lo, hi, value)
			}
			return e.applySettings(func(s *search.Settings) { set(s, n) })
		},
	}
}

func checkOption(name string, def bool, set func(*search.Settings, bool)) option {
	return option{
		name: name,
		typ:  "check",
		def:  strconv.FormatBool(def),
		apply: func(e *Engine, value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%s wants true or false, got %q", name, value)
			}
			return e.applySettings(func(s *search.Settings) { set(s, b) })
		},
	}
}

var options = []option{
	spinOption("USI_Hash", 256, 1, 1<<20,
		func(s *search.Settings, n int) { s.TTSizeMB = n }),
	spinOption("Threads", 1, 1, 256,
		func(s *search.Settings, n int) { s.Threads = n }),
	spinOption("DepthLimit", 0, 0, 64,
		func(s *search.Settings, n int) { s.Depth = n }),
	checkOption("NullMove", true,
		func(s *search.Settings, b bool) { s.NullMove = b }),
	spinOption("NullMoveMinDepth", 2, 1, 64,
		func(s *search.Settings, n int) { s.NullMoveMinDepth = n }),
	spinOption("NullMoveReduction", 0, 0, 8,
		func(s *search.Settings, n int) { s.NullMoveReduction = n }),
	spinOption("MinorsForNull", 2, 0, 16,
		func(s *search.Settings, n int) { s.MinorsForNull = n }),
	spinOption("ParallelMinDepth", 5, 1, 64,
		func(s *search.Settings, n int) { s.ParallelMinDepth = n }),
	{
		name: "ScanKernel",
		typ:  "combo",
		def:  bitboard.ActiveKernel(),
		vars: bitboard.Kernels(),
		apply: func(e *Engine, value string) error {
			return bitboard.SetKernel(value)
		},
	},
	{
		name: "AutoProfile",
		typ:  "check",
		def:  "false",
		apply: func(e *Engine, value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("AutoProfile wants true or false, got %q", value)
			}
			e.autoProfile = b
			return nil
		},
	},
}

// handleSetOption parses "setoption name <id> [value <x>]". Options
// cannot change under a running search.
func (e *Engine) handleSetOption(args []string) error {
	if e.searching() {
		return errors.New("search in progress")
	}
	if len(args) < 2 || args[0] != "name" {
		return errors.New("setoption needs a name")
	}
	name := args[1]
	value := ""
	if len(args) >= 4 && args[2] == "value" {
		value = strings.Join(args[3:], " ")
	}
	for _, o := range options {
		if strings.EqualFold(o.name, name) {
			return o.apply(e, value)
		}
	}
	return fmt.Errorf("unknown option %q", name)
}

// applySettings mutates a copy of the solver settings and swaps it in
// if it still validates.
func (e *Engine) applySettings(mutate func(*search.Settings)) error {
	s := e.solver.Settings()
	mutate(&s)
	return e.solver.Configure(s)
}
