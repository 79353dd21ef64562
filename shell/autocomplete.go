package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/fgantt/shogi-ui-sub004/bitboard"
	"github.com/fgantt/shogi-ui-sub004/testsuite"
)

// Completer implements readline.AutoComplete for console commands,
// their options, and the argument values that are knowable up front.
type Completer struct{}

func newCompleter() *Completer { return &Completer{} }

// commandMetadata maps command names to their options and fixed
// argument values. These mirror the handlers in api.go and analyze.go.
type commandMetadata struct {
	Options []string
	Args    []string
}

var commandNames = []string{
	"help", "load", "turn", "play", "undo", "show", "sfen", "legal",
	"perft", "divide", "eval", "search", "go", "stats", "suite",
	"suites", "bench", "set", "kernel", "validate", "script", "usi",
	"exit", "quit",
}

var boolValues = []string{"true", "false"}

func metadataFor(cmd string) (commandMetadata, bool) {
	switch cmd {
	case "load":
		return commandMetadata{Args: []string{"startpos", "sfen", "kif"}}, true
	case "search", "go":
		return commandMetadata{Options: []string{"-time"}}, true
	case "suite":
		return commandMetadata{Options: []string{"-depth"}, Args: testsuite.Builtin()}, true
	case "bench":
		return commandMetadata{Options: []string{"-runs", "-depth"}}, true
	case "kernel":
		return commandMetadata{Args: bitboard.Kernels()}, true
	case "set":
		names := make([]string, len(settingsTable))
		for i, def := range settingsTable {
			names[i] = def.name
		}
		return commandMetadata{Args: names}, true
	case "help":
		return commandMetadata{Args: commandNames}, true
	}
	return commandMetadata{}, false
}

// Do completes the word under the cursor from what is known about the
// command being typed.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastComplete string
		if endsWithSpace {
			lastComplete = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastComplete = fields[len(fields)-2]
		}
		if fields[0] == "set" && lastComplete == "null-move" {
			completions = boolValues
		} else if metadata, ok := metadataFor(fields[0]); ok {
			if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
				completions = metadata.Options
			} else {
				completions = metadata.Args
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
