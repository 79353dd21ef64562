package shell

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// script runs a file of console commands, one per line. Lines starting
// with # are comments. The first failing line stops the run.
func (sc *Controller) script(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: script <path>")
	}
	f, err := os.Open(cmd.args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sub, err := extractFields(line)
		if err != nil {
			return nil, fmt.Errorf("script line %d: %w", lineno, err)
		}
		switch sub.cmd {
		case "script", "usi", "exit", "quit":
			return nil, fmt.Errorf("script line %d: %s not allowed in scripts",
				lineno, sub.cmd)
		}
		resp, err := sc.executeCommand(sub)
		if err != nil {
			return nil, fmt.Errorf("script line %d: %w", lineno, err)
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return msg("script " + cmd.args[0] + " done"), nil
}
