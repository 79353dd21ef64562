// Package testsuite loads YAML position suites and runs them against a
// solver. Suites drive the shell's suite command and the regression
// tests for search behavior.
package testsuite

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/fgantt/shogi-ui-sub004/position"
)

//go:embed suites/*.yaml
var builtin embed.FS

// Case is one suite position with its expectations. All expectation
// fields are optional; a case without any merely has to finish.
type Case struct {
	Name string `yaml:"name"`
	SFEN string `yaml:"sfen"`

	// BestMoves passes when the searched move is any of these; the
	// strings use USI notation.
	BestMoves []string `yaml:"best_moves,omitempty"`
	// AvoidMoves fails the case when the searched move is among them.
	AvoidMoves []string `yaml:"avoid_moves,omitempty"`
	// MateIn requires a mate score with exactly this many plies.
	MateIn int `yaml:"mate_in,omitempty"`
	// ExpectResign requires the searcher to find no legal move.
	ExpectResign bool `yaml:"expect_resign,omitempty"`
	// CheckNullConsistency searches twice, null move on and off, and
	// requires the same move and score from both.
	CheckNullConsistency bool `yaml:"check_null_consistency,omitempty"`
	// Depth overrides the suite depth for this case.
	Depth int `yaml:"depth,omitempty"`
}

// Suite is a named list of cases with a shared default depth.
type Suite struct {
	Name  string `yaml:"name"`
	Depth int    `yaml:"depth"`
	Cases []Case `yaml:"cases"`
}

// Parse unmarshals a suite, validates every SFEN, and drops duplicate
// positions, keeping the first occurrence.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("suite %q has no cases", s.Name)
	}

	seen := make(map[uint64]string, len(s.Cases))
	kept := s.Cases[:0]
	for _, c := range s.Cases {
		p, err := position.ParseSFEN(c.SFEN)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}
		key := xxhash.Sum64String(p.SFEN())
		if prev, dup := seen[key]; dup {
			log.Warn().Str("case", c.Name).Str("duplicate_of", prev).
				Msg("dropping duplicate suite position")
			continue
		}
		seen[key] = c.Name
		kept = append(kept, c)
	}
	s.Cases = kept
	return &s, nil
}

// Load reads a suite from a YAML file. An empty suite name defaults to
// the file's base name.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Builtin lists the names of the embedded suites.
func Builtin() []string {
	entries, err := builtin.ReadDir("suites")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return names
}

// LoadBuiltin returns an embedded suite by name.
func LoadBuiltin(name string) (*Suite, error) {
	data, err := builtin.ReadFile("suites/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no builtin suite %q", name)
	}
	return Parse(data)
}
