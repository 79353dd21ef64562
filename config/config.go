// Package config resolves process settings from command-line flags,
// KARASU_-prefixed environment variables, and an optional YAML file,
// in that precedence order.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fgantt/shogi-ui-sub004/search"
)

// Config wraps a viper instance behind typed getters. Zero value is
// unusable; call Load first.
type Config struct {
	v    *viper.Viper
	rest []string
}

func defaults() search.Settings { return search.DefaultSettings() }

// Load parses args and binds them over environment variables and the
// config file named by --config, if any.
func (c *Config) Load(args []string) error {
	def := defaults()

	fs := pflag.NewFlagSet("karasu", pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.Bool("debug", false, "enable debug logging")
	fs.String("log-level", "info", "zerolog level: debug, info, warn, error")
	fs.String("cpu-profile", "", "write a CPU profile to this file")
	fs.String("mem-profile", "", "write a heap profile to this file on exit")
	fs.Int("tt-size-mb", def.TTSizeMB, "transposition table size in MiB")
	fs.Int("threads", def.Threads, "search worker count")
	fs.Int("depth-limit", def.Depth, "maximum search depth, 0 for none")
	fs.Bool("null-move", def.NullMove, "enable null-move pruning")
	fs.Int("null-move-min-depth", def.NullMoveMinDepth, "minimum depth for a null-move try")
	fs.Int("null-move-reduction", def.NullMoveReduction, "null-move depth reduction, 0 scales with depth")
	fs.Int("minors-for-null", def.MinorsForNull, "non-pawn pieces required before a null move")
	fs.Int("parallel-min-depth", def.ParallelMinDepth, "iteration depth where root parallelism starts")
	fs.String("scan-kernel", "", "bit-scan kernel: hardware, debruijn, portable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix("karasu")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}
	c.v = v
	c.rest = fs.Args()
	return nil
}

// Args returns the positional arguments left after flag parsing.
func (c *Config) Args() []string { return c.rest }

func (c *Config) GetString(key string) string { return c.v.GetString(key) }
func (c *Config) GetInt(key string) int       { return c.v.GetInt(key) }
func (c *Config) GetBool(key string) bool     { return c.v.GetBool(key) }

// AllSettings returns the resolved configuration for logging at
// startup.
func (c *Config) AllSettings() map[string]any { return c.v.AllSettings() }

// SearchSettings maps the search-related keys onto a validated
// Settings value.
func (c *Config) SearchSettings() (search.Settings, error) {
	s := search.Settings{
		Depth:             c.GetInt("depth-limit"),
		TTSizeMB:          c.GetInt("tt-size-mb"),
		Threads:           c.GetInt("threads"),
		NullMove:          c.GetBool("null-move"),
		NullMoveMinDepth:  c.GetInt("null-move-min-depth"),
		NullMoveReduction: c.GetInt("null-move-reduction"),
		MinorsForNull:     c.GetInt("minors-for-null"),
		ParallelMinDepth:  c.GetInt("parallel-min-depth"),
	}
	if err := s.Validate(); err != nil {
		return search.Settings{}, err
	}
	return s, nil
}
