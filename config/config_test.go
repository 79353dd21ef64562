package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/fgantt/shogi-ui-sub004/search"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load(nil))

	is.Equal(c.GetInt("tt-size-mb"), 256)
	is.Equal(c.GetInt("threads"), 1)
	is.Equal(c.GetBool("debug"), false)
	is.Equal(c.GetString("log-level"), "info")
	is.Equal(c.GetString("scan-kernel"), "")

	s, err := c.SearchSettings()
	is.NoErr(err)
	is.Equal(s, search.DefaultSettings())
}

func TestFlagOverrides(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{
		"--threads", "4",
		"--null-move=false",
		"--depth-limit", "10",
		"--scan-kernel", "portable",
		"--debug",
	}))

	is.Equal(c.GetInt("threads"), 4)
	is.Equal(c.GetBool("null-move"), false)
	is.Equal(c.GetInt("depth-limit"), 10)
	is.Equal(c.GetString("scan-kernel"), "portable")
	is.True(c.GetBool("debug"))

	s, err := c.SearchSettings()
	is.NoErr(err)
	is.Equal(s.Threads, 4)
	is.Equal(s.NullMove, false)
	is.Equal(s.Depth, 10)
}

func TestEnvOverrides(t *testing.T) {
	is := is.New(t)
	t.Setenv("KARASU_THREADS", "8")
	t.Setenv("KARASU_TT_SIZE_MB", "32")

	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetInt("threads"), 8)
	is.Equal(c.GetInt("tt-size-mb"), 32)
}

func TestConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "karasu.yaml")
	is.NoErr(os.WriteFile(path, []byte("threads: 3\ntt-size-mb: 16\n"), 0o644))

	c := &Config{}
	is.NoErr(c.Load([]string{"--config", path}))
	is.Equal(c.GetInt("threads"), 3)
	is.Equal(c.GetInt("tt-size-mb"), 16)

	// An explicit flag still beats the file.
	c = &Config{}
	is.NoErr(c.Load([]string{"--config", path, "--threads", "5"}))
	is.Equal(c.GetInt("threads"), 5)
	is.Equal(c.GetInt("tt-size-mb"), 16)
}

func TestBadInputs(t *testing.T) {
	is := is.New(t)

	c := &Config{}
	is.True(c.Load([]string{"--no-such-flag"}) != nil)

	c = &Config{}
	is.True(c.Load([]string{"--config", "/nonexistent/karasu.yaml"}) != nil)

	c = &Config{}
	is.NoErr(c.Load([]string{"--threads", "0"}))
	_, err := c.SearchSettings()
	is.True(err != nil)
}

func TestPositionalArgsSurvive(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"--threads", "2", "suite", "mate"}))
	is.Equal(c.Args(), []string{"suite", "mate"})

	c2 := &Config{}
	is.NoErr(c2.Load(nil))
	is.Equal(len(c2.Args()), 0)
}
