package shell

import (
	"errors"
	"strconv"
	"time"

	"github.com/kballard/go-shellquote"
)

var (
	errNoData            = errors.New("no data in command")
	errWrongOptionSyntax = errors.New("option needs a value")
)

type cmdOptions map[string]string

func (c cmdOptions) String(key string) string { return c[key] }

func (c cmdOptions) Has(key string) bool {
	_, ok := c[key]
	return ok
}

func (c cmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (c cmdOptions) Millis(key string) (time.Duration, error) {
	v, ok := c[key]
	if !ok {
		return 0, nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 {
		return 0, errors.New(key + " wants a millisecond count")
	}
	return time.Duration(ms) * time.Millisecond, nil
}

type shellcmd struct {
	cmd     string
	args    []string
	options cmdOptions
}

// extractFields tokenizes a command line with shell quoting, so an
// SFEN can travel as one quoted argument. An option is a -name token
// followed by its value.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := cmdOptions{}
	idx := 1
	for idx < len(fields) {
		f := fields[idx]
		if len(f) > 1 && f[0] == '-' {
			if idx+1 == len(fields) {
				return nil, errWrongOptionSyntax
			}
			options[f[1:]] = fields[idx+1]
			idx += 2
			continue
		}
		args = append(args, f)
		idx++
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}
