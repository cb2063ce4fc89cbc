// Package solver drives an external ruversi-compatible endgame solver. For
// a given position it asks the solver for every child position together
// with its exact final disc difference.
package solver

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultCurDir   = "../ruversi"
	DefaultPath     = "./target/release/ruversi"
	DefaultEvFile   = "data/evaltable.txt"
	DefaultMaxDepth = 120
)

// Config says where the solver lives and how to invoke it.
type Config struct {
	// CurDir is the working directory of the solver process. Path and
	// EvFile may be relative to it.
	CurDir string
	Path   string
	EvFile string
	// Args are appended after the protocol arguments.
	Args []string
	// MaxDepth caps the search depth requested from the solver.
	MaxDepth int
}

func DefaultConfig() Config {
	return Config{
		CurDir:   DefaultCurDir,
		Path:     DefaultPath,
		EvFile:   DefaultEvFile,
		Args:     []string{"--thinkall"},
		MaxDepth: DefaultMaxDepth,
	}
}

func (c Config) String() string {
	return fmt.Sprintf("curdir:%s, ruversi:%s, evfile:%s, args:%q, maxdepth:%d",
		c.CurDir, c.Path, c.EvFile, c.Args, c.MaxDepth)
}

// ArgsError reports an args value with an empty element, such as "a,,b".
type ArgsError struct {
	Text  string
	Args  []string
	Index int
}

func (e *ArgsError) Error() string {
	quoted := make([]string, len(e.Args))
	for i, a := range e.Args {
		quoted[i] = strconv.Quote(a)
	}
	return fmt.Sprintf("%q contains empty part @%d! [%s]", e.Text, e.Index, strings.Join(quoted, ", "))
}

// parseArgs splits a comma-separated args value. A blank value means no
// arguments.
func parseArgs(txt string) ([]string, error) {
	if strings.TrimSpace(txt) == "" {
		return nil, nil
	}
	args := strings.Split(strings.TrimSpace(txt), ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	for i, a := range args {
		if a == "" {
			return nil, &ArgsError{Text: txt, Args: args, Index: i}
		}
	}
	return args, nil
}

// ReadConfig loads a solver config file. An empty path yields the
// defaults. The file holds "key:value" lines:
//
//	curdir: ~/ruversi/
//	path: ./bin/ruversi
//	evfile: ./data/eval.dat
//	args: --depth,7,--silent
//	maxdepth: 60
//
// Keys that are absent keep their defaults and unknown lines are ignored.
func ReadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if v, ok := strings.CutPrefix(line, "curdir:"); ok {
			cfg.CurDir = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "path:"); ok {
			cfg.Path = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "evfile:"); ok {
			cfg.EvFile = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "args:"); ok {
			cfg.Args, err = parseArgs(v)
			if err != nil {
				return cfg, fmt.Errorf("%s: %w", path, err)
			}
		} else if v, ok := strings.CutPrefix(line, "maxdepth:"); ok {
			d, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || d <= 0 {
				return cfg, fmt.Errorf("%s: bad maxdepth %q", path, strings.TrimSpace(v))
			}
			cfg.MaxDepth = d
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
