package solver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/mategen/board"
	"github.com/domino14/mategen/record"
)

// The solver prints a board diagram and a summary before any child line,
// so anything shorter is not a real answer.
const minOutputLines = 10

var (
	ErrSpawn       = errors.New("error running solver")
	ErrWorkDir     = errors.New("solver working directory is not usable")
	ErrShortOutput = errors.New("solver output too short")
	ErrNoChildren  = errors.New("solver reported no children")
	ErrDepthCap    = errors.New("search depth exceeds cap")
)

// Runner invokes the solver once per position. A Runner holds no mutable
// state and may be used from several goroutines.
type Runner struct {
	cfg     Config
	verbose bool
}

func NewRunner(cfg Config, verbose bool) *Runner {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &Runner{cfg: cfg, verbose: verbose}
}

func (r *Runner) Config() Config {
	return r.cfg
}

func (r *Runner) args(rfen string, depth int) []string {
	args := []string{
		"--rfen", rfen,
		"--ev1", r.cfg.EvFile,
		"--children",
		"--depth", strconv.Itoa(depth),
	}
	return append(args, r.cfg.Args...)
}

// Children asks the solver for every child of b and the exact result of
// each. The search depth is twice the number of empties so that passes
// cannot cut the search short.
func (r *Runner) Children(ctx context.Context, b board.Board) ([]record.Record, error) {
	rfen := b.String()
	empties, err := board.CountEmptyCells(rfen)
	if err != nil {
		return nil, err
	}
	depth := 2 * empties
	if depth > r.cfg.MaxDepth {
		return nil, fmt.Errorf("%w: %d > %d for %s", ErrDepthCap, depth, r.cfg.MaxDepth, b)
	}
	if st, err := os.Stat(r.cfg.CurDir); err != nil {
		return nil, fmt.Errorf("%w: %w; config:[%s]", ErrWorkDir, err, r.cfg)
	} else if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory; config:[%s]", ErrWorkDir, r.cfg.CurDir, r.cfg)
	}

	args := r.args(rfen, depth)
	invocation := shellquote.Join(append([]string{r.cfg.Path}, args...)...)
	if r.verbose {
		log.Info().Str("cmd", invocation).Str("dir", r.cfg.CurDir).Msg("solver")
	}

	cmd := exec.CommandContext(ctx, r.cfg.Path, args...)
	cmd.Dir = r.cfg.CurDir
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w; cmd:[%s] config:[%s]", ErrSpawn, err, invocation, r.cfg)
	}

	lines := strings.Split(string(out), "\n")
	if len(lines) < minOutputLines {
		return nil, fmt.Errorf("%w: %d lines %q; cmd:[%s] config:[%s]",
			ErrShortOutput, len(lines), lines, invocation, r.cfg)
	}
	recs, dropped := ParseChildren(lines)
	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Str("cmd", invocation).Msg("unparsable-children")
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w; cmd:[%s] config:[%s]", ErrNoChildren, invocation, r.cfg)
	}
	return recs, nil
}
