// Package incubator grows the endgame corpus one ply at a time. A run at
// depth N takes positions N plies from the end of a game, has the solver
// label every child, multiplies the children by the board symmetries and
// appends the ones N-1 plies from the end to mate<N-1>.txt.
package incubator

import (
	"context"
	"errors"
	"expvar"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/mategen/augment"
	"github.com/domino14/mategen/board"
	"github.com/domino14/mategen/corpus"
	"github.com/domino14/mategen/dataloaders"
	"github.com/domino14/mategen/record"
)

const (
	MinMate = 3
	MaxMate = 60

	// expansion progress is logged every this many positions
	progressEvery = 100
)

var (
	ExpandedCounter *expvar.Int
	WrittenCounter  *expvar.Int
)

func init() {
	ExpandedCounter = expvar.NewInt("mategenExpanded")
	WrittenCounter = expvar.NewInt("mategenWritten")
}

// An Expander labels every child of a position with its final disc
// difference. *solver.Runner is the production implementation.
type Expander interface {
	Children(ctx context.Context, b board.Board) ([]record.Record, error)
}

type Options struct {
	Mode Mode
	// Inputs are processed one after the other. In kifu mode each is a
	// directory of game records; in snapshot mode a file or a directory of
	// snapshot files.
	Inputs []string
	Mate   int
	// OutDir receives the corpus file.
	OutDir  string
	Threads int
	// Progress logs stage transitions and expansion counts to the console.
	Progress bool
	Solver   Expander
	// Audit receives the files read and a summary of every stage.
	Audit zerolog.Logger
}

type Incubator struct {
	opts Options
	dest string
}

func New(opts Options) *Incubator {
	if opts.Mode == "" {
		opts.Mode = ModeKifu
	}
	return &Incubator{opts: opts, dest: corpus.Path(opts.OutDir, opts.Mate)}
}

// Dest is the corpus file the run appends to.
func (inc *Incubator) Dest() string {
	return inc.dest
}

func (inc *Incubator) check() error {
	fail := func(err error) error {
		return &Unrecoverable{Stage: StageCheck, Err: err}
	}
	if inc.opts.Mate < MinMate || inc.opts.Mate >= MaxMate {
		return fail(fmt.Errorf("%w: %d", ErrMateRange, inc.opts.Mate))
	}
	if _, ok := stages[inc.opts.Mode]; !ok {
		return fail(fmt.Errorf("%w: %q", ErrUnknownMode, inc.opts.Mode))
	}
	if inc.opts.Mode == ModeKifu && inc.opts.Solver == nil {
		return fail(ErrNoSolver)
	}
	exists, err := corpus.Exists(inc.dest)
	if err != nil {
		return fail(err)
	}
	if exists {
		return fail(fmt.Errorf("%w: %s", ErrDestinationExists, inc.dest))
	}
	return nil
}

// Run processes every input group in order. Nothing is read and the solver
// is never started unless the depth is valid and the corpus file does not
// exist yet. Failures come back as *Unrecoverable; cancellation comes
// back as the context's error.
func (inc *Incubator) Run(ctx context.Context) error {
	if err := inc.check(); err != nil {
		return err
	}
	for i, group := range inc.opts.Inputs {
		if inc.opts.Progress {
			log.Info().Str("group", group).Msgf("group %d/%d", i+1, len(inc.opts.Inputs))
		}
		if err := inc.runGroup(ctx, group); err != nil {
			return err
		}
	}
	if inc.opts.Progress {
		log.Info().Str("dest", inc.dest).Msg("done!")
	}
	return nil
}

// groupRun carries one input group through its stages.
type groupRun struct {
	inc   *Incubator
	group string
	recs  []record.Record
	step  int
}

func (g *groupRun) fail(stage Stage, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &Unrecoverable{Stage: stage, Group: g.group, Err: err}
}

func (g *groupRun) done(stage Stage) {
	g.step++
	if !g.inc.opts.Progress {
		return
	}
	log.Info().Str("group", g.group).Int("positions", len(g.recs)).
		Msgf("%d/%d %v", g.step, len(stages[g.inc.opts.Mode]), stage)
}

func (inc *Incubator) runGroup(ctx context.Context, group string) error {
	g := &groupRun{inc: inc, group: group}
	for _, stage := range stages[inc.opts.Mode] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.run(ctx, stage); err != nil {
			return g.fail(stage, err)
		}
		g.done(stage)
	}
	return nil
}

func (g *groupRun) run(ctx context.Context, stage Stage) error {
	inc := g.inc
	var err error
	switch stage {
	case StageLoad:
		g.recs, err = inc.load(ctx, g.group)
	case StageDedupLoaded, StageDedupExpanded:
		g.recs, err = record.Dedup(g.recs, inc.opts.Audit)
	case StageExpand:
		g.recs, err = inc.expand(ctx, g.recs)
	case StageAugment:
		g.recs = augment.All(g.recs)
	case StageDedupAugmented:
		g.recs, err = record.Dedup(g.recs, inc.opts.Audit)
		if err == nil && len(g.recs) == 0 {
			err = ErrEmptyAugmentation
		}
	case StageStore:
		err = inc.store(g.group, g.recs)
	}
	return err
}

func (inc *Incubator) loadOptions() dataloaders.LoadOptions {
	return dataloaders.LoadOptions{Threads: inc.opts.Threads, Audit: inc.opts.Audit}
}

// load reads the positions of one group. Kifu mode extracts positions at
// depth N to be expanded. Snapshots are already solved, so they are read
// at depth N-1 directly.
func (inc *Incubator) load(ctx context.Context, group string) ([]record.Record, error) {
	if inc.opts.Mode == ModeSnapshot {
		return dataloaders.LoadSnapshotsForMate(ctx, group, inc.opts.Mate-1, inc.loadOptions())
	}
	files, err := dataloaders.FindFiles(group, dataloaders.KifuSuffix)
	if err != nil {
		return nil, err
	}
	return dataloaders.LoadKifuForMate(ctx, group, files, inc.opts.Mate, inc.loadOptions())
}

// expand replaces every position by its solved children. The solver's
// search depth is derived from the number of empties, so a position at
// the wrong depth is an error rather than something to skip.
func (inc *Incubator) expand(ctx context.Context, recs []record.Record) ([]record.Record, error) {
	var children []record.Record
	for i, r := range recs {
		if !r.Board.IsLastN(inc.opts.Mate) {
			return nil, fmt.Errorf("%w: %s has %d empties, want %d",
				ErrDepthMismatch, r.Board, r.Board.Empties(), inc.opts.Mate)
		}
		kids, err := inc.opts.Solver.Children(ctx, r.Board)
		if err != nil {
			return nil, err
		}
		children = append(children, kids...)
		ExpandedCounter.Add(1)
		if inc.opts.Progress && ((i+1)%progressEvery == 0 || i+1 == len(recs)) {
			log.Info().Int("children", len(children)).Msgf("expanded %d/%d", i+1, len(recs))
		}
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("%w from %d positions", ErrEmptyExpansion, len(recs))
	}
	return children, nil
}

// store appends the positions exactly N-1 plies from the end. Children
// reached by a pass are still N plies away and are left out.
func (inc *Incubator) store(group string, recs []record.Record) error {
	n1 := inc.opts.Mate - 1
	sum, err := corpus.Append(inc.dest, group, recs, func(r record.Record) bool {
		return r.Board.IsLastN(n1)
	})
	if err != nil {
		return err
	}
	WrittenCounter.Add(int64(sum.Lines))
	inc.opts.Audit.Info().Str("group", group).Str("dest", inc.dest).
		Int("lines", sum.Lines).Str("xxhash", fmt.Sprintf("%016x", sum.Digest)).Msg("stored")
	return nil
}
