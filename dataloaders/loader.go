// Package dataloaders extracts labeled endgame positions from kifu
// directories and snapshot files.
package dataloaders

import (
	"context"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/mategen/record"
)

// LoadOptions controls a parallel load.
type LoadOptions struct {
	// Threads bounds the number of files read at once. Zero means one per
	// CPU.
	Threads int
	// Audit receives one line per file opened. It is shared between the
	// workers, so it should write through zerolog.SyncWriter.
	Audit zerolog.Logger
}

func (o LoadOptions) threads() int {
	if o.Threads > 0 {
		return o.Threads
	}
	return runtime.NumCPU()
}

// FindFiles lists the regular files in dir whose names end in one of the
// suffixes, sorted by name. Names are returned without the directory.
func FindFiles(dir string, suffixes ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if lo.SomeBy(suffixes, func(s string) bool { return strings.HasSuffix(name, s) }) {
			files = append(files, name)
		}
	}
	slices.Sort(files)
	return files, nil
}

// loadParallel runs load for every path on a bounded pool and merges the
// results in no particular order. The first error cancels the rest.
func loadParallel(ctx context.Context, paths []string, opts LoadOptions,
	load func(path string) ([]record.Record, error)) ([]record.Record, error) {

	results := make([][]record.Record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.threads())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			opts.Audit.Info().Msg(path)
			recs, err := load(path)
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lo.Flatten(results), nil
}
