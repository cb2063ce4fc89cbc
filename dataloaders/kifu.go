package dataloaders

import (
	"context"
	"path/filepath"

	"github.com/domino14/mategen/kifu"
	"github.com/domino14/mategen/record"
)

// KifuSuffix selects game records in a kifu directory.
const KifuSuffix = ".txt"

// FromKifu returns the positions of one game that are exactly mate plies
// from the end, each labeled with its current disc difference.
func FromKifu(k *kifu.Kifu, mate int) []record.Record {
	var recs []record.Record
	for _, b := range k.Positions() {
		if !b.IsLastN(mate) {
			continue
		}
		recs = append(recs, record.FromBoard(b, b.Count()))
	}
	return recs
}

// LoadKifuForMate parses files (names relative to dir) in parallel and
// collects every position exactly mate plies from the end of its game.
func LoadKifuForMate(ctx context.Context, dir string, files []string, mate int,
	opts LoadOptions) ([]record.Record, error) {

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(dir, f)
	}
	return loadParallel(ctx, paths, opts, func(path string) ([]record.Record, error) {
		k, err := kifu.ParseFile(path)
		if err != nil {
			return nil, err
		}
		return FromKifu(k, mate), nil
	})
}
