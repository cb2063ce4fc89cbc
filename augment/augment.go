// Package augment multiplies labeled positions by the symmetries of the
// board.
package augment

import (
	"github.com/samber/lo"

	"github.com/domino14/mategen/board"
	"github.com/domino14/mategen/record"
)

// Orbit returns one record per distinct rotation or reflection of r's
// board. The score does not depend on orientation and neither do the
// stable-disc counts, so both are carried over unchanged.
func Orbit(r record.Record) []record.Record {
	return lo.Map(r.Board.Orbit(), func(b board.Board, _ int) record.Record {
		r2 := r
		r2.Board = b
		return r2
	})
}

// All returns the orbits of every record, concatenated. Records whose
// orbits overlap produce duplicates; Dedup collapses them.
func All(recs []record.Record) []record.Record {
	return lo.FlatMap(recs, func(r record.Record, _ int) []record.Record {
		return Orbit(r)
	})
}
