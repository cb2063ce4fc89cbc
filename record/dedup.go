package record

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// ErrInconsistentOrder means two different records compared as equal.
// Collapsing them would silently merge distinct training examples.
var ErrInconsistentOrder = errors.New("record order is inconsistent with equality")

// Dedup sorts recs in place and removes exact duplicates, returning the
// shortened slice. Only multiplicity changes; the set of distinct records
// is preserved. A one-line summary goes to the audit log.
func Dedup(recs []Record, audit zerolog.Logger) ([]Record, error) {
	slices.SortFunc(recs, Compare)
	out := recs[:0]
	for i, r := range recs {
		if i > 0 {
			prev := out[len(out)-1]
			if prev == r {
				continue
			}
			if Compare(prev, r) == 0 {
				return nil, fmt.Errorf("%w: %v and %v", ErrInconsistentOrder, prev, r)
			}
		}
		out = append(out, r)
	}
	clear(recs[len(out):])
	audit.Info().Msgf("board: %d boards", len(out))
	return out, nil
}
