// Package record holds the labeled position tuple that flows through every
// stage of the corpus pipeline, and the sort-and-collapse deduplicator that
// runs between stages.
package record

import (
	"cmp"
	"strconv"

	"github.com/domino14/mategen/board"
)

// A Record is one labeled position. Records extracted from games or
// snapshots carry real stable-disc counts; records produced by the solver
// leave them zero. Score is a final disc difference in [-64, 64].
type Record struct {
	Board      board.Board
	FixedBlack int8
	FixedWhite int8
	Score      int8
}

// FromBoard labels b with score and its stable-disc counts.
func FromBoard(b board.Board, score int8) Record {
	fb, fw := b.FixedStones()
	return Record{Board: b, FixedBlack: fb, FixedWhite: fw, Score: score}
}

// Line renders the record as a corpus line, "<rfen>,<score>\n".
func (r Record) Line() string {
	return r.Board.String() + "," + strconv.Itoa(int(r.Score)) + "\n"
}

// Compare orders records by board first and the remaining fields after
// it, so identical records are adjacent once sorted.
func Compare(a, b Record) int {
	if c := board.Compare(a.Board, b.Board); c != 0 {
		return c
	}
	if c := cmp.Compare(a.FixedBlack, b.FixedBlack); c != 0 {
		return c
	}
	if c := cmp.Compare(a.FixedWhite, b.FixedWhite); c != 0 {
		return c
	}
	return cmp.Compare(a.Score, b.Score)
}
