package board

import (
	"fmt"
	"math/bits"
)

const (
	notColA = 0xfefefefefefefefe
	notColH = 0x7f7f7f7f7f7f7f7f
)

// The eight ray directions, as bit-index deltas.
var directions = [8]int{1, -1, 8, -8, 9, -9, 7, -7}

// shift moves every disc one step in direction d, dropping discs that
// would wrap around a board edge.
func shift(x uint64, d int) uint64 {
	switch d {
	case 1:
		return (x << 1) & notColA
	case -1:
		return (x >> 1) & notColH
	case 8:
		return x << 8
	case -8:
		return x >> 8
	case 9:
		return (x << 9) & notColA
	case -9:
		return (x >> 9) & notColH
	case 7:
		return (x << 7) & notColH
	case -7:
		return (x >> 7) & notColA
	}
	panic(fmt.Sprintf("bad direction %d", d))
}

func legalMoves(mine, theirs uint64) uint64 {
	empty := ^(mine | theirs)
	var moves uint64
	for _, d := range directions {
		t := shift(mine, d) & theirs
		for i := 0; i < 5; i++ {
			t |= shift(t, d) & theirs
		}
		moves |= shift(t, d) & empty
	}
	return moves
}

func flips(mine, theirs, mv uint64) uint64 {
	var f uint64
	for _, d := range directions {
		var line uint64
		t := shift(mv, d)
		for t&theirs != 0 {
			line |= t
			t = shift(t, d)
		}
		if t&mine != 0 {
			f |= line
		}
	}
	return f
}

// Moves returns the legal moves of the side to move as a bitmask.
func (b Board) Moves() uint64 {
	return legalMoves(b.Mine(), b.Theirs())
}

// CanPass reports whether the side to move has no move while the
// opponent does.
func (b Board) CanPass() bool {
	return b.Moves() == 0 && legalMoves(b.Theirs(), b.Mine()) != 0
}

// IsOver reports whether neither side can move.
func (b Board) IsOver() bool {
	return b.Moves() == 0 && legalMoves(b.Theirs(), b.Mine()) == 0
}

// Play places a disc for the side to move on sq and flips the captured
// discs. The returned board has the opponent on turn.
func (b Board) Play(sq int) (Board, error) {
	if sq < 0 || sq >= NumSquares {
		return b, fmt.Errorf("%w: square %d", ErrIllegal, sq)
	}
	mv := uint64(1) << sq
	if b.Moves()&mv == 0 {
		return b, fmt.Errorf("%w: %s in %s", ErrIllegal, SquareName(sq), b)
	}
	mine, theirs := b.Mine(), b.Theirs()
	f := flips(mine, theirs, mv)
	mine |= mv | f
	theirs &^= f
	return b.with(mine, theirs).Pass(), nil
}

// Pass hands the turn to the opponent without changing the discs.
func (b Board) Pass() Board {
	b.Turn = b.Turn.Opponent()
	return b
}

func (b Board) with(mine, theirs uint64) Board {
	if b.Turn == Black {
		b.Black, b.White = mine, theirs
	} else {
		b.White, b.Black = mine, theirs
	}
	return b
}

// Children returns every position reachable in one ply: one board per
// legal move, a single passed board when only the opponent can move, and
// nothing once the game is over.
func (b Board) Children() []Board {
	moves := b.Moves()
	if moves == 0 {
		if b.CanPass() {
			return []Board{b.Pass()}
		}
		return nil
	}
	children := make([]Board, 0, bits.OnesCount64(moves))
	for moves != 0 {
		sq := bits.TrailingZeros64(moves)
		moves &= moves - 1
		child, err := b.Play(sq)
		if err != nil {
			panic(err)
		}
		children = append(children, child)
	}
	return children
}

// MoveList returns the legal move squares in ascending order.
func (b Board) MoveList() []int {
	moves := b.Moves()
	list := make([]int, 0, bits.OnesCount64(moves))
	for moves != 0 {
		list = append(list, bits.TrailingZeros64(moves))
		moves &= moves - 1
	}
	return list
}
