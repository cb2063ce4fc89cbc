package board

import (
	"math/bits"
	"slices"
)

func popcount(x uint64) int {
	return bits.OnesCount64(x)
}

// flipRows mirrors the board top to bottom.
func flipRows(x uint64) uint64 {
	return bits.ReverseBytes64(x)
}

// flipCols mirrors the board left to right.
func flipCols(x uint64) uint64 {
	const (
		k1 = 0x5555555555555555
		k2 = 0x3333333333333333
		k4 = 0x0f0f0f0f0f0f0f0f
	)
	x = ((x >> 1) & k1) | ((x & k1) << 1)
	x = ((x >> 2) & k2) | ((x & k2) << 2)
	x = ((x >> 4) & k4) | ((x & k4) << 4)
	return x
}

// transpose swaps rows and columns.
func transpose(x uint64) uint64 {
	const (
		k1 = 0x5500550055005500
		k2 = 0x3333000033330000
		k4 = 0x0f0f0f0f00000000
	)
	t := k4 & (x ^ (x << 28))
	x ^= t ^ (t >> 28)
	t = k2 & (x ^ (x << 14))
	x ^= t ^ (t >> 14)
	t = k1 & (x ^ (x << 7))
	x ^= t ^ (t >> 7)
	return x
}

// The eight elements of the square's symmetry group, built from the
// three generators above. The identity comes first.
var transforms = [8]func(uint64) uint64{
	func(x uint64) uint64 { return x },
	flipRows,
	flipCols,
	func(x uint64) uint64 { return flipRows(flipCols(x)) },
	transpose,
	func(x uint64) uint64 { return transpose(flipRows(x)) },
	func(x uint64) uint64 { return transpose(flipCols(x)) },
	func(x uint64) uint64 { return transpose(flipRows(flipCols(x))) },
}

// Symmetries returns the board under all eight rotations and reflections,
// identity first. Images may repeat for symmetric positions.
func (b Board) Symmetries() [8]Board {
	var out [8]Board
	for i, f := range transforms {
		out[i] = Board{Black: f(b.Black), White: f(b.White), Turn: b.Turn}
	}
	return out
}

// Orbit returns the distinct symmetric images of the board in Compare
// order. It has between one and eight members.
func (b Board) Orbit() []Board {
	syms := b.Symmetries()
	orbit := syms[:]
	slices.SortFunc(orbit, Compare)
	return slices.Compact(orbit)
}
