package board

// The four axes through a cell, each as a pair of opposite directions in
// (row, col) steps.
var axes = [4][2][2]int{
	{{0, 1}, {0, -1}},
	{{1, 0}, {-1, 0}},
	{{1, 1}, {-1, -1}},
	{{1, -1}, {-1, 1}},
}

func onBoard(row, col int) bool {
	return row >= 0 && row < Dim && col >= 0 && col < Dim
}

// lineFull reports whether every cell on the axis through (row, col) is
// occupied.
func lineFull(occupied uint64, row, col int, axis [2][2]int) bool {
	for _, d := range axis {
		r, c := row+d[0], col+d[1]
		for onBoard(r, c) {
			if occupied&(1<<Square(r, c)) == 0 {
				return false
			}
			r, c = r+d[0], c+d[1]
		}
	}
	return true
}

// stableDiscs returns the discs of one color that can never be flipped.
// A disc is stable when, along each of the four axes, the line is full or
// one neighbour on that axis is the board edge or a stable disc of the same
// color. The result is grown to a fixpoint from the corners, so it is a
// conservative subset of the truly stable discs.
func stableDiscs(discs, occupied uint64) uint64 {
	var stable uint64
	for changed := true; changed; {
		changed = false
		for sq := 0; sq < NumSquares; sq++ {
			bit := uint64(1) << sq
			if discs&bit == 0 || stable&bit != 0 {
				continue
			}
			row, col := sq/Dim, sq%Dim
			ok := true
			for _, axis := range axes {
				if lineFull(occupied, row, col, axis) {
					continue
				}
				anchored := false
				for _, d := range axis {
					r, c := row+d[0], col+d[1]
					if !onBoard(r, c) || stable&(1<<Square(r, c)) != 0 {
						anchored = true
						break
					}
				}
				if !anchored {
					ok = false
					break
				}
			}
			if ok {
				stable |= bit
				changed = true
			}
		}
	}
	return stable
}

// FixedStones counts the stable discs of each side.
func (b Board) FixedStones() (black, white int8) {
	occupied := b.Black | b.White
	return int8(popcount(stableDiscs(b.Black, occupied))),
		int8(popcount(stableDiscs(b.White, occupied)))
}
