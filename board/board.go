// Package board implements the 8x8 reversi board used throughout mategen:
// the rfen text encoding, the canonical ordering used for deduplication,
// move generation, stable-disc counting and the eight board symmetries.
package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Color is a side: the owner of a disc or the player to move.
type Color uint8

const (
	Black Color = iota
	White
)

func (c Color) String() string {
	if c == Black {
		return "b"
	}
	return "w"
}

// Opponent returns the other side.
func (c Color) Opponent() Color {
	return 1 - c
}

const (
	// Dim is the board dimension.
	Dim = 8
	// NumSquares is the number of cells on the board.
	NumSquares = Dim * Dim
)

var (
	ErrBadRFEN   = errors.New("malformed rfen")
	ErrBadSquare = errors.New("malformed square")
	ErrIllegal   = errors.New("illegal move")
)

// A Board is an immutable reversi position: two disc bitboards plus the
// side to move. Bit i is the cell at row i/8, column i%8; row 0 is the
// first rank written in rfen. Two boards are the same position iff they
// are == to each other.
type Board struct {
	Black uint64
	White uint64
	Turn  Color
}

// Initial returns the standard starting position, black to move.
func Initial() Board {
	return Board{
		Black: 1<<Square(3, 4) | 1<<Square(4, 3),
		White: 1<<Square(3, 3) | 1<<Square(4, 4),
		Turn:  Black,
	}
}

// Square returns the bit index of the given row and column.
func Square(row, col int) int {
	return row*Dim + col
}

// SquareName renders a bit index as a1..h8, the column first.
func SquareName(sq int) string {
	return fmt.Sprintf("%c%d", 'a'+sq%Dim, sq/Dim+1)
}

// ParseSquare is the inverse of SquareName. Upper case columns are accepted.
func ParseSquare(s string) (int, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadSquare, s)
	}
	col := int(s[0]|0x20) - 'a'
	row := int(s[1]) - '1'
	if col < 0 || col >= Dim || row < 0 || row >= Dim {
		return 0, fmt.Errorf("%w: %q", ErrBadSquare, s)
	}
	return Square(row, col), nil
}

// Mine returns the discs of the side to move.
func (b Board) Mine() uint64 {
	if b.Turn == Black {
		return b.Black
	}
	return b.White
}

// Theirs returns the discs of the side not on turn.
func (b Board) Theirs() uint64 {
	if b.Turn == Black {
		return b.White
	}
	return b.Black
}

// Empties is the number of empty cells.
func (b Board) Empties() int {
	return NumSquares - bits.OnesCount64(b.Black|b.White)
}

// IsLastN reports whether the position is exactly n plies from the end of
// the game, i.e. n cells remain to be filled.
func (b Board) IsLastN(n int) bool {
	return b.Empties() == n
}

// Count returns black discs minus white discs.
func (b Board) Count() int8 {
	return int8(bits.OnesCount64(b.Black) - bits.OnesCount64(b.White))
}

// Compare orders boards by black discs, then white discs, then side to
// move. It returns 0 only for identical boards.
func Compare(a, b Board) int {
	switch {
	case a.Black < b.Black:
		return -1
	case a.Black > b.Black:
		return 1
	case a.White < b.White:
		return -1
	case a.White > b.White:
		return 1
	case a.Turn < b.Turn:
		return -1
	case a.Turn > b.Turn:
		return 1
	}
	return 0
}

// FromRFEN decodes an rfen string such as "8/8/8/3Aa3/3aA3/8/8/8 b".
//
// Each rank is a run-length string: 1-8 are empty cells, A-H are one to
// eight black discs and a-h one to eight white discs. Every rank must
// describe exactly eight cells.
func FromRFEN(s string) (Board, error) {
	var b Board
	pos, side, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return b, fmt.Errorf("%w: %q has no side to move", ErrBadRFEN, s)
	}
	switch strings.TrimSpace(side) {
	case "b":
		b.Turn = Black
	case "w":
		b.Turn = White
	default:
		return b, fmt.Errorf("%w: %q bad side to move", ErrBadRFEN, s)
	}
	ranks := strings.Split(pos, "/")
	if len(ranks) != Dim {
		return b, fmt.Errorf("%w: %q has %d ranks", ErrBadRFEN, s, len(ranks))
	}
	for row, rank := range ranks {
		col := 0
		for _, ch := range rank {
			var n int
			var discs *uint64
			switch {
			case ch >= '1' && ch <= '8':
				n = int(ch - '0')
			case ch >= 'A' && ch <= 'H':
				n = int(ch-'A') + 1
				discs = &b.Black
			case ch >= 'a' && ch <= 'h':
				n = int(ch-'a') + 1
				discs = &b.White
			default:
				return Board{}, fmt.Errorf("%w: %q bad character %q", ErrBadRFEN, s, ch)
			}
			if col+n > Dim {
				return Board{}, fmt.Errorf("%w: %q rank %d overflows", ErrBadRFEN, s, row+1)
			}
			if discs != nil {
				for i := 0; i < n; i++ {
					*discs |= 1 << Square(row, col+i)
				}
			}
			col += n
		}
		if col != Dim {
			return Board{}, fmt.Errorf("%w: %q rank %d has %d cells", ErrBadRFEN, s, row+1, col)
		}
	}
	return b, nil
}

// String returns the canonical rfen of the board.
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Dim; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		col := 0
		for col < Dim {
			kind := b.at(row, col)
			n := 1
			for col+n < Dim && b.at(row, col+n) == kind {
				n++
			}
			switch kind {
			case cellEmpty:
				sb.WriteByte(byte('0' + n))
			case cellBlack:
				sb.WriteByte(byte('A' + n - 1))
			case cellWhite:
				sb.WriteByte(byte('a' + n - 1))
			}
			col += n
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(b.Turn.String())
	return sb.String()
}

type cell uint8

const (
	cellEmpty cell = iota
	cellBlack
	cellWhite
)

func (b Board) at(row, col int) cell {
	bit := uint64(1) << Square(row, col)
	switch {
	case b.Black&bit != 0:
		return cellBlack
	case b.White&bit != 0:
		return cellWhite
	}
	return cellEmpty
}

// CountEmptyCells counts the empty cells of an rfen without building a
// board. Only the position part is validated loosely; use FromRFEN for
// strict decoding.
func CountEmptyCells(rfen string) (int, error) {
	pos, _, _ := strings.Cut(strings.TrimSpace(rfen), " ")
	empties := 0
	cells := 0
	for _, ch := range pos {
		switch {
		case ch == '/':
		case ch >= '1' && ch <= '8':
			empties += int(ch - '0')
			cells += int(ch - '0')
		case ch >= 'A' && ch <= 'H':
			cells += int(ch-'A') + 1
		case ch >= 'a' && ch <= 'h':
			cells += int(ch-'a') + 1
		default:
			return 0, fmt.Errorf("%w: %q bad character %q", ErrBadRFEN, rfen, ch)
		}
	}
	if cells != NumSquares {
		return 0, fmt.Errorf("%w: %q describes %d cells", ErrBadRFEN, rfen, cells)
	}
	return empties, nil
}
