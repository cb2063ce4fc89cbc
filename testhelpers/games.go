// Package testhelpers builds fixtures shared by the package tests:
// deterministic self-play games and a stand-in for the external solver.
package testhelpers

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/domino14/mategen/board"
	"github.com/domino14/mategen/kifu"
)

// A Picker chooses one of the legal moves at a ply.
type Picker func(ply int, moves []int) int

// NthMove returns a picker that plays move (ply+offset) mod len(moves).
func NthMove(offset int) Picker {
	return func(ply int, moves []int) int {
		return moves[(ply+offset)%len(moves)]
	}
}

// Playout plays from start until neither side can move.
func Playout(start board.Board, pick Picker) (*kifu.Kifu, error) {
	var squares []int
	b := start
	for ply := 0; !b.IsOver(); ply++ {
		if b.CanPass() {
			squares = append(squares, -1)
			b = b.Pass()
			continue
		}
		sq := pick(ply, b.MoveList())
		next, err := b.Play(sq)
		if err != nil {
			return nil, err
		}
		squares = append(squares, sq)
		b = next
	}
	return kifu.Record(start, squares...)
}

// Games plays one game from the initial position per offset.
func Games(offsets ...int) ([]*kifu.Kifu, error) {
	games := make([]*kifu.Kifu, 0, len(offsets))
	for _, o := range offsets {
		k, err := Playout(board.Initial(), NthMove(o))
		if err != nil {
			return nil, err
		}
		games = append(games, k)
	}
	return games, nil
}

// WriteKifus writes each game to dir under its name.
func WriteKifus(dir string, games map[string]*kifu.Kifu) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var errs []error
	for name, k := range games {
		errs = append(errs, os.WriteFile(filepath.Join(dir, name), []byte(k.String()), 0o644))
	}
	return errors.Join(errs...)
}
