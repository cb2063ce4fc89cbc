package board

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

const initialRFEN = "8/8/8/3aA3/3Aa3/8/8/8 b"

func TestInitialRFEN(t *testing.T) {
	is := is.New(t)
	b := Initial()
	is.Equal(b.String(), initialRFEN)
	is.Equal(b.Empties(), 60)
	is.True(b.IsLastN(60))
	is.Equal(b.Count(), int8(0))

	decoded, err := FromRFEN(initialRFEN)
	is.NoErr(err)
	is.Equal(decoded, b)
}

func TestRFENRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{
		"8/8/3A4/3B3/3Aa3/8/8/8 w",
		"8/8/8/2C3/3Aa3/8/8/8 w",
		"8/8/8/3aA3/3C2/8/8/8 w",
		"8/8/8/3aA3/3B3/4A3/8/8 w",
		"H/h/H/h/H/h/H/h b",
		"8/8/8/8/8/8/8/8 w",
		"AaAaAaAa/1g/2f/3e/4d/5c/6b/7a b",
	} {
		b, err := FromRFEN(s)
		is.NoErr(err)
		is.Equal(b.String(), s)
	}
}

func TestFromRFENErrors(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{
		"",
		"8/8/8/3aA3/3Aa3/8/8/8",
		"8/8/8/3aA3/3Aa3/8/8/8 x",
		"8/8/8/3aA3/3Aa3/8/8 b",
		"8/8/8/3aA4/3Aa3/8/8/8 b",
		"8/8/8/3aA2/3Aa3/8/8/8 b",
		"8/8/8/3aA3/3Ai3/8/8/8 b",
		"9/8/8/3aA3/3Aa3/8/8/8 b",
	} {
		_, err := FromRFEN(s)
		is.True(errors.Is(err, ErrBadRFEN))
	}
}

func TestCountEmptyCells(t *testing.T) {
	is := is.New(t)
	n, err := CountEmptyCells(initialRFEN)
	is.NoErr(err)
	is.Equal(n, 60)

	n, err = CountEmptyCells("H/h/H/h/H/h/H/h b")
	is.NoErr(err)
	is.Equal(n, 0)

	_, err = CountEmptyCells("8/8/8 b")
	is.True(errors.Is(err, ErrBadRFEN))
	_, err = CountEmptyCells("8/8/8/3xA3/3Aa3/8/8/8 b")
	is.True(errors.Is(err, ErrBadRFEN))
}

func TestSquareNames(t *testing.T) {
	is := is.New(t)
	is.Equal(SquareName(0), "a1")
	is.Equal(SquareName(19), "d3")
	is.Equal(SquareName(63), "h8")
	sq, err := ParseSquare("D3")
	is.NoErr(err)
	is.Equal(sq, 19)
	_, err = ParseSquare("i9")
	is.True(errors.Is(err, ErrBadSquare))
	_, err = ParseSquare("a")
	is.True(errors.Is(err, ErrBadSquare))
}

func TestCompare(t *testing.T) {
	is := is.New(t)
	a := Initial()
	b := a.Pass()
	is.Equal(Compare(a, a), 0)
	is.Equal(Compare(a, b), -1)
	is.Equal(Compare(b, a), 1)

	c := Board{Black: a.Black + 1, White: 0}
	is.Equal(Compare(a, c), -1)
	is.Equal(Compare(c, a), 1)
}

func TestInitialMoves(t *testing.T) {
	is := is.New(t)
	b := Initial()
	is.Equal(b.MoveList(), []int{19, 26, 37, 44})

	want := []string{
		"8/8/3A4/3B3/3Aa3/8/8/8 w",
		"8/8/8/2C3/3Aa3/8/8/8 w",
		"8/8/8/3aA3/3C2/8/8/8 w",
		"8/8/8/3aA3/3B3/4A3/8/8 w",
	}
	children := b.Children()
	is.Equal(len(children), len(want))
	for i, c := range children {
		is.Equal(c.String(), want[i])
		is.Equal(c.Empties(), 59)
		is.Equal(c.Count(), int8(3))
	}
}

func TestIllegalMove(t *testing.T) {
	is := is.New(t)
	_, err := Initial().Play(0)
	is.True(errors.Is(err, ErrIllegal))
	_, err = Initial().Play(64)
	is.True(errors.Is(err, ErrIllegal))
}

func TestPassAndGameOver(t *testing.T) {
	is := is.New(t)
	// White has nothing to flank; black can still play c1.
	b := Board{Black: 1 << Square(0, 0), White: 1 << Square(0, 1), Turn: White}
	is.True(b.CanPass())
	is.True(!b.IsOver())
	children := b.Children()
	is.Equal(len(children), 1)
	is.Equal(children[0], b.Pass())
	is.True(children[0].IsLastN(b.Empties()))

	full, err := FromRFEN("H/h/H/h/H/h/H/h b")
	is.NoErr(err)
	is.True(full.IsOver())
	is.Equal(len(full.Children()), 0)
}

func TestFixedStones(t *testing.T) {
	is := is.New(t)
	fb, fw := Initial().FixedStones()
	is.Equal(fb, int8(0))
	is.Equal(fw, int8(0))

	b := Board{Black: 1 << Square(0, 0), White: 1 << Square(0, 1)}
	fb, fw = b.FixedStones()
	is.Equal(fb, int8(1))
	is.Equal(fw, int8(0))

	full, err := FromRFEN("H/h/H/h/H/h/H/h b")
	is.NoErr(err)
	fb, fw = full.FixedStones()
	is.Equal(fb, int8(32))
	is.Equal(fw, int8(32))

	// A filled top edge is stable for both colors.
	edge, err := FromRFEN("CcB/8/8/3aA3/3Aa3/8/8/8 b")
	is.NoErr(err)
	fb, fw = edge.FixedStones()
	is.Equal(fb, int8(5))
	is.Equal(fw, int8(3))
}
