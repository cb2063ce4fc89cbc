package testhelpers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/domino14/mategen/board"
)

// FakeSolverEnv makes a test binary behave as the solver. Tests point the
// solver path at their own executable and set this variable; TestMain
// then hands control to FakeSolver.
const FakeSolverEnv = "MATEGEN_FAKE_SOLVER"

// Extra solver arguments understood by FakeSolver.
const (
	// FlagShort prints fewer lines than the protocol minimum.
	FlagShort = "--short"
	// FlagNoChildren prints a full header but no child lines.
	FlagNoChildren = "--nochildren"
	// FlagGarbage adds child lines whose value or board does not parse.
	FlagGarbage = "--garbage"
	// FlagFail exits non-zero without output.
	FlagFail = "--fail"
	// FlagRecord appends the received arguments to the named file.
	FlagRecord = "--record"
)

// FakeValue is the evaluation the fake prints for a child: its disc count
// pushed 0.75 away from zero, so truncation recovers Count exactly.
func FakeValue(b board.Board) float64 {
	c := float64(b.Count())
	if c < 0 {
		return c - 0.75
	}
	return c + 0.75
}

// FakeSolver imitates `ruversi --rfen <rfen> --ev1 <file> --children
// --depth <n>`: a board diagram, a summary line, then one
// "val,<value>,<rfen>,<nodes> nodes. <pv>" line per child. It returns the
// process exit code.
func FakeSolver(args []string, stdout io.Writer) int {
	var rfen, recordPath string
	flags := map[string]bool{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--rfen":
			i++
			if i < len(args) {
				rfen = args[i]
			}
		case "--ev1", "--depth":
			i++
		case FlagRecord:
			i++
			if i < len(args) {
				recordPath = args[i]
			}
		default:
			flags[args[i]] = true
		}
	}
	if recordPath != "" {
		f, err := os.OpenFile(recordPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintln(f, strings.Join(args, " "))
			f.Close()
		}
	}
	if flags[FlagFail] {
		return 3
	}
	b, err := board.FromRFEN(rfen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if flags[FlagShort] {
		fmt.Fprintln(stdout, "val:0.0 0 nodes.")
		return 0
	}

	fmt.Fprintln(stdout, "  |A |B |C |D |E |F |G |H |")
	for row := 0; row < board.Dim; row++ {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d ", row+1)
		for col := 0; col < board.Dim; col++ {
			bit := uint64(1) << board.Square(row, col)
			switch {
			case b.Black&bit != 0:
				sb.WriteString("|@@")
			case b.White&bit != 0:
				sb.WriteString("|[]")
			default:
				sb.WriteString("|__")
			}
		}
		sb.WriteString("|")
		fmt.Fprintln(stdout, sb.String())
	}
	marker := "@@"
	if b.Turn == board.White {
		marker = "[]"
	}
	fmt.Fprintf(stdout, "%s's turn.\n", marker)
	fmt.Fprintf(stdout, "val:%.4f %d nodes. 7msec\n", float64(b.Count()), 1000)
	if flags[FlagNoChildren] {
		return 0
	}
	if flags[FlagGarbage] {
		fmt.Fprintf(stdout, "val,1.2.3,%s,1 nodes. a1\n", b)
		fmt.Fprintln(stdout, "val,1.00,8/8/8 w,1 nodes. a1")
	}
	for i, c := range b.Children() {
		fmt.Fprintf(stdout, "val,%.2f,%s,%d nodes. %s\n", FakeValue(c), c, 100+i, "pv")
	}
	return 0
}
