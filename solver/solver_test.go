package solver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/mategen/board"
	"github.com/domino14/mategen/record"
	"github.com/domino14/mategen/testhelpers"
)

func TestMain(m *testing.M) {
	if os.Getenv(testhelpers.FakeSolverEnv) == "1" {
		os.Exit(testhelpers.FakeSolver(os.Args[1:], os.Stdout))
	}
	os.Exit(m.Run())
}

// fakeConfig points the solver at this test binary.
func fakeConfig(t *testing.T, args ...string) Config {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv(testhelpers.FakeSolverEnv, "1")
	return Config{
		CurDir:   t.TempDir(),
		Path:     exe,
		EvFile:   "data/evaltable.txt",
		Args:     args,
		MaxDepth: DefaultMaxDepth,
	}
}

func expectedChildren(b board.Board) map[record.Record]bool {
	want := map[record.Record]bool{}
	for _, c := range b.Children() {
		want[record.Record{Board: c, Score: c.Count()}] = true
	}
	return want
}

func TestChildren(t *testing.T) {
	is := is.New(t)
	r := NewRunner(fakeConfig(t), false)
	recs, err := r.Children(context.Background(), board.Initial())
	is.NoErr(err)
	is.Equal(len(recs), 4)
	want := expectedChildren(board.Initial())
	for _, rec := range recs {
		is.True(want[rec])
		is.Equal(rec.FixedBlack, int8(0))
		is.Equal(rec.FixedWhite, int8(0))
	}
	is.True(want[record.Record{Board: mustRFEN(t, "8/8/3A4/3B3/3Aa3/8/8/8 w"), Score: 3}])
}

func mustRFEN(t *testing.T, s string) board.Board {
	t.Helper()
	b, err := board.FromRFEN(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestChildrenInvocation(t *testing.T) {
	is := is.New(t)
	recFile := filepath.Join(t.TempDir(), "args.txt")
	cfg := fakeConfig(t, testhelpers.FlagRecord, recFile)
	r := NewRunner(cfg, true)
	b := mustRFEN(t, "8/8/3A4/3B3/3Aa3/8/8/8 w")
	_, err := r.Children(context.Background(), b)
	is.NoErr(err)

	got, err := os.ReadFile(recFile)
	is.NoErr(err)
	is.Equal(strings.TrimSpace(string(got)),
		"--rfen 8/8/3A4/3B3/3Aa3/8/8/8 w --ev1 data/evaltable.txt --children --depth 118 --record "+recFile)
}

func TestChildrenGarbageDropped(t *testing.T) {
	is := is.New(t)
	r := NewRunner(fakeConfig(t, testhelpers.FlagGarbage), false)
	recs, err := r.Children(context.Background(), board.Initial())
	is.NoErr(err)
	is.Equal(len(recs), 4)
}

func TestChildrenErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		flag string
		want error
	}{
		{"short", testhelpers.FlagShort, ErrShortOutput},
		{"nochildren", testhelpers.FlagNoChildren, ErrNoChildren},
		{"fail", testhelpers.FlagFail, ErrSpawn},
	} {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			r := NewRunner(fakeConfig(t, tc.flag), false)
			_, err := r.Children(context.Background(), board.Initial())
			is.True(errors.Is(err, tc.want))
			// the effective invocation is part of the message
			is.True(strings.Contains(err.Error(), "--children"))
		})
	}
}

func TestChildrenWorkDir(t *testing.T) {
	is := is.New(t)
	cfg := fakeConfig(t)
	cfg.CurDir = filepath.Join(cfg.CurDir, "missing")
	_, err := NewRunner(cfg, false).Children(context.Background(), board.Initial())
	is.True(errors.Is(err, ErrWorkDir))

	file := filepath.Join(t.TempDir(), "file")
	is.NoErr(os.WriteFile(file, nil, 0o644))
	cfg.CurDir = file
	_, err = NewRunner(cfg, false).Children(context.Background(), board.Initial())
	is.True(errors.Is(err, ErrWorkDir))
}

func TestChildrenDepthCap(t *testing.T) {
	is := is.New(t)
	cfg := fakeConfig(t)
	r := NewRunner(cfg, false)
	// 63 empties asks for depth 126
	_, err := r.Children(context.Background(), mustRFEN(t, "8/8/8/3A4/8/8/8/8 w"))
	is.True(errors.Is(err, ErrDepthCap))

	cfg.MaxDepth = 8
	r = NewRunner(cfg, false)
	_, err = r.Children(context.Background(), board.Initial())
	is.True(errors.Is(err, ErrDepthCap))
}

func TestChildrenCanceled(t *testing.T) {
	is := is.New(t)
	r := NewRunner(fakeConfig(t), false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Children(ctx, board.Initial())
	is.True(errors.Is(err, context.Canceled))
}

func TestChildrenConcurrent(t *testing.T) {
	is := is.New(t)
	r := NewRunner(fakeConfig(t), false)
	positions := board.Initial().Children()
	results := make([][]record.Record, len(positions))
	var g errgroup.Group
	for i, p := range positions {
		g.Go(func() error {
			recs, err := r.Children(context.Background(), p)
			results[i] = recs
			return err
		})
	}
	is.NoErr(g.Wait())
	for i, p := range positions {
		want := expectedChildren(p)
		is.Equal(len(results[i]), len(want))
		for _, rec := range results[i] {
			is.True(want[rec])
		}
	}
}

func TestParseChildren(t *testing.T) {
	is := is.New(t)
	lines := []string{
		"  |A |B |C |D |E |F |G |H |",
		"val:-3.5000 1000 nodes. 7msec",
		"val,-3.99,8/8/3A4/3B3/3Aa3/8/8/8 w,12 nodes. c5",
		"val,300.5,8/8/8/2C3/3Aa3/8/8/8 w,12 nodes. c5",
		"val,-1000,8/8/8/3aA3/3C2/8/8/8 w,12 nodes. c5",
		"val,0.99,8/8/8/3aA3/3B3/4A3/8/8 w,12 nodes.",
		"val,1.2.3,8/8/8/3aA3/3B3/4A3/8/8 w,12 nodes.",
		"val,1.00,8/8/8 w,1 nodes.",
		"",
	}
	recs, dropped := ParseChildren(lines)
	is.Equal(dropped, 2)
	is.Equal(len(recs), 4)
	is.Equal(recs[0].Score, int8(-3))
	is.Equal(recs[0].Board.String(), "8/8/3A4/3B3/3Aa3/8/8/8 w")
	is.Equal(recs[1].Score, int8(127))
	is.Equal(recs[2].Score, int8(-128))
	is.Equal(recs[3].Score, int8(0))
}

func TestReadConfigDefaults(t *testing.T) {
	is := is.New(t)
	cfg, err := ReadConfig("")
	is.NoErr(err)
	is.Equal(cfg.CurDir, "../ruversi")
	is.Equal(cfg.Path, "./target/release/ruversi")
	is.Equal(cfg.EvFile, "data/evaltable.txt")
	is.Equal(cfg.Args, []string{"--thinkall"})
	is.Equal(cfg.MaxDepth, 120)
	is.True(strings.Contains(cfg.String(), "curdir:../ruversi"))
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ruversi.cfg")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadConfig(t *testing.T) {
	is := is.New(t)
	path := writeConfig(t, "curdir: ~/ruversi/\r\n"+
		"path: ./bin/ruversi\n"+
		"evfile: ./data/eval.dat\n"+
		"colour: green\n"+
		"args: --depth, 7 ,--silent\n"+
		"maxdepth: 60\n")
	cfg, err := ReadConfig(path)
	is.NoErr(err)
	is.Equal(cfg.CurDir, "~/ruversi/")
	is.Equal(cfg.Path, "./bin/ruversi")
	is.Equal(cfg.EvFile, "./data/eval.dat")
	is.Equal(cfg.Args, []string{"--depth", "7", "--silent"})
	is.Equal(cfg.MaxDepth, 60)
}

func TestReadConfigArgs(t *testing.T) {
	for _, tc := range []struct {
		line  string
		args  []string
		index int
	}{
		{"args:", nil, -1},
		{"args:   ", nil, -1},
		{"args:--thinkall", []string{"--thinkall"}, -1},
		{"args:a,b,,c", nil, 2},
		{"args:a,b,c,", nil, 3},
		{"args:,a", nil, 0},
	} {
		t.Run(tc.line, func(t *testing.T) {
			is := is.New(t)
			cfg, err := ReadConfig(writeConfig(t, tc.line+"\n"))
			if tc.index < 0 {
				is.NoErr(err)
				is.Equal(cfg.Args, tc.args)
				return
			}
			var ae *ArgsError
			is.True(errors.As(err, &ae))
			is.Equal(ae.Index, tc.index)
			is.True(strings.Contains(err.Error(), "@"))
		})
	}
}

func TestArgsErrorMessage(t *testing.T) {
	is := is.New(t)
	_, err := parseArgs("a,b,,c")
	is.Equal(err.Error(), `"a,b,,c" contains empty part @2! ["a", "b", "", "c"]`)
}

func TestReadConfigErrors(t *testing.T) {
	is := is.New(t)
	_, err := ReadConfig(filepath.Join(t.TempDir(), "missing.cfg"))
	is.True(errors.Is(err, os.ErrNotExist))

	_, err = ReadConfig(writeConfig(t, "maxdepth: deep\n"))
	is.True(err != nil)
	_, err = ReadConfig(writeConfig(t, "maxdepth: 0\n"))
	is.True(err != nil)
}
