package dataloaders

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/domino14/mategen/board"
	"github.com/domino14/mategen/record"
)

// Lines shorter than this cannot hold a position and are skipped as
// comments, as are lines starting with '#'.
const minSnapshotLine = 11

// MaxScore bounds the absolute value of a snapshot score.
const MaxScore = 64

var ErrBadSnapshot = errors.New("malformed snapshot line")

// SnapshotSuffixes are the file kinds picked up from a snapshot directory.
var SnapshotSuffixes = []string{".txt", ".zst", ".zstd"}

// ReadMateFile reads "<rfen>,<score>" lines and returns the records that
// are exactly mate plies from the end. Any line that is not a comment must
// parse; the first bad one fails the whole read.
func ReadMateFile(r io.Reader, mate int) ([]record.Record, error) {
	var recs []record.Record
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) < minSnapshotLine || strings.HasPrefix(line, "#") {
			continue
		}
		rfen, scoreText, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("line %d: %w: no score in %q", lineno, ErrBadSnapshot, line)
		}
		b, err := board.FromRFEN(rfen)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		score, err := strconv.ParseInt(scoreText, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: score %q: %w", lineno, ErrBadSnapshot, scoreText, err)
		}
		if score < -MaxScore || score > MaxScore {
			return nil, fmt.Errorf("line %d: %w: score %d out of range", lineno, ErrBadSnapshot, score)
		}
		if !b.IsLastN(mate) {
			continue
		}
		recs = append(recs, record.FromBoard(b, int8(score)))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func isZstd(path string) bool {
	return strings.HasSuffix(path, ".zst") || strings.HasSuffix(path, ".zstd")
}

// LoadMates reads one snapshot file, transparently decompressing zstd
// streams by suffix.
func LoadMates(path string, mate int) ([]record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if isZstd(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}
	recs, err := ReadMateFile(r, mate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// SnapshotFiles expands an input path: a directory yields its snapshot
// files in name order, anything else is taken as a single file.
func SnapshotFiles(path string) ([]string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return []string{path}, nil
	}
	names, err := FindFiles(path, SnapshotSuffixes...)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(path, n)
	}
	return paths, nil
}

// LoadSnapshotsForMate reads every snapshot file under path in parallel.
func LoadSnapshotsForMate(ctx context.Context, path string, mate int,
	opts LoadOptions) ([]record.Record, error) {

	paths, err := SnapshotFiles(path)
	if err != nil {
		return nil, err
	}
	return loadParallel(ctx, paths, opts, func(p string) ([]record.Record, error) {
		return LoadMates(p, mate)
	})
}
