// Package corpus writes labeled positions to the per-depth training files.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash"

	"github.com/domino14/mategen/record"
)

// Path is the corpus file for positions mate-1 plies from the end, which
// is what a run at depth mate produces.
func Path(dir string, mate int) string {
	return filepath.Join(dir, fmt.Sprintf("mate%d.txt", mate-1))
}

// Exists reports whether path is already there.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	}
	return false, err
}

// Summary describes one appended block.
type Summary struct {
	Lines  int
	Digest uint64
}

// Append writes "# header" followed by the line of every record that keep
// accepts (all of them if keep is nil). The file is created if needed and
// never truncated. The digest covers the block exactly as written.
func Append(path, header string, recs []record.Record,
	keep func(record.Record) bool) (Summary, error) {

	var sum Summary
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return sum, err
	}
	h := xxhash.New()
	w := bufio.NewWriter(io.MultiWriter(f, h))
	fmt.Fprintf(w, "# %s\n", header)
	for _, r := range recs {
		if keep != nil && !keep(r) {
			continue
		}
		if _, err := w.WriteString(r.Line()); err != nil {
			f.Close()
			return sum, err
		}
		sum.Lines++
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return sum, err
	}
	sum.Digest = h.Sum64()
	return sum, f.Close()
}
