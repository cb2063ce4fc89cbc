// Package kifu implements a parser for reversi game records ("kifu"). A kifu
// is one game per file: a list of numbered moves, each carrying the rfen of
// the position in which it was played, and an optional final result.
package kifu

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/domino14/mategen/board"
)

// A Token is a kind of line in a kifu file.
type Token uint8

const (
	UndefinedToken Token = iota
	CommentToken
	MoveToken
	ResultToken
)

const (
	PassMove = "PS"

	BlackMarker = "@@"
	WhiteMarker = "[]"
)

type kifudatum struct {
	token Token
	regex *regexp.Regexp
}

var kifuRegexes []kifudatum

const (
	CommentRegex = `^\s*#`
	MoveRegex    = `^\s*(?P<nth>\d+)\s+(?P<turn>@@|\[\])\s+(?P<move>[a-hA-H][1-8]|PS|ps)\s+(?P<rfen>\S+\s+[bw])\s*$`
	ResultRegex  = `^\s*result\s+(?P<score>[-+]?\d+)\s*$`
)

func init() {
	kifuRegexes = []kifudatum{
		{CommentToken, regexp.MustCompile(CommentRegex)},
		{MoveToken, regexp.MustCompile(MoveRegex)},
		{ResultToken, regexp.MustCompile(ResultRegex)},
	}
}

// A Move is one ply of a recorded game.
type Move struct {
	Nth  int
	Turn board.Color
	// Square is the bit index of the move, or -1 for a pass.
	Square int
	// Position is the board before the move is played.
	Position board.Board
}

// IsPass reports whether the move is a pass.
func (m Move) IsPass() bool {
	return m.Square < 0
}

// Kifu is a parsed game record.
type Kifu struct {
	Moves []Move
	// Result is the final disc difference from black's point of view. It
	// is only meaningful if HasResult is set.
	Result    int8
	HasResult bool
}

var ErrNoMatch = errors.New("no match found for line")

type parser struct {
	lineno int
}

func (p *parser) parseLine(line string, k *Kifu) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	for _, datum := range kifuRegexes {
		match := datum.regex.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		return p.addToken(datum.token, match, k)
	}
	return fmt.Errorf("line %d: %w: %q", p.lineno, ErrNoMatch, line)
}

func (p *parser) addToken(token Token, match []string, k *Kifu) error {
	switch token {
	case CommentToken:
		return nil
	case MoveToken:
		nth, err := strconv.Atoi(match[1])
		if err != nil {
			return fmt.Errorf("line %d: %w", p.lineno, err)
		}
		mv := Move{Nth: nth, Square: -1}
		if match[2] == WhiteMarker {
			mv.Turn = board.White
		}
		if !strings.EqualFold(match[3], PassMove) {
			mv.Square, err = board.ParseSquare(match[3])
			if err != nil {
				return fmt.Errorf("line %d: %w", p.lineno, err)
			}
		}
		mv.Position, err = board.FromRFEN(match[4])
		if err != nil {
			return fmt.Errorf("line %d: %w", p.lineno, err)
		}
		k.Moves = append(k.Moves, mv)
	case ResultToken:
		if k.HasResult {
			return fmt.Errorf("line %d: duplicate result", p.lineno)
		}
		score, err := strconv.ParseInt(match[1], 10, 8)
		if err != nil {
			return fmt.Errorf("line %d: %w", p.lineno, err)
		}
		k.Result = int8(score)
		k.HasResult = true
	default:
		return fmt.Errorf("line %d: unhandled token %v", p.lineno, token)
	}
	return nil
}

// decode returns the text as UTF-8. Records written by Japanese tools are
// often Shift-JIS; anything that is not valid UTF-8 is treated as such.
func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// Parse reads a kifu.
func Parse(r io.Reader) (*Kifu, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text, err := decode(data)
	if err != nil {
		return nil, err
	}
	k := &Kifu{}
	p := &parser{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		p.lineno++
		if err := p.parseLine(strings.TrimRight(scanner.Text(), "\r"), k); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return k, nil
}

// ParseFile parses the kifu at path.
func ParseFile(path string) (*Kifu, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	k, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return k, nil
}

// Positions returns every position in which a move was played, in order.
func (k *Kifu) Positions() []board.Board {
	positions := make([]board.Board, len(k.Moves))
	for i, m := range k.Moves {
		positions[i] = m.Position
	}
	return positions
}

func (k *Kifu) String() string {
	var sb strings.Builder
	sb.WriteString("# kifu\n")
	for _, m := range k.Moves {
		marker := BlackMarker
		if m.Turn == board.White {
			marker = WhiteMarker
		}
		mv := PassMove
		if !m.IsPass() {
			mv = board.SquareName(m.Square)
		}
		fmt.Fprintf(&sb, "%d %s %s %s\n", m.Nth, marker, mv, m.Position)
	}
	if k.HasResult {
		fmt.Fprintf(&sb, "result %+d\n", k.Result)
	}
	return sb.String()
}

// Record builds a kifu by playing squares from start; -1 is a pass. The
// result is filled in if the game is over afterwards.
func Record(start board.Board, squares ...int) (*Kifu, error) {
	k := &Kifu{}
	b := start
	for i, sq := range squares {
		k.Moves = append(k.Moves, Move{Nth: i + 1, Turn: b.Turn, Square: sq, Position: b})
		if sq < 0 {
			if !b.CanPass() {
				return nil, fmt.Errorf("move %d: %w: pass in %s", i+1, board.ErrIllegal, b)
			}
			b = b.Pass()
			continue
		}
		next, err := b.Play(sq)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		b = next
	}
	if b.IsOver() {
		k.Result = b.Count()
		k.HasResult = true
	}
	return k, nil
}
