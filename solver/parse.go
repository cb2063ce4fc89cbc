package solver

import (
	"math"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/domino14/mategen/board"
	"github.com/domino14/mategen/record"
)

// A child line looks like
//
//	val,-3.00,8/8/3A4/3B3/3Aa3/8/8/8 w,1234 nodes. f5 d6
var childRegex = regexp.MustCompile(`val,([-0-9.]+),([0-8A-Ha-h/]+ [bw]),`)

// narrow truncates v toward zero and clamps it into int8.
func narrow(v float64) int8 {
	v = math.Trunc(v)
	switch {
	case v > math.MaxInt8:
		return math.MaxInt8
	case v < math.MinInt8:
		return math.MinInt8
	}
	return int8(v)
}

// ParseChildren extracts the child records from solver output. Lines that
// are not child lines are skipped. A child line whose value or board does
// not parse is dropped and counted. Child records carry no stable-disc
// counts.
func ParseChildren(lines []string) ([]record.Record, int) {
	var recs []record.Record
	dropped := 0
	for _, line := range lines {
		m := childRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			log.Debug().Str("line", line).Msg("bad-child-value")
			dropped++
			continue
		}
		b, err := board.FromRFEN(m[2])
		if err != nil {
			log.Debug().Str("line", line).Err(err).Msg("bad-child-board")
			dropped++
			continue
		}
		recs = append(recs, record.Record{Board: b, Score: narrow(v)})
	}
	return recs, dropped
}
