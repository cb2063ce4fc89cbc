package incubator

// A Stage is one step of processing an input group.
type Stage int

const (
	StageCheck Stage = iota
	StageLoad
	StageDedupLoaded
	StageExpand
	StageDedupExpanded
	StageAugment
	StageDedupAugmented
	StageStore
)

func (s Stage) String() string {
	switch s {
	case StageCheck:
		return "check"
	case StageLoad:
		return "load"
	case StageDedupLoaded:
		return "dedup-loaded"
	case StageExpand:
		return "expand"
	case StageDedupExpanded:
		return "dedup-expanded"
	case StageAugment:
		return "augment"
	case StageDedupAugmented:
		return "dedup-augmented"
	case StageStore:
		return "store"
	}
	return "unknown"
}

// Mode selects where a run gets its positions.
type Mode string

const (
	// ModeKifu extracts positions from game records and has the solver
	// expand them one ply.
	ModeKifu Mode = "kifu"
	// ModeSnapshot reads positions that are already solved.
	ModeSnapshot Mode = "snapshot"
)

var stages = map[Mode][]Stage{
	ModeKifu: {StageLoad, StageDedupLoaded, StageExpand, StageDedupExpanded,
		StageAugment, StageDedupAugmented, StageStore},
	ModeSnapshot: {StageLoad, StageDedupLoaded, StageAugment, StageDedupAugmented,
		StageStore},
}
