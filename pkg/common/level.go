package common

// BiologicalLevel is the organisational scale at which an event is
// described.
type BiologicalLevel string

const (
	LevelMolecular  BiologicalLevel = "molecular"
	LevelCellular   BiologicalLevel = "cellular"
	LevelTissue     BiologicalLevel = "tissue"
	LevelOrgan      BiologicalLevel = "organ"
	LevelOrganism   BiologicalLevel = "organism"
	LevelPopulation BiologicalLevel = "population"
)

// UnknownRank is returned for labels outside the closed level set. It is
// lower than every real rank.
const UnknownRank = -1

// BiologicalLevels lists the levels from lowest to highest rank.
var BiologicalLevels = []BiologicalLevel{
	LevelMolecular,
	LevelCellular,
	LevelTissue,
	LevelOrgan,
	LevelOrganism,
	LevelPopulation,
}

var levelRanks = map[BiologicalLevel]int{
	LevelMolecular:  0,
	LevelCellular:   1,
	LevelTissue:     2,
	LevelOrgan:      3,
	LevelOrganism:   4,
	LevelPopulation: 5,
}

// Rank returns the ordinal of l, or UnknownRank if l is not a recognised
// level.
func (l BiologicalLevel) Rank() int {
	if r, ok := levelRanks[l]; ok {
		return r
	}
	return UnknownRank
}

// Valid reports whether l is one of the recognised levels.
func (l BiologicalLevel) Valid() bool {
	return l.Rank() != UnknownRank
}

// LevelRank returns the ordinal of the given label. Labels are matched
// exactly.
func LevelRank(label string) int {
	return BiologicalLevel(label).Rank()
}
