package graph

import (
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/common"
)

const reasonValidProgression = "valid progression"

// ValidateTransition decides whether a leads_to edge from source to target
// is biologically plausible. Edges may stay on a level or move up the
// hierarchy, never down. Unknown levels are always rejected.
func ValidateTransition(source, target common.KeyEvent) (bool, string) {
	sourceRank := source.BiologicalLevel.Rank()
	targetRank := target.BiologicalLevel.Rank()

	if sourceRank == common.UnknownRank || targetRank == common.UnknownRank {
		var unknown []string
		if sourceRank == common.UnknownRank {
			unknown = append(unknown, fmt.Sprintf("source level %q", source.BiologicalLevel))
		}
		if targetRank == common.UnknownRank {
			unknown = append(unknown, fmt.Sprintf("target level %q", target.BiologicalLevel))
		}
		return false, "unrecognised " + strings.Join(unknown, " and ")
	}

	if targetRank < sourceRank {
		return false, fmt.Sprintf(
			"backward transition from %s to %s",
			source.BiologicalLevel,
			target.BiologicalLevel,
		)
	}

	return true, reasonValidProgression
}
