package argparse

import (
	"github.com/agnivade/levenshtein"
)

// Unknown tokens closer than this edit distance to a declared name get a
// suggestion.
const suggestionThreshold = 2

// ClosestKey returns the declared option key or alias with the smallest
// edit distance to word, and that distance. Ties go to the
// lexicographically smallest name. distance is -1 when no options are
// declared.
func (cmd *Command) ClosestKey(word string) (key string, distance int) {
	names := make([]string, 0, len(cmd.names))
	for _, arg := range cmd.Args() {
		if !arg.positional {
			names = append(names, arg.Names()...)
		}
	}
	return closest(word, names)
}

func commandNames(cmd *Command) []string {
	names := make([]string, 0, cmd.commands.Len())
	for pair := cmd.commands.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func closest(word string, candidates []string) (string, int) {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(word, c)
		if bestDist < 0 || d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}
