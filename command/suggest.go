package command

import (
	"sort"
	"strings"
)

// Suggestion is one completion candidate for the command bar.
type Suggestion struct {
	Text        string
	Description string
	Icon        string
}

// Match quality ranks, best first.
const (
	rankExact = iota
	rankPrefix
	rankSubstring
	rankSubsequence
	rankNone
)

// Suggest returns completion candidates for the text typed after ":".
// An empty prefix returns the whole registry alphabetically. Candidates
// are ranked by match quality (exact, prefix, substring, subsequence),
// then by name length, then alphabetically; limit <= 0 means unlimited.
// The returned slice is fresh on every call.
func (r *Registry) Suggest(prefix string, limit int) []Suggestion {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	defs := r.Commands()

	if prefix == "" {
		if limit > 0 && len(defs) > limit {
			defs = defs[:limit]
		}
		out := make([]Suggestion, len(defs))
		for i, def := range defs {
			out[i] = Suggestion{Text: def.Name, Description: def.Description, Icon: def.Icon}
		}
		return out
	}

	type ranked struct {
		def  Definition
		rank int
	}

	var candidates []ranked
	for _, def := range defs {
		rank := matchRank(def, prefix)
		if rank == rankNone {
			continue
		}
		candidates = append(candidates, ranked{def: def, rank: rank})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].rank != candidates[j].rank {
			return candidates[i].rank < candidates[j].rank
		}
		if len(candidates[i].def.Name) != len(candidates[j].def.Name) {
			return len(candidates[i].def.Name) < len(candidates[j].def.Name)
		}
		return candidates[i].def.Name < candidates[j].def.Name
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]Suggestion, len(candidates))
	for i, c := range candidates {
		out[i] = Suggestion{
			Text:        c.def.Name,
			Description: c.def.Description,
			Icon:        c.def.Icon,
		}
	}
	return out
}

// matchRank scores a definition against a prefix using its name and
// aliases; the best score wins.
func matchRank(def Definition, prefix string) int {
	best := rankNone
	for _, name := range append([]string{def.Name}, def.Aliases...) {
		if r := nameRank(strings.ToLower(name), prefix); r < best {
			best = r
		}
	}
	return best
}

func nameRank(name, prefix string) int {
	switch {
	case name == prefix:
		return rankExact
	case strings.HasPrefix(name, prefix):
		return rankPrefix
	case strings.Contains(name, prefix):
		return rankSubstring
	case isSubsequence(prefix, name):
		return rankSubsequence
	default:
		return rankNone
	}
}

// isSubsequence reports whether every rune of needle appears in order in
// haystack ("sva" matches "saveAll").
func isSubsequence(needle, haystack string) bool {
	want := []rune(needle)
	if len(want) == 0 {
		return true
	}
	i := 0
	for _, r := range haystack {
		if want[i] == r {
			i++
			if i == len(want) {
				return true
			}
		}
	}
	return false
}
