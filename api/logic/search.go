/* search.go
 * Contains the team-name matching used by the match search endpoint. Captains
 * rarely type a team name exactly as it was registered, so the lookup is fuzzy
 */

package logic

import (
	"sort"
	"strings"

	"match-service/api/store"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MatchesTeamName reports whether the query fuzzily matches either of the
// match's team names. Matching is case insensitive
func MatchesTeamName(m store.Match, query string) bool {
	q := strings.ToLower(query)
	return fuzzy.Match(q, strings.ToLower(m.TeamOne.Name)) ||
		fuzzy.Match(q, strings.ToLower(m.TeamTwo.Name))
}

// FilterMatchesByTeamName returns the matches whose team names fuzzily match
// the query, best matches first
func FilterMatchesByTeamName(matches []store.Match, query string) []store.Match {
	q := strings.ToLower(query)

	type ranked struct {
		match store.Match
		rank  int
	}
	var results []ranked

	for _, m := range matches {
		best := -1
		for _, name := range []string{m.TeamOne.Name, m.TeamTwo.Name} {
			r := fuzzy.RankMatch(q, strings.ToLower(name))
			if r >= 0 && (best < 0 || r < best) {
				best = r
			}
		}
		if best >= 0 {
			results = append(results, ranked{match: m, rank: best})
		}
	}

	// Lower rank means a closer match
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].rank < results[j].rank
	})

	out := make([]store.Match, len(results))
	for i, r := range results {
		out[i] = r.match
	}
	return out
}
