// Package scoring ranks team pairs for a practice match on a given date.
// Scoring is a pure heuristic: no I/O, no errors, absent fields fall back
// to neutral defaults.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mkondo/teamlink/internal/models"
)

// Result is an explainable compatibility score. Reasons lists every rule
// that contributed, in evaluation order.
type Result struct {
	Value   int      `json:"value"`
	Reasons []string `json:"reasons"`
}

// Pair is one scored unordered team pair.
type Pair struct {
	TeamA  models.Team `json:"team_a"`
	TeamB  models.Team `json:"team_b"`
	Result Result      `json:"result"`
}

// Score computes the compatibility of two teams. Symmetric in its
// arguments.
func Score(a, b *models.Team) Result {
	var r Result

	if a.Category() != "" && a.Category() == b.Category() {
		r.Value += 3
		r.Reasons = append(r.Reasons, fmt.Sprintf("same category (%s)", a.Category()))
	}

	gap := a.Level() - b.Level()
	if gap < 0 {
		gap = -gap
	}
	if bonus := 3 - gap; bonus > 0 {
		r.Value += bonus
		r.Reasons = append(r.Reasons, fmt.Sprintf("skill levels close (gap %d)", gap))
	}

	if locationsOverlap(a.Location(), b.Location()) {
		r.Value += 2
		r.Reasons = append(r.Reasons, "locations overlap")
	}

	if a.HasGround || b.HasGround {
		r.Value += 2
		r.Reasons = append(r.Reasons, "a home ground is available")
	}

	if a.KitPrimary != "" && strings.EqualFold(a.KitPrimary, b.KitPrimary) {
		r.Value--
		r.Reasons = append(r.Reasons, fmt.Sprintf("kit colors clash (%s)", strings.ToLower(a.KitPrimary)))
	}

	return r
}

// locationsOverlap is a loose "nearby" proxy: one location text being a
// substring of the other, case-insensitive, after trimming. Not geodesic.
func locationsOverlap(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// BuildMatches filters to teams whose desired-date list contains date
// (YYYY-MM-DD), scores every unordered pair once, and returns the pairs
// sorted by score descending. The sort is stable, so equal scores keep
// pair-generation order.
func BuildMatches(teams []models.Team, date string) []Pair {
	var candidates []models.Team
	for _, t := range teams {
		if t.WantsDate(date) {
			candidates = append(candidates, t)
		}
	}

	var pairs []Pair
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			pairs = append(pairs, Pair{
				TeamA:  candidates[i],
				TeamB:  candidates[j],
				Result: Score(&candidates[i], &candidates[j]),
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Result.Value > pairs[j].Result.Value
	})
	return pairs
}
