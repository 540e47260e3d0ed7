// Package scoring turns raw tournament results into team scores, standings
// and money. The resolution and payment code is pure; finalize.go holds the
// transactional persistence around it.
package scoring

import (
	"clubhouse/repository"
)

// Contribution is one resolved slot of a fantasy team. GolferId is the
// golfer whose outcome counted, which is the alternate's id when a
// withdrawn pick was substituted. PickedGolferId always names the
// originally drafted golfer.
type Contribution struct {
	PickedGolferId int
	GolferId       int
	Round          int
	ToPar          int
	Strokes        *int
	FromAlternate  bool
	Penalized      bool
	MissedCut      bool
}

// TeamInput is everything the resolver needs about one entrant's team.
type TeamInput struct {
	UserId    int
	Picks     []*repository.DraftPick
	Alternate *repository.Alternate
}

type ResolvedTeam struct {
	UserId        int
	Contributions []Contribution
	UsedAlternate bool
}

// effectivelyWithdrawn reports whether a pick has no usable outcome: the
// feed never produced a row, the golfer is flagged withdrawn, or to-par is
// missing without a missed cut to fall back on.
func effectivelyWithdrawn(result *repository.TournamentResult) bool {
	if result == nil || result.Withdrawn {
		return true
	}
	if result.ToPar != nil {
		return false
	}
	return result.MadeCut == nil || *result.MadeCut
}

// alternateEligible reports whether an alternate can stand in for a
// withdrawn pick: it must be playing, with a reported to-par.
func alternateEligible(result *repository.TournamentResult) bool {
	return result != nil && !result.Withdrawn && result.ToPar != nil
}

// resolvedToPar applies the missed-cut penalty: double the first two
// rounds when round data exists, double the total otherwise. Callers
// must rule out effective withdrawal first.
func resolvedToPar(result *repository.TournamentResult) (toPar int, missedCut bool) {
	if result.MadeCut != nil && !*result.MadeCut {
		if len(result.RoundToPar) >= 2 {
			return 2 * int(result.RoundToPar[0]+result.RoundToPar[1]), true
		}
		if result.ToPar != nil {
			return 2 * *result.ToPar, true
		}
		return 0, true
	}
	return *result.ToPar, false
}

// ResolveTeams maps every pick of every team onto an effective to-par
// contribution. Withdrawn picks are substituted by the entrant's alternate
// when it is eligible and not yet consumed; each entrant gets at most one
// substitution no matter how many picks are unresolved. Remaining
// withdrawals score one stroke worse than the worst resolved outcome in
// the whole pool, so they are assigned after everything else resolved.
func ResolveTeams(teams []TeamInput, results []*repository.TournamentResult) []ResolvedTeam {
	resultsByGolfer := make(map[int]*repository.TournamentResult, len(results))
	for _, result := range results {
		resultsByGolfer[result.GolferId] = result
	}

	resolved := make([]ResolvedTeam, len(teams))
	type pending struct {
		team int
		slot int
	}
	penalties := make([]pending, 0)
	maxResolved := 0
	hasResolved := false

	for i, team := range teams {
		resolved[i] = ResolvedTeam{
			UserId:        team.UserId,
			Contributions: make([]Contribution, len(team.Picks)),
		}
		for j, pick := range team.Picks {
			contribution := Contribution{
				PickedGolferId: pick.GolferId,
				GolferId:       pick.GolferId,
				Round:          pick.Round,
			}
			result := resultsByGolfer[pick.GolferId]
			if !effectivelyWithdrawn(result) {
				contribution.ToPar, contribution.MissedCut = resolvedToPar(result)
				contribution.Strokes = result.Strokes
			} else if alternate := team.Alternate; !resolved[i].UsedAlternate &&
				alternate != nil && alternateEligible(resultsByGolfer[alternate.GolferId]) {
				alternateResult := resultsByGolfer[alternate.GolferId]
				contribution.GolferId = alternate.GolferId
				contribution.ToPar, contribution.MissedCut = resolvedToPar(alternateResult)
				contribution.Strokes = alternateResult.Strokes
				contribution.FromAlternate = true
				resolved[i].UsedAlternate = true
			} else {
				contribution.Penalized = true
				penalties = append(penalties, pending{team: i, slot: j})
				resolved[i].Contributions[j] = contribution
				continue
			}
			if !hasResolved || contribution.ToPar > maxResolved {
				maxResolved = contribution.ToPar
				hasResolved = true
			}
			resolved[i].Contributions[j] = contribution
		}
	}

	for _, p := range penalties {
		resolved[p.team].Contributions[p.slot].ToPar = maxResolved + 1
	}
	return resolved
}
