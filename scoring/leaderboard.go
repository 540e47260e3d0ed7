package scoring

import (
	"sort"

	"clubhouse/draft"
	"clubhouse/repository"
)

// LeaderboardEntry is one entrant's standing: three resolved contributions,
// the team totals and a 1-based position.
type LeaderboardEntry struct {
	UserId        int
	Position      int
	TeamToPar     int
	TeamStrokes   int
	Contributions []Contribution
	UsedAlternate bool
}

// BuildLeaderboard resolves and ranks every complete team. Teams without a
// full set of picks are left off the board. Ties keep the input order
// (entrant join order) and still receive strictly increasing positions.
func BuildLeaderboard(teams []TeamInput, results []*repository.TournamentResult) []*LeaderboardEntry {
	complete := make([]TeamInput, 0, len(teams))
	for _, team := range teams {
		if len(team.Picks) == draft.Rounds {
			complete = append(complete, team)
		}
	}
	resolved := ResolveTeams(complete, results)

	entries := make([]*LeaderboardEntry, len(resolved))
	for i, team := range resolved {
		entry := &LeaderboardEntry{
			UserId:        team.UserId,
			Contributions: team.Contributions,
			UsedAlternate: team.UsedAlternate,
		}
		for _, contribution := range team.Contributions {
			entry.TeamToPar += contribution.ToPar
			if contribution.Strokes != nil {
				entry.TeamStrokes += *contribution.Strokes
			}
		}
		entries[i] = entry
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TeamToPar < entries[j].TeamToPar
	})
	for i, entry := range entries {
		entry.Position = i + 1
	}
	return entries
}
