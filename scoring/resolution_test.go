package scoring

import (
	"testing"

	"clubhouse/repository"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func pick(userId int, golferId int, pickNumber int, round int) *repository.DraftPick {
	return &repository.DraftPick{
		UserId:     userId,
		GolferId:   golferId,
		PickNumber: pickNumber,
		Round:      round,
	}
}

func TestResolveDirectToPar(t *testing.T) {
	teams := []TeamInput{
		{UserId: 1, Picks: []*repository.DraftPick{pick(1, 100, 1, 1)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 100, ToPar: intPtr(-7), Strokes: intPtr(277), MadeCut: boolPtr(true)},
	}

	resolved := ResolveTeams(teams, results)
	assert.Len(t, resolved, 1)
	assert.Equal(t, -7, resolved[0].Contributions[0].ToPar)
	assert.Equal(t, 277, *resolved[0].Contributions[0].Strokes)
	assert.False(t, resolved[0].Contributions[0].MissedCut)
	assert.False(t, resolved[0].Contributions[0].Penalized)
	assert.False(t, resolved[0].UsedAlternate)
}

func TestMissedCutPenaltyFromRounds(t *testing.T) {
	teams := []TeamInput{
		{UserId: 1, Picks: []*repository.DraftPick{pick(1, 100, 1, 1)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 100, ToPar: intPtr(3), MadeCut: boolPtr(false), RoundToPar: pq.Int64Array{1, 2}},
	}

	resolved := ResolveTeams(teams, results)
	assert.Equal(t, 6, resolved[0].Contributions[0].ToPar, "twice the first two rounds")
	assert.True(t, resolved[0].Contributions[0].MissedCut)
}

func TestMissedCutPenaltyFallsBackToTotal(t *testing.T) {
	teams := []TeamInput{
		{UserId: 1, Picks: []*repository.DraftPick{pick(1, 100, 1, 1)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 100, ToPar: intPtr(5), MadeCut: boolPtr(false)},
	}

	resolved := ResolveTeams(teams, results)
	assert.Equal(t, 10, resolved[0].Contributions[0].ToPar)
	assert.True(t, resolved[0].Contributions[0].MissedCut)
}

func TestMissedCutWithoutAnyData(t *testing.T) {
	teams := []TeamInput{
		{UserId: 1, Picks: []*repository.DraftPick{pick(1, 100, 1, 1)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 100, MadeCut: boolPtr(false)},
	}

	resolved := ResolveTeams(teams, results)
	assert.Equal(t, 0, resolved[0].Contributions[0].ToPar)
	assert.True(t, resolved[0].Contributions[0].MissedCut)
	assert.False(t, resolved[0].Contributions[0].Penalized, "a missed cut is a resolved outcome, not a withdrawal")
}

func TestMissingResultRowIsWithdrawal(t *testing.T) {
	teams := []TeamInput{
		{UserId: 1, Picks: []*repository.DraftPick{pick(1, 100, 1, 1), pick(1, 101, 2, 2)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 101, ToPar: intPtr(-4), MadeCut: boolPtr(true)},
	}

	resolved := ResolveTeams(teams, results)
	assert.True(t, resolved[0].Contributions[0].Penalized)
	assert.Equal(t, -3, resolved[0].Contributions[0].ToPar, "one worse than the best resolved score on the board")
}

func TestExplicitWithdrawalOverridesReportedScore(t *testing.T) {
	teams := []TeamInput{
		{UserId: 1, Picks: []*repository.DraftPick{pick(1, 100, 1, 1), pick(1, 101, 2, 2)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 100, ToPar: intPtr(2), Withdrawn: true},
		{GolferId: 101, ToPar: intPtr(8), MadeCut: boolPtr(true)},
	}

	resolved := ResolveTeams(teams, results)
	assert.True(t, resolved[0].Contributions[0].Penalized)
	assert.Equal(t, 9, resolved[0].Contributions[0].ToPar)
}

func TestWithdrawalPenaltyBeatsEveryResolvedScore(t *testing.T) {
	teams := []TeamInput{
		{UserId: 1, Picks: []*repository.DraftPick{pick(1, 100, 1, 1), pick(1, 103, 6, 2)}},
		{UserId: 2, Picks: []*repository.DraftPick{pick(2, 101, 2, 1), pick(2, 102, 5, 2)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 100, ToPar: intPtr(-12), MadeCut: boolPtr(true)},
		{GolferId: 101, ToPar: intPtr(-5), MadeCut: boolPtr(true)},
		{GolferId: 102, ToPar: intPtr(4), MadeCut: boolPtr(false), RoundToPar: pq.Int64Array{3, 1}},
	}

	resolved := ResolveTeams(teams, results)
	penalty := resolved[0].Contributions[1]
	assert.True(t, penalty.Penalized)
	// worst resolved outcome is the doubled missed-cut score of +8
	assert.Equal(t, 9, penalty.ToPar)
	for _, team := range resolved {
		for _, contribution := range team.Contributions {
			if !contribution.Penalized {
				assert.Less(t, contribution.ToPar, penalty.ToPar)
			}
		}
	}
}

func TestWithdrawalPenaltyWhenNothingResolved(t *testing.T) {
	teams := []TeamInput{
		{UserId: 1, Picks: []*repository.DraftPick{pick(1, 100, 1, 1)}},
	}

	resolved := ResolveTeams(teams, nil)
	assert.True(t, resolved[0].Contributions[0].Penalized)
	assert.Equal(t, 1, resolved[0].Contributions[0].ToPar)
}

func TestNullToParWithMadeCutTrueIsWithdrawal(t *testing.T) {
	teams := []TeamInput{
		{UserId: 1, Picks: []*repository.DraftPick{pick(1, 100, 1, 1)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 100, MadeCut: boolPtr(true)},
	}

	resolved := ResolveTeams(teams, results)
	assert.True(t, resolved[0].Contributions[0].Penalized)
}

func TestAlternateSubstitutesWithdrawnPick(t *testing.T) {
	teams := []TeamInput{
		{
			UserId:    1,
			Picks:     []*repository.DraftPick{pick(1, 100, 1, 1), pick(1, 101, 2, 2)},
			Alternate: &repository.Alternate{UserId: 1, GolferId: 200},
		},
	}
	results := []*repository.TournamentResult{
		{GolferId: 100, Withdrawn: true},
		{GolferId: 101, ToPar: intPtr(-2), MadeCut: boolPtr(true)},
		{GolferId: 200, ToPar: intPtr(-6), Strokes: intPtr(278), MadeCut: boolPtr(true)},
	}

	resolved := ResolveTeams(teams, results)
	substituted := resolved[0].Contributions[0]
	assert.True(t, substituted.FromAlternate)
	assert.Equal(t, 200, substituted.GolferId)
	assert.Equal(t, 100, substituted.PickedGolferId)
	assert.Equal(t, -6, substituted.ToPar)
	assert.True(t, resolved[0].UsedAlternate)
}

func TestAlternateConsumedOnlyOnce(t *testing.T) {
	teams := []TeamInput{
		{
			UserId:    1,
			Picks:     []*repository.DraftPick{pick(1, 100, 1, 1), pick(1, 101, 2, 2), pick(1, 102, 3, 3)},
			Alternate: &repository.Alternate{UserId: 1, GolferId: 200},
		},
	}
	results := []*repository.TournamentResult{
		{GolferId: 102, ToPar: intPtr(1), MadeCut: boolPtr(true)},
		{GolferId: 200, ToPar: intPtr(-3), MadeCut: boolPtr(true)},
	}

	resolved := ResolveTeams(teams, results)
	assert.True(t, resolved[0].Contributions[0].FromAlternate, "first withdrawn pick takes the alternate")
	assert.True(t, resolved[0].Contributions[1].Penalized, "second withdrawn pick is out of luck")
	assert.Equal(t, 2, resolved[0].Contributions[1].ToPar)
}

func TestAlternateMustBePlaying(t *testing.T) {
	teams := []TeamInput{
		{
			UserId:    1,
			Picks:     []*repository.DraftPick{pick(1, 100, 1, 1), pick(1, 101, 2, 2)},
			Alternate: &repository.Alternate{UserId: 1, GolferId: 200},
		},
	}
	results := []*repository.TournamentResult{
		{GolferId: 101, ToPar: intPtr(0), MadeCut: boolPtr(true)},
		{GolferId: 200, Withdrawn: true},
	}

	resolved := ResolveTeams(teams, results)
	assert.True(t, resolved[0].Contributions[0].Penalized)
	assert.False(t, resolved[0].UsedAlternate)
}

func TestAlternateWithMissedCutIsEligibleAndDoubled(t *testing.T) {
	teams := []TeamInput{
		{
			UserId:    1,
			Picks:     []*repository.DraftPick{pick(1, 100, 1, 1), pick(1, 101, 2, 2)},
			Alternate: &repository.Alternate{UserId: 1, GolferId: 200},
		},
	}
	results := []*repository.TournamentResult{
		{GolferId: 101, ToPar: intPtr(-1), MadeCut: boolPtr(true)},
		{GolferId: 200, ToPar: intPtr(4), MadeCut: boolPtr(false), RoundToPar: pq.Int64Array{1, 2}},
	}

	resolved := ResolveTeams(teams, results)
	substituted := resolved[0].Contributions[0]
	assert.True(t, substituted.FromAlternate)
	assert.True(t, substituted.MissedCut)
	assert.Equal(t, 6, substituted.ToPar, "missed-cut doubling applies to the alternate too")
}
