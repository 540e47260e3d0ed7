package scoring

import (
	"testing"

	"clubhouse/repository"

	"github.com/stretchr/testify/assert"
)

func TestPaymentsSingleWinner(t *testing.T) {
	entries := []*LeaderboardEntry{
		{UserId: 1, Position: 1, TeamToPar: -10},
		{UserId: 2, Position: 2, TeamToPar: -4},
		{UserId: 3, Position: 3, TeamToPar: 2},
	}

	payments := ComputePayments(entries)
	assert.Len(t, payments, 2)
	assert.Equal(t, PaymentRow{FromUserId: 2, ToUserId: 1, AmountCents: 600, Kind: repository.PaymentMain}, payments[0])
	assert.Equal(t, PaymentRow{FromUserId: 3, ToUserId: 1, AmountCents: 1200, Kind: repository.PaymentMain}, payments[1])
}

func TestPaymentsSplitBetweenTiedWinners(t *testing.T) {
	entries := []*LeaderboardEntry{
		{UserId: 1, Position: 1, TeamToPar: -6},
		{UserId: 2, Position: 2, TeamToPar: -6},
		{UserId: 3, Position: 3, TeamToPar: -1},
	}

	payments := ComputePayments(entries)
	assert.Len(t, payments, 2)
	assert.Equal(t, 250, payments[0].AmountCents)
	assert.Equal(t, 1, payments[0].ToUserId)
	assert.Equal(t, 250, payments[1].AmountCents)
	assert.Equal(t, 2, payments[1].ToUserId)
	assert.Equal(t, 3, payments[0].FromUserId)
}

func TestPaymentsSpareCentsGoToEarlierWinners(t *testing.T) {
	entries := []*LeaderboardEntry{
		{UserId: 1, Position: 1, TeamToPar: 0},
		{UserId: 2, Position: 2, TeamToPar: 0},
		{UserId: 3, Position: 3, TeamToPar: 0},
		{UserId: 4, Position: 4, TeamToPar: 1},
	}

	payments := ComputePayments(entries)
	assert.Len(t, payments, 3)
	assert.Equal(t, 34, payments[0].AmountCents)
	assert.Equal(t, 33, payments[1].AmountCents)
	assert.Equal(t, 33, payments[2].AmountCents)

	total := 0
	for _, payment := range payments {
		total += payment.AmountCents
	}
	assert.Equal(t, 100, total, "the loser pays exactly one stroke")
}

func TestPaymentsAreZeroSum(t *testing.T) {
	entries := []*LeaderboardEntry{
		{UserId: 1, Position: 1, TeamToPar: -8},
		{UserId: 2, Position: 2, TeamToPar: -8},
		{UserId: 3, Position: 3, TeamToPar: -3},
		{UserId: 4, Position: 4, TeamToPar: 0},
		{UserId: 5, Position: 5, TeamToPar: 7},
	}

	payments := ComputePayments(entries)
	net := map[int]int{}
	for _, payment := range payments {
		net[payment.FromUserId] -= payment.AmountCents
		net[payment.ToUserId] += payment.AmountCents
	}

	total := 0
	for _, amount := range net {
		total += amount
	}
	assert.Equal(t, 0, total)
	assert.Equal(t, net[1], net[2], "tied winners collect the same amount")
}

func TestPaymentsNeedTwoTeams(t *testing.T) {
	assert.Nil(t, ComputePayments([]*LeaderboardEntry{{UserId: 1, TeamToPar: -5}}))
	assert.Nil(t, ComputePayments(nil))
}

func TestPaymentsEveryoneTiedMeansNoMoney(t *testing.T) {
	entries := []*LeaderboardEntry{
		{UserId: 1, Position: 1, TeamToPar: -2},
		{UserId: 2, Position: 2, TeamToPar: -2},
	}
	assert.Empty(t, ComputePayments(entries))
}

func bountyContribution(pickedGolferId int, round int) Contribution {
	return Contribution{PickedGolferId: pickedGolferId, GolferId: pickedGolferId, Round: round}
}

func TestBountyPaidByBottomTeams(t *testing.T) {
	entries := []*LeaderboardEntry{
		{UserId: 1, Position: 1, TeamToPar: -12, Contributions: []Contribution{bountyContribution(100, 1), bountyContribution(101, 2), bountyContribution(102, 3)}},
		{UserId: 2, Position: 2, TeamToPar: -9, Contributions: []Contribution{bountyContribution(103, 1), bountyContribution(104, 2), bountyContribution(105, 3)}},
		{UserId: 3, Position: 3, TeamToPar: -5, Contributions: []Contribution{bountyContribution(106, 1), bountyContribution(107, 2), bountyContribution(108, 3)}},
		{UserId: 4, Position: 4, TeamToPar: -1, Contributions: []Contribution{bountyContribution(109, 1), bountyContribution(110, 2), bountyContribution(111, 3)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 104, Position: intPtr(1), ToPar: intPtr(-15)},
		{GolferId: 100, Position: intPtr(2), ToPar: intPtr(-13)},
	}

	bounty := ComputeBounty(entries, results)
	assert.NotNil(t, bounty)
	assert.Equal(t, 2, bounty.WinnerUserId)
	assert.Equal(t, 104, bounty.GolferId)
	assert.Equal(t, 2, bounty.PickRound, "second-round pick pays out at tier two")
	assert.Equal(t, 2000, bounty.TotalAmountCents)
	assert.Len(t, bounty.Payments, 2)
	assert.Equal(t, 4, bounty.Payments[0].FromUserId)
	assert.Equal(t, 3, bounty.Payments[1].FromUserId)
	for _, payment := range bounty.Payments {
		assert.Equal(t, 2, payment.ToUserId)
		assert.Equal(t, BountyUnitCents, payment.AmountCents)
		assert.Equal(t, repository.PaymentBounty, payment.Kind)
	}
}

func TestBountySkipsSelfPayment(t *testing.T) {
	entries := []*LeaderboardEntry{
		{UserId: 1, Position: 1, TeamToPar: -10, Contributions: []Contribution{bountyContribution(100, 1)}},
		{UserId: 2, Position: 2, TeamToPar: -4, Contributions: []Contribution{bountyContribution(101, 1), bountyContribution(102, 2)}},
		{UserId: 3, Position: 3, TeamToPar: 3, Contributions: []Contribution{bountyContribution(103, 1)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 102, Position: intPtr(1)},
	}

	bounty := ComputeBounty(entries, results)
	assert.NotNil(t, bounty)
	assert.Equal(t, 2, bounty.WinnerUserId)
	assert.Len(t, bounty.Payments, 1, "the drafter sits in the paying range but never pays themselves")
	assert.Equal(t, 3, bounty.Payments[0].FromUserId)
	assert.Equal(t, 1000, bounty.TotalAmountCents)
}

func TestBountyTieMeansNoPayout(t *testing.T) {
	entries := []*LeaderboardEntry{
		{UserId: 1, Position: 1, TeamToPar: -10, Contributions: []Contribution{bountyContribution(100, 1)}},
		{UserId: 2, Position: 2, TeamToPar: -4, Contributions: []Contribution{bountyContribution(101, 1)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 100, Position: intPtr(1)},
		{GolferId: 101, Position: intPtr(1)},
	}

	assert.Nil(t, ComputeBounty(entries, results))
}

func TestBountyUndraftedChampion(t *testing.T) {
	entries := []*LeaderboardEntry{
		{UserId: 1, Position: 1, TeamToPar: -10, Contributions: []Contribution{bountyContribution(100, 1)}},
		{UserId: 2, Position: 2, TeamToPar: -4, Contributions: []Contribution{bountyContribution(101, 1)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 999, Position: intPtr(1)},
	}

	assert.Nil(t, ComputeBounty(entries, results))
}

func TestBountySubstitutedAlternateDoesNotCount(t *testing.T) {
	entries := []*LeaderboardEntry{
		{UserId: 1, Position: 1, TeamToPar: -10, Contributions: []Contribution{
			{PickedGolferId: 100, GolferId: 200, Round: 1, FromAlternate: true},
		}},
		{UserId: 2, Position: 2, TeamToPar: -4, Contributions: []Contribution{bountyContribution(101, 1)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 200, Position: intPtr(1)},
	}

	assert.Nil(t, ComputeBounty(entries, results), "only the drafted golfer earns the bounty")
}

func TestBountyTierClampedToPoolSize(t *testing.T) {
	entries := []*LeaderboardEntry{
		{UserId: 1, Position: 1, TeamToPar: -10, Contributions: []Contribution{bountyContribution(100, 3)}},
		{UserId: 2, Position: 2, TeamToPar: -4, Contributions: []Contribution{bountyContribution(101, 1)}},
	}
	results := []*repository.TournamentResult{
		{GolferId: 100, Position: intPtr(1)},
	}

	bounty := ComputeBounty(entries, results)
	assert.NotNil(t, bounty)
	assert.Equal(t, 3, bounty.PickRound)
	assert.Len(t, bounty.Payments, 1, "a third-round tier in a two-team pool only reaches one payer")
	assert.Equal(t, 2, bounty.Payments[0].FromUserId)
	assert.Equal(t, 1000, bounty.TotalAmountCents)
}
