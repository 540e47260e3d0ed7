package scoring

import (
	"clubhouse/repository"
)

// One dollar per stroke of differential; bounties are flat $10 per tier.
const (
	CentsPerStroke  = 100
	BountyUnitCents = 1000
)

type PaymentRow struct {
	FromUserId  int
	ToUserId    int
	AmountCents int
	Kind        repository.PaymentKind
}

// ComputePayments builds the pairwise main-payment matrix. Winners are
// every entrant sharing the best team score; each loser pays one dollar
// per stroke behind that score, split across the winners. Cents that do
// not divide evenly go to the earlier winners on the board, so each
// loser's outlay is exactly their differential.
func ComputePayments(entries []*LeaderboardEntry) []PaymentRow {
	if len(entries) < 2 {
		return nil
	}
	winnerScore := entries[0].TeamToPar
	winners := make([]*LeaderboardEntry, 0)
	for _, entry := range entries {
		if entry.TeamToPar == winnerScore {
			winners = append(winners, entry)
		}
	}

	payments := make([]PaymentRow, 0)
	for _, loser := range entries[len(winners):] {
		diffCents := (loser.TeamToPar - winnerScore) * CentsPerStroke
		if diffCents <= 0 {
			continue
		}
		base := diffCents / len(winners)
		remainder := diffCents % len(winners)
		for i, winner := range winners {
			amount := base
			if i < remainder {
				amount++
			}
			if amount == 0 {
				continue
			}
			payments = append(payments, PaymentRow{
				FromUserId:  loser.UserId,
				ToUserId:    winner.UserId,
				AmountCents: amount,
				Kind:        repository.PaymentMain,
			})
		}
	}
	return payments
}

// BountyResult is an outright tournament win by a drafted golfer, with the
// side-payments it triggers.
type BountyResult struct {
	WinnerUserId     int
	GolferId         int
	PickRound        int
	TotalAmountCents int
	Payments         []PaymentRow
}

// ComputeBounty detects whether exactly one golfer holds tournament
// position 1 and whether somebody drafted them. The pick's round sets the
// tier: that many teams from the bottom of the board each owe a flat $10
// to the drafting entrant. A payer slot landing on the winner themselves
// is skipped, not self-paid. A multi-way tie for position 1 pays nothing.
func ComputeBounty(entries []*LeaderboardEntry, results []*repository.TournamentResult) *BountyResult {
	var tournamentWinner *repository.TournamentResult
	for _, result := range results {
		if result.Position != nil && *result.Position == 1 {
			if tournamentWinner != nil {
				return nil
			}
			tournamentWinner = result
		}
	}
	if tournamentWinner == nil {
		return nil
	}

	var bounty *BountyResult
	for _, entry := range entries {
		for _, contribution := range entry.Contributions {
			if contribution.PickedGolferId == tournamentWinner.GolferId {
				bounty = &BountyResult{
					WinnerUserId: entry.UserId,
					GolferId:     contribution.PickedGolferId,
					PickRound:    contribution.Round,
				}
			}
		}
	}
	if bounty == nil {
		return nil
	}

	payers := bounty.PickRound
	if payers > len(entries) {
		payers = len(entries)
	}
	for i := len(entries) - 1; i >= len(entries)-payers; i-- {
		payer := entries[i]
		if payer.UserId == bounty.WinnerUserId {
			continue
		}
		bounty.Payments = append(bounty.Payments, PaymentRow{
			FromUserId:  payer.UserId,
			ToUserId:    bounty.WinnerUserId,
			AmountCents: BountyUnitCents,
			Kind:        repository.PaymentBounty,
		})
		bounty.TotalAmountCents += BountyUnitCents
	}
	return bounty
}
