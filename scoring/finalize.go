package scoring

import (
	"fmt"

	"clubhouse/app_error"
	"clubhouse/metrics"
	"clubhouse/repository"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoadTeamInputs assembles the resolver inputs for a pool: one team per
// entrant in join order, picks in pick order, plus the nominated alternate.
func LoadTeamInputs(db *gorm.DB, poolId int) ([]TeamInput, error) {
	var entrants []*repository.Entrant
	if err := db.Order("joined_at asc, user_id asc").Find(&entrants, "pool_id = ?", poolId).Error; err != nil {
		return nil, fmt.Errorf("failed to load entrants: %v", err)
	}
	var picks []*repository.DraftPick
	if err := db.Order("pick_number asc").Find(&picks, "pool_id = ?", poolId).Error; err != nil {
		return nil, fmt.Errorf("failed to load picks: %v", err)
	}
	var alternates []*repository.Alternate
	if err := db.Find(&alternates, "pool_id = ?", poolId).Error; err != nil {
		return nil, fmt.Errorf("failed to load alternates: %v", err)
	}

	picksByUser := make(map[int][]*repository.DraftPick)
	for _, pick := range picks {
		picksByUser[pick.UserId] = append(picksByUser[pick.UserId], pick)
	}
	alternatesByUser := make(map[int]*repository.Alternate)
	for _, alternate := range alternates {
		alternatesByUser[alternate.UserId] = alternate
	}

	teams := make([]TeamInput, 0, len(entrants))
	for _, entrant := range entrants {
		teams = append(teams, TeamInput{
			UserId:    entrant.UserId,
			Picks:     picksByUser[entrant.UserId],
			Alternate: alternatesByUser[entrant.UserId],
		})
	}
	return teams, nil
}

// LiveLeaderboard computes current standings from the latest synced
// results without persisting anything.
func LiveLeaderboard(db *gorm.DB, pool *repository.Pool) ([]*LeaderboardEntry, error) {
	teams, err := LoadTeamInputs(db, pool.Id)
	if err != nil {
		return nil, err
	}
	var results []*repository.TournamentResult
	if err := db.Find(&results, "tournament_id = ?", pool.TournamentId).Error; err != nil {
		return nil, fmt.Errorf("failed to load results: %v", err)
	}
	return BuildLeaderboard(teams, results), nil
}

// FinalizePool freezes a pool's standings and money exactly once: ranks
// the teams, computes payments and bounty, persists the frozen scores and
// folds the net amounts into each entrant's season totals. Calling it
// again, or concurrently, is a no-op thanks to the guard on persisted
// scores inside the same transaction that writes them.
func FinalizePool(db *gorm.DB, poolId int) error {
	timer := prometheus.NewTimer(metrics.FinalizationDuration)
	defer timer.ObserveDuration()

	return db.Transaction(func(tx *gorm.DB) error {
		pool := &repository.Pool{}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(pool, poolId).Error; err != nil {
			return err
		}
		tournament := &repository.Tournament{}
		if err := tx.First(tournament, pool.TournamentId).Error; err != nil {
			return err
		}
		if tournament.Status != repository.TournamentCompleted {
			return app_error.Validation("tournament %d is not completed yet", tournament.Id)
		}

		var existing int64
		if err := tx.Model(&repository.PoolScore{}).Where("pool_id = ?", poolId).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		teams, err := LoadTeamInputs(tx, poolId)
		if err != nil {
			return err
		}
		var results []*repository.TournamentResult
		if err := tx.Find(&results, "tournament_id = ?", pool.TournamentId).Error; err != nil {
			return err
		}

		entries := BuildLeaderboard(teams, results)
		if len(entries) == 0 {
			return app_error.Validation("pool %d has no complete teams to score", poolId)
		}

		paymentRows := ComputePayments(entries)
		bounty := ComputeBounty(entries, results)
		if bounty != nil {
			paymentRows = append(paymentRows, bounty.Payments...)
		}

		netMain := make(map[int]int)
		netBounty := make(map[int]int)
		for _, row := range paymentRows {
			switch row.Kind {
			case repository.PaymentMain:
				netMain[row.FromUserId] -= row.AmountCents
				netMain[row.ToUserId] += row.AmountCents
			case repository.PaymentBounty:
				netBounty[row.FromUserId] -= row.AmountCents
				netBounty[row.ToUserId] += row.AmountCents
			}
		}

		year := tournament.EndTime.Year()
		scores := make([]*repository.PoolScore, 0, len(entries))
		for _, entry := range entries {
			golferIds := make(pq.Int64Array, len(entry.Contributions))
			contributions := make(pq.Int64Array, len(entry.Contributions))
			for i, contribution := range entry.Contributions {
				golferIds[i] = int64(contribution.GolferId)
				contributions[i] = int64(contribution.ToPar)
			}
			scores = append(scores, &repository.PoolScore{
				PoolId:          poolId,
				UserId:          entry.UserId,
				Position:        entry.Position,
				TeamToPar:       entry.TeamToPar,
				TeamStrokes:     entry.TeamStrokes,
				GolferIds:       golferIds,
				Contributions:   contributions,
				UsedAlternate:   entry.UsedAlternate,
				NetPaymentCents: netMain[entry.UserId],
				NetBountyCents:  netBounty[entry.UserId],
				Year:            year,
			})
		}
		if err := tx.Create(&scores).Error; err != nil {
			return err
		}

		if len(paymentRows) > 0 {
			payments := make([]*repository.Payment, 0, len(paymentRows))
			for _, row := range paymentRows {
				payments = append(payments, &repository.Payment{
					PoolId:      poolId,
					FromUserId:  row.FromUserId,
					ToUserId:    row.ToUserId,
					AmountCents: row.AmountCents,
					Kind:        row.Kind,
				})
			}
			if err := tx.Create(&payments).Error; err != nil {
				return err
			}
		}
		if bounty != nil {
			record := &repository.Bounty{
				PoolId:           poolId,
				WinnerUserId:     bounty.WinnerUserId,
				GolferId:         bounty.GolferId,
				PickRound:        bounty.PickRound,
				TotalAmountCents: bounty.TotalAmountCents,
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}

		for _, entry := range entries {
			won := 0
			if entry.Position == 1 {
				won = 1
			}
			total := &repository.SeasonTotal{
				UserId:        entry.UserId,
				Year:          year,
				PoolsPlayed:   1,
				PoolsWon:      won,
				WinningsCents: netMain[entry.UserId],
				BountiesCents: netBounty[entry.UserId],
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"pools_played":   gorm.Expr("season_totals.pools_played + excluded.pools_played"),
					"pools_won":      gorm.Expr("season_totals.pools_won + excluded.pools_won"),
					"winnings_cents": gorm.Expr("season_totals.winnings_cents + excluded.winnings_cents"),
					"bounties_cents": gorm.Expr("season_totals.bounties_cents + excluded.bounties_cents"),
				}),
			}).Create(total).Error
			if err != nil {
				return err
			}
		}

		metrics.FinalizationsCounter.Inc()
		return nil
	})
}

// ResetFinalization reverses a finalization by subtracting the exact
// deltas recorded in the frozen scores, then deleting the bounty, payment
// and score rows. Results that changed since finalization do not matter;
// nothing is recomputed. Safe to call when the pool was never finalized.
func ResetFinalization(db *gorm.DB, poolId int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		pool := &repository.Pool{}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(pool, poolId).Error; err != nil {
			return err
		}

		var scores []*repository.PoolScore
		if err := tx.Find(&scores, "pool_id = ?", poolId).Error; err != nil {
			return err
		}
		if len(scores) == 0 {
			return nil
		}

		for _, score := range scores {
			total := &repository.SeasonTotal{}
			err := tx.First(total, "user_id = ? AND year = ?", score.UserId, score.Year).Error
			if err == gorm.ErrRecordNotFound {
				continue
			}
			if err != nil {
				return err
			}
			if total.PoolsPlayed <= 1 {
				if err := tx.Delete(&repository.SeasonTotal{}, "user_id = ? AND year = ?", score.UserId, score.Year).Error; err != nil {
					return err
				}
				continue
			}
			won := 0
			if score.Position == 1 {
				won = 1
			}
			err = tx.Model(&repository.SeasonTotal{}).
				Where("user_id = ? AND year = ?", score.UserId, score.Year).
				Updates(map[string]interface{}{
					"pools_played":   gorm.Expr("pools_played - 1"),
					"pools_won":      gorm.Expr("pools_won - ?", won),
					"winnings_cents": gorm.Expr("winnings_cents - ?", score.NetPaymentCents),
					"bounties_cents": gorm.Expr("bounties_cents - ?", score.NetBountyCents),
				}).Error
			if err != nil {
				return err
			}
		}

		if err := tx.Delete(&repository.Bounty{}, "pool_id = ?", poolId).Error; err != nil {
			return err
		}
		if err := tx.Delete(&repository.Payment{}, "pool_id = ?", poolId).Error; err != nil {
			return err
		}
		return tx.Delete(&repository.PoolScore{}, "pool_id = ?", poolId).Error
	})
}
