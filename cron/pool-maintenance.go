package cron

import (
	"context"
	"time"

	"clubhouse/config"
	"clubhouse/repository"
	"clubhouse/scoring"
	"clubhouse/service"

	"github.com/sirupsen/logrus"
)

// StartDueDraftsLoop starts drafts whose scheduled time has arrived. Pools
// still short of two entrants stay untouched and are retried next sweep.
func StartDueDraftsLoop(ctx context.Context, sleep time.Duration) {
	poolRepository := repository.NewPoolRepository()
	draftService := service.NewDraftService()
	for {
		select {
		case <-ctx.Done():
			return
		default:
			startDueDrafts(poolRepository, draftService)
			select {
			case <-ctx.Done():
				return
			case <-time.After(sleep):
			}
		}
	}
}

func startDueDrafts(poolRepository *repository.PoolRepository, draftService *service.DraftService) {
	pools, err := poolRepository.GetDuePools(time.Now())
	if err != nil {
		logrus.WithError(err).Error("Failed to load due pools")
		return
	}
	for _, pool := range pools {
		if len(pool.Entrants) < 2 {
			continue
		}
		if _, err := draftService.StartDraft(pool.Id, nil); err != nil {
			logrus.WithField("poolId", pool.Id).WithError(err).Error("Failed to start due draft")
			continue
		}
		logrus.WithField("poolId", pool.Id).Info("Started scheduled draft")
	}
}

// FinalizePoolsLoop settles pools of completed tournaments so standings
// freeze even when nobody loads the leaderboard. Failures are retried on
// the next sweep.
func FinalizePoolsLoop(ctx context.Context, sleep time.Duration) {
	db := config.DatabaseConnection()
	poolRepository := repository.NewPoolRepository()
	for {
		select {
		case <-ctx.Done():
			return
		default:
			pools, err := poolRepository.GetSettleablePools()
			if err != nil {
				logrus.WithError(err).Error("Failed to load settleable pools")
			}
			for _, pool := range pools {
				if err := scoring.FinalizePool(db, pool.Id); err != nil {
					logrus.WithField("poolId", pool.Id).WithError(err).Error("Failed to finalize pool")
					continue
				}
				logrus.WithField("poolId", pool.Id).Info("Finalized pool")
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(sleep):
			}
		}
	}
}
