package cron

import (
	"context"
	"time"

	"clubhouse/service"

	"github.com/sirupsen/logrus"
)

// ScheduleSyncLoop keeps tournaments and their entry lists in step with the
// feed. Fields are only fetched for tournaments near or past their start,
// earlier the feed has nothing to say about them.
func ScheduleSyncLoop(ctx context.Context, sleep time.Duration) {
	tournamentService := service.NewTournamentService()
	for {
		select {
		case <-ctx.Done():
			return
		default:
			count, err := tournamentService.SyncSchedule(time.Now().Year())
			if err != nil {
				logrus.WithError(err).Error("Failed to sync schedule")
			} else {
				logrus.WithField("tournaments", count).Debug("Synced schedule")
			}
			syncUpcomingFields(tournamentService)
			select {
			case <-ctx.Done():
				return
			case <-time.After(sleep):
			}
		}
	}
}

func syncUpcomingFields(tournamentService *service.TournamentService) {
	tournaments, err := tournamentService.GetSchedule()
	if err != nil {
		logrus.WithError(err).Error("Failed to load schedule")
		return
	}
	now := time.Now()
	for _, tournament := range tournaments {
		if tournament.StartTime.After(now.Add(14*24*time.Hour)) || tournament.EndTime.Before(now) {
			continue
		}
		if _, err := tournamentService.SyncField(tournament); err != nil {
			logrus.WithField("tournament", tournament.Name).WithError(err).Error("Failed to sync field")
		}
	}
}
