package cron

import (
	"context"
	"encoding/json"

	"clubhouse/config"
	"clubhouse/repository"
	"clubhouse/service"
	"clubhouse/utils"

	"github.com/sirupsen/logrus"
)

// ResultConsumeLoop reads one tournament's snapshot topic and applies every
// message. Offsets are committed per consumer group, so a restart resumes
// where the previous run stopped; replays are harmless because applying a
// snapshot is an upsert.
func ResultConsumeLoop(ctx context.Context, tournament *repository.Tournament) {
	jobRepository := repository.NewRecurringJobsRepository()
	consumer, err := jobRepository.GetKafkaConsumer(tournament.Id)
	if err != nil {
		logrus.WithError(err).Error("Failed to load consumer bookkeeping")
		return
	}
	reader, err := config.GetReader(tournament.Id, consumer.GroupId)
	if err != nil {
		logrus.WithError(err).Error("Failed to open result reader")
		return
	}
	defer utils.Closer(reader)()
	resultService := service.NewResultService()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logrus.WithError(err).Error("Failed to read result snapshot")
			return
		}
		message := &config.ResultSnapshotMessage{}
		if err := json.Unmarshal(msg.Value, message); err != nil {
			logrus.WithError(err).Error("Failed to decode result snapshot")
			continue
		}
		applied, err := resultService.ApplySnapshot(message)
		if err != nil {
			logrus.WithField("tournament", tournament.Name).WithError(err).Error("Failed to apply result snapshot")
			continue
		}
		logrus.WithFields(logrus.Fields{
			"tournament": tournament.Name,
			"results":    applied,
		}).Debug("Applied result snapshot")
	}
}
