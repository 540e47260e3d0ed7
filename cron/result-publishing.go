package cron

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"clubhouse/client"
	"clubhouse/config"
	"clubhouse/metrics"
	"clubhouse/repository"
	"clubhouse/utils"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// ResultPublishLoop polls the live feed and publishes snapshots for one
// tournament to its kafka topic. The feed serves whichever event is
// currently running, so payloads for other events are dropped here instead
// of polluting the topic.
func ResultPublishLoop(ctx context.Context, tournament *repository.Tournament, sleep time.Duration) {
	if err := config.CreateTopic(tournament.Id); err != nil {
		logrus.WithError(err).Error("Failed to create result topic")
		return
	}
	writer, err := config.GetWriter(tournament.Id)
	if err != nil {
		logrus.WithError(err).Error("Failed to open result writer")
		return
	}
	defer utils.Closer(writer)()
	feedClient := client.NewFeedClient()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			publishSnapshot(ctx, feedClient, writer, tournament)
			select {
			case <-ctx.Done():
				return
			case <-time.After(sleep):
			}
		}
	}
}

func publishSnapshot(ctx context.Context, feedClient *client.FeedClient, writer *kafka.Writer, tournament *repository.Tournament) {
	response, err := feedClient.GetInPlay()
	if err != nil {
		logrus.WithError(err).Warn("Failed to fetch live results")
		return
	}
	if strconv.Itoa(response.Event.EventId) != tournament.ExternalId {
		logrus.WithFields(logrus.Fields{
			"served":  response.Event.EventName,
			"tracked": tournament.Name,
		}).Debug("Live feed serves a different event")
		return
	}
	message := response.Snapshot(time.Now())
	data, err := json.Marshal(message)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal result snapshot")
		return
	}
	if err := writer.WriteMessages(ctx, kafka.Message{Value: data}); err != nil {
		logrus.WithError(err).Error("Failed to publish result snapshot")
		return
	}
	metrics.SnapshotsPublishedCounter.Inc()
}
