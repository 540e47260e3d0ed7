// Package parser turns feed payloads into repository rows. The raw feed
// shapes never travel further than this package; everything downstream works
// on the strict result records the score resolver expects.
package parser

import (
	"strconv"
	"time"

	"clubhouse/client"
	"clubhouse/config"
	"clubhouse/repository"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const feedDateLayout = "2006-01-02"

func parseFeedDate(value string) (time.Time, bool) {
	parsed, err := time.Parse(feedDateLayout, value)
	if err != nil {
		logrus.WithField("date", value).Warn("Failed to parse feed date")
		return time.Time{}, false
	}
	return parsed, true
}

// TournamentStatus derives the lifecycle state from the event dates when the
// feed reports nothing explicit, which is all the schedule endpoint gives us.
func TournamentStatus(startTime time.Time, endTime time.Time, now time.Time) repository.TournamentStatus {
	if now.Before(startTime) {
		return repository.TournamentScheduled
	}
	if now.After(endTime) {
		return repository.TournamentCompleted
	}
	return repository.TournamentInProgress
}

// LiveStatus maps the in-play feed's event status markers onto ours. The
// feed's vocabulary is loose, so anything unrecognized keeps the tournament
// in progress rather than completing it by accident.
func LiveStatus(eventStatus string) repository.TournamentStatus {
	switch eventStatus {
	case "completed", "official", "final":
		return repository.TournamentCompleted
	case "pre", "scheduled":
		return repository.TournamentScheduled
	default:
		return repository.TournamentInProgress
	}
}

// ParseSchedule converts a schedule payload into tournament rows keyed by
// the feed's event id. Events with unparseable dates are skipped.
func ParseSchedule(schedule *client.ScheduleResponse, now time.Time) []*repository.Tournament {
	tournaments := make([]*repository.Tournament, 0, len(schedule.Schedule))
	for _, event := range schedule.Schedule {
		start, ok := parseFeedDate(event.StartDate)
		if !ok {
			continue
		}
		end, ok := parseFeedDate(event.EndDate)
		if !ok {
			continue
		}
		// the feed reports calendar days; play runs through the last one
		end = end.Add(24*time.Hour - time.Second)
		par := event.Par
		if par == 0 {
			par = 72
		}
		tournaments = append(tournaments, &repository.Tournament{
			ExternalId: strconv.Itoa(event.EventId),
			Name:       event.EventName,
			Course:     event.Course,
			Par:        par,
			StartTime:  start,
			EndTime:    end,
			Status:     TournamentStatus(start, end, now),
		})
	}
	return tournaments
}

// ParseField converts a field payload into golfer rows.
func ParseField(field *client.FieldResponse) []*repository.Golfer {
	golfers := make([]*repository.Golfer, 0, len(field.Field))
	for _, golfer := range field.Field {
		golfers = append(golfers, &repository.Golfer{
			ExternalId: strconv.Itoa(golfer.GolferId),
			Name:       golfer.PlayerName,
			Country:    golfer.Country,
		})
	}
	return golfers
}

// SnapshotGolfers extracts golfer rows from a result snapshot so golfers
// who entered after the field sync (alternates, Monday qualifiers) still
// get a row before their results are written.
func SnapshotGolfers(message *config.ResultSnapshotMessage) []*repository.Golfer {
	golfers := make([]*repository.Golfer, 0, len(message.Entries))
	for _, entry := range message.Entries {
		golfers = append(golfers, &repository.Golfer{
			ExternalId: entry.GolferExternalId,
			Name:       entry.GolferName,
			Country:    entry.Country,
		})
	}
	return golfers
}

// ParseSnapshot converts a result snapshot into result rows for the given
// tournament. golferIds maps the feed's golfer ids onto ours; entries for
// unknown golfers are dropped and counted against the returned skip total.
func ParseSnapshot(message *config.ResultSnapshotMessage, tournamentId int, golferIds map[string]int) (results []*repository.TournamentResult, skipped int) {
	results = make([]*repository.TournamentResult, 0, len(message.Entries))
	for _, entry := range message.Entries {
		golferId, ok := golferIds[entry.GolferExternalId]
		if !ok {
			skipped++
			continue
		}
		roundToPar := pq.Int64Array(entry.RoundToPar)
		if roundToPar == nil {
			roundToPar = pq.Int64Array{}
		}
		results = append(results, &repository.TournamentResult{
			TournamentId: tournamentId,
			GolferId:     golferId,
			ToPar:        entry.ToPar,
			Strokes:      entry.Strokes,
			Position:     entry.Position,
			MadeCut:      entry.MadeCut,
			Withdrawn:    entry.Withdrawn,
			RoundToPar:   roundToPar,
			UpdatedAt:    message.FetchedAt,
		})
	}
	return results, skipped
}
