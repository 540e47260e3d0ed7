package parser

import (
	"testing"
	"time"

	"clubhouse/client"
	"clubhouse/config"
	"clubhouse/repository"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func TestParseScheduleDerivesStatusFromDates(t *testing.T) {
	now := time.Date(2025, time.July, 18, 15, 0, 0, 0, time.UTC)
	schedule := &client.ScheduleResponse{
		Tour: "pga",
		Schedule: []client.ScheduleEvent{
			{EventId: 1, EventName: "Past Open", Course: "Old Links", Par: 71, StartDate: "2025-07-03", EndDate: "2025-07-06"},
			{EventId: 2, EventName: "Live Championship", StartDate: "2025-07-17", EndDate: "2025-07-20"},
			{EventId: 3, EventName: "Future Invitational", StartDate: "2025-08-07", EndDate: "2025-08-10"},
			{EventId: 4, EventName: "Broken Dates", StartDate: "not-a-date", EndDate: "2025-08-10"},
		},
	}

	tournaments := ParseSchedule(schedule, now)
	assert.Len(t, tournaments, 3, "events with unparseable dates are dropped")

	assert.Equal(t, "1", tournaments[0].ExternalId)
	assert.Equal(t, repository.TournamentCompleted, tournaments[0].Status)
	assert.Equal(t, 71, tournaments[0].Par)

	assert.Equal(t, repository.TournamentInProgress, tournaments[1].Status)
	assert.Equal(t, 72, tournaments[1].Par, "missing par falls back to 72")
	assert.Equal(t, time.Date(2025, time.July, 17, 0, 0, 0, 0, time.UTC), tournaments[1].StartTime)
	assert.Equal(t, time.Date(2025, time.July, 20, 23, 59, 59, 0, time.UTC), tournaments[1].EndTime)

	assert.Equal(t, repository.TournamentScheduled, tournaments[2].Status)
}

func TestLiveStatusVocabulary(t *testing.T) {
	assert.Equal(t, repository.TournamentCompleted, LiveStatus("official"))
	assert.Equal(t, repository.TournamentCompleted, LiveStatus("completed"))
	assert.Equal(t, repository.TournamentScheduled, LiveStatus("pre"))
	assert.Equal(t, repository.TournamentInProgress, LiveStatus("round 3"))
	assert.Equal(t, repository.TournamentInProgress, LiveStatus(""))
}

func TestParseField(t *testing.T) {
	field := &client.FieldResponse{
		Field: []client.FieldGolfer{
			{GolferId: 18417, PlayerName: "Scheffler, Scottie", Country: "USA"},
			{GolferId: 19195, PlayerName: "Åberg, Ludvig", Country: "SWE"},
		},
	}

	golfers := ParseField(field)
	assert.Len(t, golfers, 2)
	assert.Equal(t, "18417", golfers[0].ExternalId)
	assert.Equal(t, "Scheffler, Scottie", golfers[0].Name)
	assert.Equal(t, "SWE", golfers[1].Country)
}

func TestParseSnapshotMapsGolfersAndSkipsUnknowns(t *testing.T) {
	fetched := time.Date(2025, time.July, 18, 16, 30, 0, 0, time.UTC)
	madeCut := true
	message := &config.ResultSnapshotMessage{
		TournamentExternalId: "2",
		FetchedAt:            fetched,
		Status:               "in progress",
		CurrentRound:         3,
		Entries: []config.FeedEntry{
			{GolferExternalId: "18417", ToPar: intPtr(-9), Strokes: intPtr(135), Position: intPtr(1), MadeCut: &madeCut, RoundToPar: []int64{-5, -4}},
			{GolferExternalId: "99999", ToPar: intPtr(2)},
			{GolferExternalId: "19195", Withdrawn: true},
		},
	}
	golferIds := map[string]int{"18417": 7, "19195": 8}

	results, skipped := ParseSnapshot(message, 42, golferIds)
	assert.Equal(t, 1, skipped)
	assert.Len(t, results, 2)

	assert.Equal(t, 42, results[0].TournamentId)
	assert.Equal(t, 7, results[0].GolferId)
	assert.Equal(t, -9, *results[0].ToPar)
	assert.Equal(t, 1, *results[0].Position)
	assert.Equal(t, pq.Int64Array{-5, -4}, results[0].RoundToPar)
	assert.Equal(t, fetched, results[0].UpdatedAt)

	assert.True(t, results[1].Withdrawn)
	assert.Nil(t, results[1].ToPar)
	assert.Equal(t, pq.Int64Array{}, results[1].RoundToPar, "missing rounds become an empty array, not null")
}
