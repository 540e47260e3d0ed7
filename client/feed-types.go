package client

import (
	"strconv"
	"strings"
	"time"

	"clubhouse/config"
)

// FeedEventInfo identifies the tournament a feed payload belongs to.
type FeedEventInfo struct {
	EventId   int    `json:"event_id"`
	EventName string `json:"event_name"`
	Course    string `json:"course"`
	Year      int    `json:"year"`
}

type ScheduleResponse struct {
	Tour     string          `json:"tour"`
	Schedule []ScheduleEvent `json:"schedule"`
}

type ScheduleEvent struct {
	EventId   int    `json:"event_id"`
	EventName string `json:"event_name"`
	Course    string `json:"course"`
	Par       int    `json:"par"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type FieldResponse struct {
	Event FeedEventInfo `json:"event"`
	Field []FieldGolfer `json:"field"`
}

type FieldGolfer struct {
	GolferId   int    `json:"dg_id"`
	PlayerName string `json:"player_name"`
	Country    string `json:"country"`
}

type InPlayResponse struct {
	Event        FeedEventInfo  `json:"event"`
	EventStatus  string         `json:"event_status"`
	CurrentRound int            `json:"current_round"`
	LastUpdated  string         `json:"last_updated"`
	Players      []InPlayGolfer `json:"players"`
}

// InPlayGolfer is one leaderboard line of the live feed. Score fields are
// pointers because the feed reports null for golfers without a standing,
// e.g. after a withdrawal.
type InPlayGolfer struct {
	GolferId   int    `json:"dg_id"`
	PlayerName string `json:"player_name"`
	Country    string `json:"country"`
	Position   string `json:"current_pos"`
	ToPar      *int   `json:"current_score"`
	Strokes    *int   `json:"total_strokes"`
	Thru       *int   `json:"thru"`
	RoundToPar []int  `json:"round_to_par"`
	Status     string `json:"status"`
}

// Snapshot converts the live payload into the message published to kafka.
func (r *InPlayResponse) Snapshot(fetchedAt time.Time) config.ResultSnapshotMessage {
	entries := make([]config.FeedEntry, 0, len(r.Players))
	for _, player := range r.Players {
		entries = append(entries, player.feedEntry(r.CurrentRound))
	}
	return config.ResultSnapshotMessage{
		TournamentExternalId: strconv.Itoa(r.Event.EventId),
		FetchedAt:            fetchedAt,
		Status:               r.EventStatus,
		CurrentRound:         r.CurrentRound,
		Entries:              entries,
	}
}

func (p *InPlayGolfer) feedEntry(currentRound int) config.FeedEntry {
	entry := config.FeedEntry{
		GolferExternalId: strconv.Itoa(p.GolferId),
		GolferName:       p.PlayerName,
		Country:          p.Country,
		ToPar:            p.ToPar,
		Strokes:          p.Strokes,
		Position:         parsePosition(p.Position),
		Withdrawn:        p.Status == "wd" || p.Status == "dq",
	}
	for _, score := range p.RoundToPar {
		entry.RoundToPar = append(entry.RoundToPar, int64(score))
	}
	switch {
	case p.Status == "cut":
		madeCut := false
		entry.MadeCut = &madeCut
	case currentRound > 2 && !entry.Withdrawn:
		madeCut := true
		entry.MadeCut = &madeCut
	}
	return entry
}

// parsePosition turns feed standings like "1" or "T12" into numbers.
// Markers such as "CUT" or "WD" carry no numeric position.
func parsePosition(position string) *int {
	trimmed := strings.TrimPrefix(strings.TrimSpace(position), "T")
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &value
}
