package service

import (
	"time"

	"clubhouse/app_error"
	"clubhouse/client"
	"clubhouse/parser"
	"clubhouse/repository"

	"gorm.io/gorm"
)

type TournamentService struct {
	feedClient           *client.FeedClient
	tournamentRepository *repository.TournamentRepository
	golferRepository     *repository.GolferRepository
}

func NewTournamentService() *TournamentService {
	return &TournamentService{
		feedClient:           client.NewFeedClient(),
		tournamentRepository: repository.NewTournamentRepository(),
		golferRepository:     repository.NewGolferRepository(),
	}
}

// SyncSchedule pulls the season schedule from the feed and upserts the
// tournaments, returning how many rows were written.
func (s *TournamentService) SyncSchedule(year int) (int, error) {
	schedule, err := s.feedClient.GetSchedule(year)
	if err != nil {
		return 0, err
	}
	tournaments := parser.ParseSchedule(schedule, time.Now())
	if err = s.tournamentRepository.UpsertTournaments(tournaments); err != nil {
		return 0, err
	}
	return len(tournaments), nil
}

// SyncField pulls the entry list for one tournament and upserts the golfers.
func (s *TournamentService) SyncField(tournament *repository.Tournament) (int, error) {
	field, err := s.feedClient.GetField(tournament.ExternalId)
	if err != nil {
		return 0, err
	}
	golfers := parser.ParseField(field)
	if err = s.golferRepository.UpsertGolfers(golfers); err != nil {
		return 0, err
	}
	return len(golfers), nil
}

func (s *TournamentService) GetSchedule() ([]*repository.Tournament, error) {
	return s.tournamentRepository.FindAll()
}

func (s *TournamentService) GetTournamentById(tournamentId int) (*repository.Tournament, error) {
	tournament, err := s.tournamentRepository.GetTournamentById(tournamentId)
	if err != nil && err == gorm.ErrRecordNotFound {
		return nil, app_error.NotFound("tournament %d not found", tournamentId)
	}
	return tournament, err
}

func (s *TournamentService) GetActiveTournaments() ([]*repository.Tournament, error) {
	return s.tournamentRepository.GetActiveTournaments()
}

func (s *TournamentService) GetGolfers() ([]*repository.Golfer, error) {
	return s.golferRepository.FindAll()
}
