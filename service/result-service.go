package service

import (
	"clubhouse/app_error"
	"clubhouse/config"
	"clubhouse/metrics"
	"clubhouse/parser"
	"clubhouse/repository"
	"clubhouse/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ResultService struct {
	tournamentRepository *repository.TournamentRepository
	golferRepository     *repository.GolferRepository
	resultRepository     *repository.ResultRepository
}

func NewResultService() *ResultService {
	return &ResultService{
		tournamentRepository: repository.NewTournamentRepository(),
		golferRepository:     repository.NewGolferRepository(),
		resultRepository:     repository.NewResultRepository(),
	}
}

// ApplySnapshot writes one feed snapshot into the result table and refreshes
// the tournament's status and current round from it. Golfers the field sync
// missed are created first so no entry is lost. Returns the number of result
// rows written.
func (s *ResultService) ApplySnapshot(message *config.ResultSnapshotMessage) (int, error) {
	tournament, err := s.tournamentRepository.GetTournamentByExternalId(message.TournamentExternalId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, app_error.NotFound("no tournament for feed event %s", message.TournamentExternalId)
		}
		return 0, err
	}
	if err = s.golferRepository.UpsertGolfers(parser.SnapshotGolfers(message)); err != nil {
		return 0, err
	}
	externalIds := utils.Map(message.Entries, func(entry config.FeedEntry) string {
		return entry.GolferExternalId
	})
	golferIds, err := s.golferRepository.GetGolferIdsByExternalIds(externalIds)
	if err != nil {
		return 0, err
	}
	results, skipped := parser.ParseSnapshot(message, tournament.Id, golferIds)
	if skipped > 0 {
		logrus.WithFields(logrus.Fields{
			"tournament": tournament.Name,
			"skipped":    skipped,
		}).Warn("Snapshot entries without a golfer row were dropped")
	}
	if err = s.resultRepository.UpsertResults(results); err != nil {
		return 0, err
	}
	metrics.ResultsSyncedCounter.Add(float64(len(results)))

	status := parser.LiveStatus(message.Status)
	if tournament.Status != status || tournament.CurrentRound != message.CurrentRound {
		tournament.Status = status
		tournament.CurrentRound = message.CurrentRound
		if _, err = s.tournamentRepository.Save(tournament); err != nil {
			return len(results), err
		}
	}
	return len(results), nil
}

// EditResult persists an admin correction. The row is pinned so the next
// feed sync does not undo it.
func (s *ResultService) EditResult(result *repository.TournamentResult) (*repository.TournamentResult, error) {
	if _, err := s.tournamentRepository.GetTournamentById(result.TournamentId); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, app_error.NotFound("tournament %d not found", result.TournamentId)
		}
		return nil, err
	}
	if _, err := s.golferRepository.GetGolferById(result.GolferId); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, app_error.NotFound("golfer %d not found", result.GolferId)
		}
		return nil, err
	}
	if err := s.resultRepository.SaveOverride(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ResultService) GetResultsForTournament(tournamentId int) ([]*repository.TournamentResult, error) {
	return s.resultRepository.GetResultsForTournament(tournamentId)
}
