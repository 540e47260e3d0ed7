package service

import (
	"clubhouse/app_error"
	"clubhouse/config"
	"clubhouse/repository"
	"clubhouse/scoring"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ScoreService struct {
	poolRepository   *repository.PoolRepository
	scoreRepository  *repository.ScoreRepository
	seasonRepository *repository.SeasonRepository
	db               *gorm.DB
}

func NewScoreService() *ScoreService {
	return &ScoreService{
		poolRepository:   repository.NewPoolRepository(),
		scoreRepository:  repository.NewScoreRepository(),
		seasonRepository: repository.NewSeasonRepository(),
		db:               config.DatabaseConnection(),
	}
}

// LeaderboardView is either a live computation or the frozen standings,
// never both. Live entries carry per-golfer resolution detail the frozen
// rows do not keep.
type LeaderboardView struct {
	Pool      *repository.Pool
	Finalized bool
	Live      []*scoring.LeaderboardEntry
	Frozen    []*repository.PoolScore
}

// GetLeaderboard serves the pool standings. Before finalization it
// recomputes from the latest synced results on every read; once the
// tournament completes, the read first tries to finalize (failures are
// logged and swallowed, the next read retries) and from then on serves the
// frozen scores.
func (s *ScoreService) GetLeaderboard(poolId int) (*LeaderboardView, error) {
	pool, err := s.poolRepository.GetPoolById(poolId, "Tournament", "Entrants.User")
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, app_error.NotFound("pool %d not found", poolId)
		}
		return nil, err
	}
	finalized, err := s.scoreRepository.PoolIsFinalized(poolId)
	if err != nil {
		return nil, err
	}
	if !finalized && pool.DraftStatus == repository.DraftCompleted &&
		pool.Tournament != nil && pool.Tournament.Status == repository.TournamentCompleted {
		if err = scoring.FinalizePool(s.db, poolId); err != nil {
			logrus.WithField("poolId", poolId).WithError(err).Error("Failed to finalize pool")
		}
		if finalized, err = s.scoreRepository.PoolIsFinalized(poolId); err != nil {
			return nil, err
		}
	}
	view := &LeaderboardView{Pool: pool, Finalized: finalized}
	if finalized {
		view.Frozen, err = s.scoreRepository.GetScoresForPool(poolId)
		return view, err
	}
	view.Live, err = scoring.LiveLeaderboard(s.db, pool)
	return view, err
}

func (s *ScoreService) GetPayments(poolId int) ([]*repository.Payment, error) {
	return s.scoreRepository.GetPaymentsForPool(poolId)
}

// GetBounty returns nil without error when no bounty was awarded.
func (s *ScoreService) GetBounty(poolId int) (*repository.Bounty, error) {
	bounty, err := s.scoreRepository.GetBountyForPool(poolId)
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return bounty, err
}

func (s *ScoreService) GetSeasonStandings(year int) ([]*repository.SeasonTotal, error) {
	return s.seasonRepository.GetTotalsForYear(year)
}

func (s *ScoreService) GetSeasonForUser(userId int) ([]*repository.SeasonTotal, error) {
	return s.seasonRepository.GetTotalsForUser(userId)
}

// Finalize is the admin path; reads normally finalize lazily.
func (s *ScoreService) Finalize(poolId int) error {
	return scoring.FinalizePool(s.db, poolId)
}

func (s *ScoreService) ResetFinalization(poolId int) error {
	return scoring.ResetFinalization(s.db, poolId)
}
