package service

import (
	"time"

	"clubhouse/app_error"
	"clubhouse/repository"

	"gorm.io/gorm"
)

type AlternateService struct {
	poolRepository       *repository.PoolRepository
	draftRepository      *repository.DraftRepository
	golferRepository     *repository.GolferRepository
	tournamentRepository *repository.TournamentRepository
}

func NewAlternateService() *AlternateService {
	return &AlternateService{
		poolRepository:       repository.NewPoolRepository(),
		draftRepository:      repository.NewDraftRepository(),
		golferRepository:     repository.NewGolferRepository(),
		tournamentRepository: repository.NewTournamentRepository(),
	}
}

// SelectAlternate sets the entrant's backup golfer for the window between
// draft completion and tournament start. Overwrites any earlier choice.
func (s *AlternateService) SelectAlternate(poolId int, userId int, golferId int) (*repository.Alternate, error) {
	return s.upsert(poolId, userId, golferId, true)
}

// UpdateAlternate is the admin override, it skips the selection window but
// keeps the structural invariants.
func (s *AlternateService) UpdateAlternate(poolId int, userId int, golferId int) (*repository.Alternate, error) {
	return s.upsert(poolId, userId, golferId, false)
}

func (s *AlternateService) upsert(poolId int, userId int, golferId int, enforceWindow bool) (*repository.Alternate, error) {
	pool, err := s.poolRepository.GetPoolById(poolId, "Tournament")
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, app_error.NotFound("pool %d not found", poolId)
		}
		return nil, err
	}
	if enforceWindow {
		if pool.DraftStatus != repository.DraftCompleted {
			return nil, app_error.Validation("alternates open once the draft is finished")
		}
		if pool.Tournament != nil && pool.Tournament.Started(time.Now()) {
			return nil, app_error.Validation("tournament has already started")
		}
	}
	if _, err = s.poolRepository.GetEntrant(poolId, userId); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, app_error.Validation("user %d is not in this pool", userId)
		}
		return nil, err
	}
	golfer, err := s.golferRepository.GetGolferById(golferId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, app_error.NotFound("golfer %d not found", golferId)
		}
		return nil, err
	}
	picks, err := s.draftRepository.GetPicksForPool(poolId)
	if err != nil {
		return nil, err
	}
	for _, pick := range picks {
		if pick.GolferId == golferId {
			return nil, app_error.Validation("%s is already drafted in this pool", golfer.Name)
		}
	}
	alternate := &repository.Alternate{
		PoolId:   poolId,
		UserId:   userId,
		GolferId: golferId,
	}
	if err = s.draftRepository.UpsertAlternate(alternate); err != nil {
		return nil, err
	}
	alternate.Golfer = golfer
	return alternate, nil
}

func (s *AlternateService) GetAlternatesForPool(poolId int) ([]*repository.Alternate, error) {
	return s.draftRepository.GetAlternatesForPool(poolId)
}
