package service

import (
	"strings"
	"time"

	"clubhouse/app_error"
	"clubhouse/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PoolService struct {
	poolRepository       *repository.PoolRepository
	tournamentRepository *repository.TournamentRepository
	draftService         *DraftService
}

func NewPoolService() *PoolService {
	return &PoolService{
		poolRepository:       repository.NewPoolRepository(),
		tournamentRepository: repository.NewTournamentRepository(),
		draftService:         NewDraftService(),
	}
}

// OpenTournamentPool returns the tournament's public pool, creating it on
// first open. Two concurrent first opens race on the partial unique index,
// the loser just reads back the winner's row.
func (s *PoolService) OpenTournamentPool(tournamentId int, user *repository.User) (*repository.Pool, error) {
	tournament, err := s.tournamentRepository.GetTournamentById(tournamentId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, app_error.NotFound("tournament %d not found", tournamentId)
		}
		return nil, err
	}
	pool, err := s.poolRepository.GetPublicPoolForTournament(tournamentId)
	if err == nil {
		return pool, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	pool = &repository.Pool{
		TournamentId: tournamentId,
		Name:         tournament.Name,
		CreatedBy:    user.Id,
		Private:      false,
		DraftStatus:  repository.DraftNotStarted,
	}
	if _, err = s.poolRepository.Save(pool); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return s.poolRepository.GetPublicPoolForTournament(tournamentId)
		}
		return nil, err
	}
	return pool, nil
}

// CreatePrivatePool creates an invite-only pool. The creator joins
// immediately; everyone else needs the invite token, which expires at the
// scheduled draft time (or tournament start when no draft time is set).
func (s *PoolService) CreatePrivatePool(user *repository.User, tournamentId int, name string, draftStartsAt *time.Time) (*repository.Pool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, app_error.Validation("pool name must not be empty")
	}
	tournament, err := s.tournamentRepository.GetTournamentById(tournamentId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, app_error.NotFound("tournament %d not found", tournamentId)
		}
		return nil, err
	}
	now := time.Now()
	if tournament.Started(now) {
		return nil, app_error.Validation("tournament has already started")
	}
	if draftStartsAt != nil && draftStartsAt.Before(now) {
		return nil, app_error.Validation("draft start must be in the future")
	}
	token := uuid.NewString()
	expiresAt := tournament.StartTime
	if draftStartsAt != nil {
		expiresAt = *draftStartsAt
	}
	pool := &repository.Pool{
		TournamentId:    tournamentId,
		Name:            strings.TrimSpace(name),
		CreatedBy:       user.Id,
		Private:         true,
		InviteToken:     &token,
		InviteExpiresAt: &expiresAt,
		DraftStatus:     repository.DraftNotStarted,
		DraftStartsAt:   draftStartsAt,
	}
	if _, err = s.poolRepository.Save(pool); err != nil {
		return nil, err
	}
	if err = s.poolRepository.AddEntrant(&repository.Entrant{
		PoolId:   pool.Id,
		UserId:   user.Id,
		JoinedAt: now,
	}); err != nil {
		return nil, err
	}
	return pool, nil
}

// JoinPool adds the user to a public pool. Entrant lists freeze once the
// draft starts.
func (s *PoolService) JoinPool(poolId int, user *repository.User) error {
	pool, err := s.poolRepository.GetPoolById(poolId, "Tournament")
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return app_error.NotFound("pool %d not found", poolId)
		}
		return err
	}
	if pool.Private {
		return app_error.Validation("this pool is invite only")
	}
	return s.join(pool, user)
}

// JoinByInviteToken adds the user to the private pool behind the token.
func (s *PoolService) JoinByInviteToken(token string, user *repository.User) (*repository.Pool, error) {
	pool, err := s.poolRepository.GetPoolByInviteToken(token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, app_error.NotFound("no pool for this invite")
		}
		return nil, err
	}
	if pool.InviteExpiresAt != nil && time.Now().After(*pool.InviteExpiresAt) {
		return nil, app_error.Validation("this invite has expired")
	}
	if err = s.join(pool, user); err != nil {
		return nil, err
	}
	return pool, nil
}

func (s *PoolService) join(pool *repository.Pool, user *repository.User) error {
	if pool.DraftStatus != repository.DraftNotStarted {
		return app_error.Validation("draft has already started")
	}
	if _, err := s.poolRepository.GetEntrant(pool.Id, user.Id); err == nil {
		return app_error.Validation("you are already in this pool")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	return s.poolRepository.AddEntrant(&repository.Entrant{
		PoolId:   pool.Id,
		UserId:   user.Id,
		JoinedAt: time.Now(),
	})
}

// LeavePool removes the user from a pool they joined, only while the draft
// has not started.
func (s *PoolService) LeavePool(poolId int, userId int) error {
	pool, err := s.poolRepository.GetPoolById(poolId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return app_error.NotFound("pool %d not found", poolId)
		}
		return err
	}
	if pool.DraftStatus != repository.DraftNotStarted {
		return app_error.Validation("cannot leave after the draft has started")
	}
	if _, err = s.poolRepository.GetEntrant(poolId, userId); err != nil {
		if err == gorm.ErrRecordNotFound {
			return app_error.NotFound("you are not in this pool")
		}
		return err
	}
	return s.poolRepository.RemoveEntrant(poolId, userId)
}

// RemoveEntrant is the admin variant of LeavePool, same pre-draft window.
func (s *PoolService) RemoveEntrant(poolId int, userId int) error {
	return s.LeavePool(poolId, userId)
}

// DeletePool tears a pool down completely. Finalization and draft state are
// rolled back first so season totals stay consistent.
func (s *PoolService) DeletePool(poolId int) error {
	pool, err := s.poolRepository.GetPoolById(poolId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return app_error.NotFound("pool %d not found", poolId)
		}
		return err
	}
	if err = s.draftService.ResetDraft(poolId); err != nil {
		return err
	}
	return s.poolRepository.Delete(pool)
}

func (s *PoolService) GetPoolById(poolId int) (*repository.Pool, error) {
	pool, err := s.poolRepository.GetPoolById(poolId, "Entrants.User", "Tournament")
	if err != nil && err == gorm.ErrRecordNotFound {
		return nil, app_error.NotFound("pool %d not found", poolId)
	}
	return pool, err
}

func (s *PoolService) GetPoolsForTournament(tournamentId int) ([]*repository.Pool, error) {
	return s.poolRepository.GetPoolsForTournament(tournamentId)
}

func (s *PoolService) GetPoolsForUser(userId int) ([]*repository.Pool, error) {
	return s.poolRepository.GetPoolsForUser(userId)
}
