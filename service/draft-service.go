package service

import (
	"strings"
	"time"

	"clubhouse/app_error"
	"clubhouse/draft"
	"clubhouse/metrics"
	"clubhouse/repository"
	"clubhouse/scoring"
	"clubhouse/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DraftService struct {
	poolRepository       *repository.PoolRepository
	draftRepository      *repository.DraftRepository
	golferRepository     *repository.GolferRepository
	tournamentRepository *repository.TournamentRepository
	scoreRepository      *repository.ScoreRepository
}

func NewDraftService() *DraftService {
	return &DraftService{
		poolRepository:       repository.NewPoolRepository(),
		draftRepository:      repository.NewDraftRepository(),
		golferRepository:     repository.NewGolferRepository(),
		tournamentRepository: repository.NewTournamentRepository(),
		scoreRepository:      repository.NewScoreRepository(),
	}
}

// DraftState is everything a draft room needs to render: the fixed slot
// order, the picks so far and who is on the clock.
type DraftState struct {
	Pool       *repository.Pool
	Slots      []*repository.DraftSlot
	Picks      []*repository.DraftPick
	NextPick   int
	Round      int
	OnTheClock *int
	Complete   bool
}

// StartDraft fixes the pick order and opens the draft. actor nil means the
// scheduler is starting a due draft; otherwise only the pool creator or an
// admin may start it. When a previously settled pool shares at least two of
// the entrants, its final standings seed the order worst-first; everyone
// else is shuffled in.
func (s *DraftService) StartDraft(poolId int, actor *repository.User) ([]*repository.DraftSlot, error) {
	pool, err := s.poolRepository.GetPoolById(poolId, "Entrants", "Tournament")
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.Id != pool.CreatedBy && !actor.HasPermission(repository.PermissionAdmin) {
		return nil, app_error.Forbidden("only the pool creator can start the draft")
	}
	if pool.DraftStatus != repository.DraftNotStarted {
		return nil, app_error.Validation("draft has already been started")
	}
	if len(pool.Entrants) < 2 {
		return nil, app_error.Validation("at least two entrants are needed to draft")
	}
	if pool.Tournament != nil && pool.Tournament.Started(time.Now()) {
		return nil, app_error.Validation("tournament has already started")
	}

	userIds := utils.Map(pool.Entrants, func(entrant *repository.Entrant) int {
		return entrant.UserId
	})
	priorPositions, err := s.scoreRepository.GetLatestSharedPoolPositions(userIds)
	if err != nil {
		return nil, err
	}
	mode := "random"
	var order []int
	if len(priorPositions) >= 2 {
		mode = "seeded"
		order = draft.SeededOrder(userIds, priorPositions)
	} else {
		order = draft.ShuffledOrder(userIds)
	}

	slots := make([]*repository.DraftSlot, 0, len(order))
	for i, userId := range order {
		slots = append(slots, &repository.DraftSlot{
			PoolId:   poolId,
			Position: i + 1,
			UserId:   userId,
		})
	}
	now := time.Now()
	err = s.poolRepository.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&slots).Error; err != nil {
			return err
		}
		return tx.Model(&repository.Pool{}).Where("id = ?", poolId).
			Updates(map[string]interface{}{
				"draft_status":     repository.DraftInProgress,
				"draft_started_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	metrics.DraftsStartedCounter.WithLabelValues(mode).Inc()
	return slots, nil
}

// MakePick validates and commits one pick. The pool row is locked for the
// whole transaction, so concurrent submissions for the same turn serialize
// and the loser fails the re-validation against fresh state; the unique
// indexes on (pool, golfer) and (pool, pick number) remain as a backstop.
// The last pick completes the draft.
func (s *DraftService) MakePick(poolId int, userId int, golferId int) (*repository.DraftPick, error) {
	var pick *repository.DraftPick
	err := s.poolRepository.DB.Transaction(func(tx *gorm.DB) error {
		pool := &repository.Pool{}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(pool, poolId).Error; err != nil {
			return err
		}
		if pool.DraftStatus != repository.DraftInProgress {
			return app_error.Validation("draft is not running")
		}
		tournament := &repository.Tournament{}
		if err := tx.First(tournament, pool.TournamentId).Error; err != nil {
			return err
		}
		if tournament.Started(time.Now()) {
			return app_error.Validation("tournament has already started, picks are closed")
		}

		golfer := &repository.Golfer{}
		if err := tx.First(golfer, golferId).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return app_error.NotFound("golfer %d not found", golferId)
			}
			return err
		}
		var alreadyPicked int64
		if err := tx.Model(&repository.DraftPick{}).
			Where("pool_id = ? AND golfer_id = ?", poolId, golferId).
			Count(&alreadyPicked).Error; err != nil {
			return err
		}
		if alreadyPicked > 0 {
			return app_error.Conflict("%s has already been drafted", golfer.Name)
		}

		var slots []*repository.DraftSlot
		if err := tx.Order("position asc").Find(&slots, "pool_id = ?", poolId).Error; err != nil {
			return err
		}
		var picksMade int64
		if err := tx.Model(&repository.DraftPick{}).Where("pool_id = ?", poolId).Count(&picksMade).Error; err != nil {
			return err
		}
		slotUserIds := utils.Map(slots, func(slot *repository.DraftSlot) int {
			return slot.UserId
		})
		turnUserId, round, ok := draft.OnTheClock(slotUserIds, int(picksMade))
		if !ok {
			return app_error.Validation("draft is already complete")
		}
		if turnUserId != userId {
			return app_error.Validation("it's not your turn")
		}

		pick = &repository.DraftPick{
			PoolId:     poolId,
			UserId:     userId,
			GolferId:   golferId,
			PickNumber: int(picksMade) + 1,
			Round:      round,
		}
		if err := tx.Create(pick).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return app_error.Conflict("%s was drafted a moment ago", golfer.Name)
			}
			return err
		}
		pick.Golfer = golfer

		if pick.PickNumber == draft.TotalPicks(len(slots)) {
			now := time.Now()
			return tx.Model(&repository.Pool{}).Where("id = ?", poolId).
				Updates(map[string]interface{}{
					"draft_status":       repository.DraftCompleted,
					"draft_completed_at": now,
				}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.DraftPicksCounter.Inc()
	return pick, nil
}

// GetDraftState loads the current draft for rendering. OnTheClock is nil
// before the draft starts and after it completes.
func (s *DraftService) GetDraftState(poolId int) (*DraftState, error) {
	pool, err := s.poolRepository.GetPoolById(poolId, "Entrants.User", "Tournament")
	if err != nil {
		return nil, err
	}
	slots, err := s.draftRepository.GetSlotsForPool(poolId)
	if err != nil {
		return nil, err
	}
	picks, err := s.draftRepository.GetPicksForPool(poolId)
	if err != nil {
		return nil, err
	}
	state := &DraftState{
		Pool:     pool,
		Slots:    slots,
		Picks:    picks,
		NextPick: len(picks) + 1,
	}
	slotUserIds := utils.Map(slots, func(slot *repository.DraftSlot) int {
		return slot.UserId
	})
	if userId, round, ok := draft.OnTheClock(slotUserIds, len(picks)); ok {
		state.OnTheClock = &userId
		state.Round = round
	} else {
		state.Complete = pool.DraftStatus == repository.DraftCompleted
	}
	return state, nil
}

// ResetDraft rolls a pool back to before its draft. It runs as an ordered
// sequence of idempotent steps, finalization reversal first, so a failure
// partway leaves a state the next invocation converges from.
func (s *DraftService) ResetDraft(poolId int) error {
	if err := scoring.ResetFinalization(s.poolRepository.DB, poolId); err != nil {
		return err
	}
	return s.poolRepository.DB.Transaction(func(tx *gorm.DB) error {
		pool := &repository.Pool{}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(pool, poolId).Error; err != nil {
			return err
		}
		if err := tx.Delete(&repository.Alternate{}, "pool_id = ?", poolId).Error; err != nil {
			return err
		}
		if err := tx.Delete(&repository.DraftPick{}, "pool_id = ?", poolId).Error; err != nil {
			return err
		}
		if err := tx.Delete(&repository.DraftSlot{}, "pool_id = ?", poolId).Error; err != nil {
			return err
		}
		return tx.Model(&repository.Pool{}).Where("id = ?", poolId).
			Updates(map[string]interface{}{
				"draft_status":       repository.DraftNotStarted,
				"draft_started_at":   nil,
				"draft_completed_at": nil,
			}).Error
	})
}

// SwapPick replaces the golfer on an existing pick, keeping the pool-wide
// golfer uniqueness intact. Admin correction for mispicks.
func (s *DraftService) SwapPick(poolId int, pickId int, newGolferId int) (*repository.DraftPick, error) {
	var pick *repository.DraftPick
	err := s.poolRepository.DB.Transaction(func(tx *gorm.DB) error {
		pool := &repository.Pool{}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(pool, poolId).Error; err != nil {
			return err
		}
		pick = &repository.DraftPick{}
		if err := tx.First(pick, "id = ? AND pool_id = ?", pickId, poolId).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return app_error.NotFound("pick %d not found in this pool", pickId)
			}
			return err
		}
		golfer := &repository.Golfer{}
		if err := tx.First(golfer, newGolferId).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return app_error.NotFound("golfer %d not found", newGolferId)
			}
			return err
		}
		var alreadyPicked int64
		if err := tx.Model(&repository.DraftPick{}).
			Where("pool_id = ? AND golfer_id = ? AND id <> ?", poolId, newGolferId, pickId).
			Count(&alreadyPicked).Error; err != nil {
			return err
		}
		if alreadyPicked > 0 {
			return app_error.Validation("%s is already drafted in this pool", golfer.Name)
		}
		pick.GolferId = newGolferId
		pick.Golfer = golfer
		return tx.Model(&repository.DraftPick{}).Where("id = ?", pickId).
			Update("golfer_id", newGolferId).Error
	})
	if err != nil {
		return nil, err
	}
	return pick, nil
}
