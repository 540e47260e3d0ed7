package repository

import (
	"clubhouse/config"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type DraftStatus string

const (
	DraftNotStarted DraftStatus = "not_started"
	DraftInProgress DraftStatus = "in_progress"
	DraftCompleted  DraftStatus = "completed"
)

// Pool is one fantasy competition on a single tournament. Public pools are
// created lazily when a tournament opens, private pools by their creator.
type Pool struct {
	Id               int         `gorm:"primaryKey"`
	TournamentId     int         `gorm:"index;index:idx_one_public_pool,unique,where:private = false;not null;references tournaments(id)"`
	Name             string      `gorm:"not null"`
	CreatedBy        int         `gorm:"not null"`
	Private          bool        `gorm:"not null;default:false"`
	InviteToken      *string     `gorm:"uniqueIndex;null"`
	InviteExpiresAt  *time.Time  `gorm:"null"`
	DraftStatus      DraftStatus `gorm:"type:clubhouse.draft_status;not null;default:'not_started'"`
	DraftStartsAt    *time.Time  `gorm:"null"`
	DraftStartedAt   *time.Time  `gorm:"null"`
	DraftCompletedAt *time.Time  `gorm:"null"`

	Tournament *Tournament `gorm:"foreignKey:TournamentId"`
	Entrants   []*Entrant  `gorm:"foreignKey:PoolId;constraint:OnDelete:CASCADE"`
}

type Entrant struct {
	PoolId   int       `gorm:"primaryKey"`
	UserId   int       `gorm:"primaryKey"`
	JoinedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserId"`
}

type PoolRepository struct {
	DB *gorm.DB
}

func NewPoolRepository() *PoolRepository {
	return &PoolRepository{DB: config.DatabaseConnection()}
}

func (r *PoolRepository) GetPoolById(poolId int, preloads ...string) (*Pool, error) {
	var pool Pool
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.First(&pool, poolId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &pool, nil
}

func (r *PoolRepository) GetPoolsForTournament(tournamentId int) ([]*Pool, error) {
	var pools []*Pool
	result := r.DB.Preload("Entrants.User").Find(&pools, "tournament_id = ?", tournamentId)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find pools: %v", result.Error)
	}
	return pools, nil
}

func (r *PoolRepository) GetPublicPoolForTournament(tournamentId int) (*Pool, error) {
	var pool Pool
	result := r.DB.Preload("Entrants.User").First(&pool, "tournament_id = ? AND private = false", tournamentId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &pool, nil
}

func (r *PoolRepository) GetPoolByInviteToken(token string) (*Pool, error) {
	var pool Pool
	result := r.DB.Preload("Entrants").First(&pool, "invite_token = ?", token)
	if result.Error != nil {
		return nil, result.Error
	}
	return &pool, nil
}

func (r *PoolRepository) GetPoolsForUser(userId int) ([]*Pool, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetPoolsForUser"))
	defer timer.ObserveDuration()
	var pools []*Pool
	result := r.DB.Preload("Tournament").Preload("Entrants").
		Joins("JOIN clubhouse.entrants ON entrants.pool_id = pools.id").
		Where("entrants.user_id = ?", userId).
		Find(&pools)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find pools for user: %v", result.Error)
	}
	return pools, nil
}

// GetSettleablePools returns drafted pools of completed tournaments that
// have no frozen scores yet.
func (r *PoolRepository) GetSettleablePools() ([]*Pool, error) {
	var pools []*Pool
	result := r.DB.
		Joins("JOIN clubhouse.tournaments ON tournaments.id = pools.tournament_id").
		Where("tournaments.status = ? AND pools.draft_status = ?", TournamentCompleted, DraftCompleted).
		Where("NOT EXISTS (SELECT 1 FROM clubhouse.pool_scores WHERE pool_scores.pool_id = pools.id)").
		Find(&pools)
	if result.Error != nil {
		return nil, result.Error
	}
	return pools, nil
}

// GetDuePools returns pools whose scheduled draft time has passed without
// the draft having been started yet.
func (r *PoolRepository) GetDuePools(now time.Time) ([]*Pool, error) {
	var pools []*Pool
	result := r.DB.Preload("Entrants").Preload("Tournament").
		Where("draft_status = ? AND draft_starts_at IS NOT NULL AND draft_starts_at <= ?", DraftNotStarted, now).
		Find(&pools)
	if result.Error != nil {
		return nil, result.Error
	}
	return pools, nil
}

func (r *PoolRepository) Save(pool *Pool) (*Pool, error) {
	result := r.DB.Save(pool)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save pool: %v", result.Error)
	}
	return pool, nil
}

func (r *PoolRepository) Delete(pool *Pool) error {
	return r.DB.Delete(pool).Error
}

func (r *PoolRepository) AddEntrant(entrant *Entrant) error {
	return r.DB.Create(entrant).Error
}

func (r *PoolRepository) RemoveEntrant(poolId int, userId int) error {
	return r.DB.Delete(&Entrant{}, "pool_id = ? AND user_id = ?", poolId, userId).Error
}

func (r *PoolRepository) GetEntrant(poolId int, userId int) (*Entrant, error) {
	var entrant Entrant
	result := r.DB.First(&entrant, "pool_id = ? AND user_id = ?", poolId, userId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &entrant, nil
}
