package repository

import (
	"clubhouse/config"
	"fmt"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type PaymentKind string

const (
	PaymentMain   PaymentKind = "main"
	PaymentBounty PaymentKind = "bounty"
)

// PoolScore freezes one entrant's final standing at finalization time,
// including the exact cents that went into the season totals so a reset
// can subtract them without recomputing.
type PoolScore struct {
	Id              int           `gorm:"primaryKey"`
	PoolId          int           `gorm:"uniqueIndex:idx_score_entrant;not null;references pools(id)"`
	UserId          int           `gorm:"uniqueIndex:idx_score_entrant;not null"`
	Position        int           `gorm:"not null"`
	TeamToPar       int           `gorm:"not null"`
	TeamStrokes     int           `gorm:"not null"`
	GolferIds       pq.Int64Array `gorm:"type:bigint[];not null"`
	Contributions   pq.Int64Array `gorm:"type:bigint[];not null"`
	UsedAlternate   bool          `gorm:"not null;default:false"`
	NetPaymentCents int           `gorm:"not null"`
	NetBountyCents  int           `gorm:"not null"`
	Year            int           `gorm:"not null"`
}

type Payment struct {
	Id          int         `gorm:"primaryKey"`
	PoolId      int         `gorm:"index;not null;references pools(id)"`
	FromUserId  int         `gorm:"not null"`
	ToUserId    int         `gorm:"not null"`
	AmountCents int         `gorm:"not null"`
	Kind        PaymentKind `gorm:"type:clubhouse.payment_kind;not null"`
}

type Bounty struct {
	PoolId           int `gorm:"primaryKey"`
	WinnerUserId     int `gorm:"not null"`
	GolferId         int `gorm:"not null"`
	PickRound        int `gorm:"not null"`
	TotalAmountCents int `gorm:"not null"`
}

type ScoreRepository struct {
	DB *gorm.DB
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{DB: config.DatabaseConnection()}
}

func (r *ScoreRepository) GetScoresForPool(poolId int) ([]*PoolScore, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetScoresForPool"))
	defer timer.ObserveDuration()
	var scores []*PoolScore
	result := r.DB.Order("position asc").Find(&scores, "pool_id = ?", poolId)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find pool scores: %v", result.Error)
	}
	return scores, nil
}

func (r *ScoreRepository) PoolIsFinalized(poolId int) (bool, error) {
	var count int64
	result := r.DB.Model(&PoolScore{}).Where("pool_id = ?", poolId).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

func (r *ScoreRepository) GetPaymentsForPool(poolId int) ([]*Payment, error) {
	var payments []*Payment
	result := r.DB.Find(&payments, "pool_id = ?", poolId)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find payments: %v", result.Error)
	}
	return payments, nil
}

func (r *ScoreRepository) GetBountyForPool(poolId int) (*Bounty, error) {
	var bounty Bounty
	result := r.DB.First(&bounty, "pool_id = ?", poolId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &bounty, nil
}

// GetLatestSharedPoolPositions finds the most recently finalized pool that
// at least two of the given users played in together and returns their
// frozen positions there. Empty map when no such pool exists.
func (r *ScoreRepository) GetLatestSharedPoolPositions(userIds []int) (map[int]int, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetLatestSharedPoolPositions"))
	defer timer.ObserveDuration()
	var poolIds []int
	result := r.DB.Model(&PoolScore{}).
		Select("pool_id").
		Where("user_id IN ?", userIds).
		Group("pool_id").
		Having("COUNT(*) >= 2").
		Order("MAX(id) DESC").
		Limit(1).
		Scan(&poolIds)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find shared pools: %v", result.Error)
	}
	positions := make(map[int]int)
	if len(poolIds) == 0 {
		return positions, nil
	}
	var scores []*PoolScore
	result = r.DB.Find(&scores, "pool_id = ? AND user_id IN ?", poolIds[0], userIds)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load shared pool scores: %v", result.Error)
	}
	for _, score := range scores {
		positions[score.UserId] = score.Position
	}
	return positions, nil
}
