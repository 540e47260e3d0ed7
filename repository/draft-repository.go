package repository

import (
	"clubhouse/config"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// DraftSlot fixes one entrant's place in the round-one pick order.
// Even rounds run through the slots in reverse.
type DraftSlot struct {
	PoolId   int `gorm:"primaryKey;uniqueIndex:idx_slot_user"`
	Position int `gorm:"primaryKey"`
	UserId   int `gorm:"uniqueIndex:idx_slot_user;not null"`
}

type DraftPick struct {
	Id         int `gorm:"primaryKey"`
	PoolId     int `gorm:"uniqueIndex:idx_pick_golfer;uniqueIndex:idx_pick_number;not null;references pools(id)"`
	UserId     int `gorm:"index;not null"`
	GolferId   int `gorm:"uniqueIndex:idx_pick_golfer;not null;references golfers(id)"`
	PickNumber int `gorm:"uniqueIndex:idx_pick_number;not null"`
	Round      int `gorm:"not null"`

	Golfer *Golfer `gorm:"foreignKey:GolferId"`
}

type Alternate struct {
	PoolId   int `gorm:"primaryKey"`
	UserId   int `gorm:"primaryKey"`
	GolferId int `gorm:"not null;references golfers(id)"`

	Golfer *Golfer `gorm:"foreignKey:GolferId"`
}

type DraftRepository struct {
	DB *gorm.DB
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{DB: config.DatabaseConnection()}
}

func (r *DraftRepository) GetSlotsForPool(poolId int) ([]*DraftSlot, error) {
	var slots []*DraftSlot
	result := r.DB.Order("position asc").Find(&slots, "pool_id = ?", poolId)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find draft slots: %v", result.Error)
	}
	return slots, nil
}

func (r *DraftRepository) GetPicksForPool(poolId int) ([]*DraftPick, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetPicksForPool"))
	defer timer.ObserveDuration()
	var picks []*DraftPick
	result := r.DB.Preload("Golfer").Order("pick_number asc").Find(&picks, "pool_id = ?", poolId)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find draft picks: %v", result.Error)
	}
	return picks, nil
}

func (r *DraftRepository) GetPickById(pickId int) (*DraftPick, error) {
	var pick DraftPick
	result := r.DB.First(&pick, pickId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &pick, nil
}

func (r *DraftRepository) SavePick(pick *DraftPick) error {
	return r.DB.Save(pick).Error
}

func (r *DraftRepository) GetAlternatesForPool(poolId int) ([]*Alternate, error) {
	var alternates []*Alternate
	result := r.DB.Preload("Golfer").Find(&alternates, "pool_id = ?", poolId)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find alternates: %v", result.Error)
	}
	return alternates, nil
}

func (r *DraftRepository) GetAlternate(poolId int, userId int) (*Alternate, error) {
	var alternate Alternate
	result := r.DB.First(&alternate, "pool_id = ? AND user_id = ?", poolId, userId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &alternate, nil
}

func (r *DraftRepository) UpsertAlternate(alternate *Alternate) error {
	return r.DB.Save(alternate).Error
}
