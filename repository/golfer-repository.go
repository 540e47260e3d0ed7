package repository

import (
	"clubhouse/config"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Golfer struct {
	Id         int    `gorm:"primaryKey"`
	ExternalId string `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"not null"`
	Country    string `gorm:"null"`
}

type GolferRepository struct {
	DB *gorm.DB
}

func NewGolferRepository() *GolferRepository {
	return &GolferRepository{DB: config.DatabaseConnection()}
}

func (r *GolferRepository) GetGolferById(golferId int) (*Golfer, error) {
	var golfer Golfer
	result := r.DB.First(&golfer, golferId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &golfer, nil
}

func (r *GolferRepository) GetGolfersByIds(golferIds []int) ([]*Golfer, error) {
	var golfers []*Golfer
	result := r.DB.Find(&golfers, "id IN ?", golferIds)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find golfers: %v", result.Error)
	}
	return golfers, nil
}

func (r *GolferRepository) GetGolferByExternalId(externalId string) (*Golfer, error) {
	var golfer Golfer
	result := r.DB.First(&golfer, "external_id = ?", externalId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &golfer, nil
}

// GetGolferIdsByExternalIds maps feed golfer ids onto ours.
func (r *GolferRepository) GetGolferIdsByExternalIds(externalIds []string) (map[string]int, error) {
	var golfers []*Golfer
	result := r.DB.Find(&golfers, "external_id IN ?", externalIds)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find golfers: %v", result.Error)
	}
	golferIds := make(map[string]int, len(golfers))
	for _, golfer := range golfers {
		golferIds[golfer.ExternalId] = golfer.Id
	}
	return golferIds, nil
}

func (r *GolferRepository) FindAll() ([]*Golfer, error) {
	var golfers []*Golfer
	result := r.DB.Order("name asc").Find(&golfers)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find golfers: %v", result.Error)
	}
	return golfers, nil
}

func (r *GolferRepository) UpsertGolfers(golfers []*Golfer) error {
	if len(golfers) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "country"}),
	}).CreateInBatches(&golfers, 500).Error
}
