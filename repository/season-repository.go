package repository

import (
	"clubhouse/config"
	"fmt"

	"gorm.io/gorm"
)

type SeasonTotal struct {
	UserId        int `gorm:"primaryKey"`
	Year          int `gorm:"primaryKey"`
	PoolsPlayed   int `gorm:"not null;default:0"`
	PoolsWon      int `gorm:"not null;default:0"`
	WinningsCents int `gorm:"not null;default:0"`
	BountiesCents int `gorm:"not null;default:0"`

	User *User `gorm:"foreignKey:UserId"`
}

type SeasonRepository struct {
	DB *gorm.DB
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{DB: config.DatabaseConnection()}
}

func (r *SeasonRepository) GetTotalsForYear(year int) ([]*SeasonTotal, error) {
	var totals []*SeasonTotal
	result := r.DB.Preload("User").Order("winnings_cents desc").Find(&totals, "year = ?", year)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find season totals: %v", result.Error)
	}
	return totals, nil
}

func (r *SeasonRepository) GetTotalsForUser(userId int) ([]*SeasonTotal, error) {
	var totals []*SeasonTotal
	result := r.DB.Order("year desc").Find(&totals, "user_id = ?", userId)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find season totals: %v", result.Error)
	}
	return totals, nil
}
