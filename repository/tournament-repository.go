package repository

import (
	"clubhouse/config"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TournamentStatus string

const (
	TournamentScheduled  TournamentStatus = "scheduled"
	TournamentInProgress TournamentStatus = "in_progress"
	TournamentCompleted  TournamentStatus = "completed"
)

type Tournament struct {
	Id           int              `gorm:"primaryKey"`
	ExternalId   string           `gorm:"uniqueIndex;not null"`
	Name         string           `gorm:"not null"`
	Course       string           `gorm:"null"`
	Par          int              `gorm:"not null;default:72"`
	StartTime    time.Time        `gorm:"not null"`
	EndTime      time.Time        `gorm:"not null"`
	Status       TournamentStatus `gorm:"type:clubhouse.tournament_status;not null;default:'scheduled'"`
	CurrentRound int              `gorm:"not null;default:0"`
}

func (t *Tournament) Started(now time.Time) bool {
	return t.Status != TournamentScheduled || !now.Before(t.StartTime)
}

type TournamentRepository struct {
	DB *gorm.DB
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{DB: config.DatabaseConnection()}
}

func (r *TournamentRepository) GetTournamentById(tournamentId int) (*Tournament, error) {
	var tournament Tournament
	result := r.DB.First(&tournament, tournamentId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &tournament, nil
}

func (r *TournamentRepository) GetTournamentByExternalId(externalId string) (*Tournament, error) {
	var tournament Tournament
	result := r.DB.First(&tournament, "external_id = ?", externalId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &tournament, nil
}

func (r *TournamentRepository) FindAll() ([]*Tournament, error) {
	var tournaments []*Tournament
	result := r.DB.Order("start_time asc").Find(&tournaments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find tournaments: %v", result.Error)
	}
	return tournaments, nil
}

// GetActiveTournaments returns tournaments whose results still change,
// i.e. everything that has started but is not yet completed.
func (r *TournamentRepository) GetActiveTournaments() ([]*Tournament, error) {
	var tournaments []*Tournament
	result := r.DB.Where("status = ?", TournamentInProgress).Find(&tournaments)
	if result.Error != nil {
		return nil, result.Error
	}
	return tournaments, nil
}

func (r *TournamentRepository) Save(tournament *Tournament) (*Tournament, error) {
	result := r.DB.Save(tournament)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save tournament: %v", result.Error)
	}
	return tournament, nil
}

// UpsertTournaments writes feed schedule rows keyed by external id.
func (r *TournamentRepository) UpsertTournaments(tournaments []*Tournament) error {
	if len(tournaments) == 0 {
		return nil
	}
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("UpsertTournaments"))
	defer timer.ObserveDuration()
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "course", "par", "start_time", "end_time", "status", "current_round"}),
	}).Create(&tournaments).Error
}
