package repository

import (
	"clubhouse/config"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TournamentResult is the feed's view of one golfer in one tournament.
// Nullable fields stay nil when the feed has not reported them; the score
// resolver decides what a nil means. Rows edited by an admin carry
// ManualOverride and are never touched by the sync again.
type TournamentResult struct {
	Id             int           `gorm:"primaryKey"`
	TournamentId   int           `gorm:"uniqueIndex:idx_result_golfer;not null;references tournaments(id)"`
	GolferId       int           `gorm:"uniqueIndex:idx_result_golfer;not null;references golfers(id)"`
	ToPar          *int          `gorm:"null"`
	Strokes        *int          `gorm:"null"`
	Position       *int          `gorm:"null"`
	MadeCut        *bool         `gorm:"null"`
	Withdrawn      bool          `gorm:"not null;default:false"`
	RoundToPar     pq.Int64Array `gorm:"type:bigint[];not null;default:'{}'"`
	ManualOverride bool          `gorm:"not null;default:false"`
	UpdatedAt      time.Time
}

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{DB: config.DatabaseConnection()}
}

func (r *ResultRepository) GetResultsForTournament(tournamentId int) ([]*TournamentResult, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetResultsForTournament"))
	defer timer.ObserveDuration()
	var results []*TournamentResult
	result := r.DB.Find(&results, "tournament_id = ?", tournamentId)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find results: %v", result.Error)
	}
	return results, nil
}

func (r *ResultRepository) GetResult(tournamentId int, golferId int) (*TournamentResult, error) {
	var result TournamentResult
	query := r.DB.First(&result, "tournament_id = ? AND golfer_id = ?", tournamentId, golferId)
	if query.Error != nil {
		return nil, query.Error
	}
	return &result, nil
}

// UpsertResults writes a feed snapshot. Rows an admin has overridden keep
// their edited values.
func (r *ResultRepository) UpsertResults(results []*TournamentResult) error {
	if len(results) == 0 {
		return nil
	}
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("UpsertResults"))
	defer timer.ObserveDuration()
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tournament_id"}, {Name: "golfer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"to_par", "strokes", "position", "made_cut", "withdrawn", "round_to_par", "updated_at"}),
		Where:     clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "NOT tournament_results.manual_override"}}},
	}).CreateInBatches(&results, 500).Error
}

// SaveOverride persists an admin edit and pins the row against feed syncs.
func (r *ResultRepository) SaveOverride(result *TournamentResult) error {
	result.ManualOverride = true
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tournament_id"}, {Name: "golfer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"to_par", "strokes", "position", "made_cut", "withdrawn", "round_to_par", "manual_override", "updated_at"}),
	}).Create(result).Error
}
