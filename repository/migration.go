package repository

import (
	"clubhouse/config"
	"strings"
)

var enumQueries = []string{
	`CREATE TYPE clubhouse.tournament_status AS ENUM ('scheduled', 'in_progress', 'completed')`,
	`CREATE TYPE clubhouse.draft_status AS ENUM ('not_started', 'in_progress', 'completed')`,
	`CREATE TYPE clubhouse.payment_kind AS ENUM ('main', 'bounty')`,
}

// InitDB creates the schema, enum types and tables on startup.
func InitDB() error {
	db := config.DatabaseConnection()
	if err := db.Exec(`CREATE SCHEMA IF NOT EXISTS clubhouse`).Error; err != nil {
		return err
	}
	for _, query := range enumQueries {
		if err := db.Exec(query).Error; err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return err
		}
	}
	return db.AutoMigrate(
		&User{},
		&Oauth{},
		&Tournament{},
		&Golfer{},
		&Pool{},
		&Entrant{},
		&DraftSlot{},
		&DraftPick{},
		&Alternate{},
		&TournamentResult{},
		&PoolScore{},
		&Payment{},
		&Bounty{},
		&SeasonTotal{},
		&RecurringJob{},
		&KafkaConsumer{},
	)
}
