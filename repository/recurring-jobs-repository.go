package repository

import (
	"clubhouse/config"
	"time"

	"gorm.io/gorm"
)

type JobType string

const (
	SyncSchedule   JobType = "SyncSchedule"
	PublishResults JobType = "PublishResults"
	ConsumeResults JobType = "ConsumeResults"
	StartDueDrafts JobType = "StartDueDrafts"
	FinalizePools  JobType = "FinalizePools"
)

type RecurringJob struct {
	JobType                  JobType   `gorm:"primaryKey;not null;unique"`
	TournamentId             int       `gorm:"not null"`
	SleepAfterEachRunSeconds int       `gorm:"not null"`
	EndDate                  time.Time `gorm:"not null"`
}

// KafkaConsumer tracks the consumer group generation per tournament topic
// so a restarted consumer resumes under a fresh group id.
type KafkaConsumer struct {
	TournamentId int `gorm:"primaryKey"`
	GroupId      int `gorm:"not null;default:0"`
}

type RecurringJobsRepository struct {
	DB *gorm.DB
}

func NewRecurringJobsRepository() *RecurringJobsRepository {
	return &RecurringJobsRepository{DB: config.DatabaseConnection()}
}

func (r *RecurringJobsRepository) CreateRecurringJob(job *RecurringJob) error {
	r.DB.Delete(&RecurringJob{}, "job_type = ?", job.JobType)
	return r.DB.Create(job).Error
}

func (r *RecurringJobsRepository) GetRecurringJob(jobType JobType, tournamentId int) (job *RecurringJob, err error) {
	err = r.DB.Where("job_type = ? AND tournament_id = ?", jobType, tournamentId).First(&job).Error
	return job, err
}

func (r *RecurringJobsRepository) GetAllJobs() (jobs []*RecurringJob, err error) {
	err = r.DB.Find(&jobs).Error
	return jobs, err
}

func (r *RecurringJobsRepository) GetKafkaConsumer(tournamentId int) (*KafkaConsumer, error) {
	consumer := &KafkaConsumer{TournamentId: tournamentId}
	err := r.DB.FirstOrCreate(consumer, "tournament_id = ?", tournamentId).Error
	if err != nil {
		return nil, err
	}
	return consumer, nil
}

func (r *RecurringJobsRepository) SaveKafkaConsumer(consumer *KafkaConsumer) error {
	return r.DB.Save(consumer).Error
}
