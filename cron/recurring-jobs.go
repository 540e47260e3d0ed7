package cron

import (
	"context"
	"fmt"
	"time"

	"clubhouse/repository"

	"github.com/sirupsen/logrus"
)

type RecurringJob struct {
	JobType                  repository.JobType `json:"job_type" binding:"required"`
	SleepAfterEachRunSeconds int                `json:"sleep_after_each_run_seconds" binding:"required"`
	Cancel                   context.CancelFunc `json:"-"`
	EndDate                  time.Time          `json:"end_date" binding:"required"`
	TournamentId             int                `json:"tournament_id"`
}

// RecurringJobService owns the background loops: schedule sync, the
// per-tournament result pipeline and the pool sweeps. Job rows persist
// across restarts; InitializeJobs restarts everything that has not passed
// its end date.
type RecurringJobService struct {
	jobRepository        *repository.RecurringJobsRepository
	tournamentRepository *repository.TournamentRepository
	Jobs                 map[repository.JobType]*RecurringJob
}

func NewRecurringJobService() *RecurringJobService {
	return &RecurringJobService{
		jobRepository:        repository.NewRecurringJobsRepository(),
		tournamentRepository: repository.NewTournamentRepository(),
		Jobs:                 make(map[repository.JobType]*RecurringJob),
	}
}

func (s *RecurringJobService) InitializeJobs() error {
	repoJobs, err := s.jobRepository.GetAllJobs()
	if err != nil {
		return err
	}
	for _, repoJob := range repoJobs {
		if repoJob.EndDate.Before(time.Now()) {
			continue
		}
		job := &RecurringJob{
			JobType:                  repoJob.JobType,
			SleepAfterEachRunSeconds: repoJob.SleepAfterEachRunSeconds,
			EndDate:                  repoJob.EndDate,
			TournamentId:             repoJob.TournamentId,
		}
		if err := s.StartJob(job); err != nil {
			logrus.WithField("jobType", job.JobType).WithError(err).Error("Failed to restart job")
		}
	}
	return nil
}

// StartJob persists the job and launches its loop, replacing any running
// loop of the same type. The loop's context expires at the job's end date.
func (s *RecurringJobService) StartJob(job *RecurringJob) error {
	if existing, ok := s.Jobs[job.JobType]; ok && existing.Cancel != nil {
		existing.Cancel()
	}
	err := s.jobRepository.CreateRecurringJob(&repository.RecurringJob{
		JobType:                  job.JobType,
		SleepAfterEachRunSeconds: job.SleepAfterEachRunSeconds,
		EndDate:                  job.EndDate,
		TournamentId:             job.TournamentId,
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithDeadline(context.Background(), job.EndDate)
	job.Cancel = cancel
	sleep := time.Duration(job.SleepAfterEachRunSeconds) * time.Second

	switch job.JobType {
	case repository.SyncSchedule:
		go ScheduleSyncLoop(ctx, sleep)
	case repository.PublishResults:
		tournament, err := s.tournamentRepository.GetTournamentById(job.TournamentId)
		if err != nil {
			cancel()
			return err
		}
		go ResultPublishLoop(ctx, tournament, sleep)
	case repository.ConsumeResults:
		tournament, err := s.tournamentRepository.GetTournamentById(job.TournamentId)
		if err != nil {
			cancel()
			return err
		}
		go ResultConsumeLoop(ctx, tournament)
	case repository.StartDueDrafts:
		go StartDueDraftsLoop(ctx, sleep)
	case repository.FinalizePools:
		go FinalizePoolsLoop(ctx, sleep)
	default:
		cancel()
		return fmt.Errorf("invalid job type %s", job.JobType)
	}
	s.Jobs[job.JobType] = job
	return nil
}

// StopJob cancels a running loop and forgets its row.
func (s *RecurringJobService) StopJob(jobType repository.JobType) {
	if job, ok := s.Jobs[jobType]; ok {
		if job.Cancel != nil {
			job.Cancel()
		}
		delete(s.Jobs, jobType)
	}
	s.jobRepository.DB.Delete(&repository.RecurringJob{}, "job_type = ?", jobType)
}
