package controller

import (
	"fmt"
	"time"

	"clubhouse/cron"
	"clubhouse/repository"
	"clubhouse/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RecurringJobsController struct {
	recurringJobService *cron.RecurringJobService
}

type JobCreate struct {
	JobType                  repository.JobType `json:"job_type"`
	SleepAfterEachRunSeconds int                `json:"sleep_after_each_run_seconds"`
	DurationInSeconds        *int               `json:"duration_in_seconds"`
	EndDate                  *time.Time         `json:"end_date"`
	TournamentId             *int               `json:"tournament_id"`
}

func (j *JobCreate) toJob() (*cron.RecurringJob, error) {
	if !utils.Contains(jobList, j.JobType) {
		return nil, fmt.Errorf("job type does not exist")
	}
	if j.DurationInSeconds != nil && j.EndDate != nil {
		return nil, fmt.Errorf("cannot specify both duration and end date")
	}
	if j.DurationInSeconds == nil && j.EndDate == nil {
		return nil, fmt.Errorf("must specify either duration or end date")
	}
	if j.DurationInSeconds != nil {
		endDate := time.Now().Add(time.Duration(*j.DurationInSeconds) * time.Second)
		j.EndDate = &endDate
	}
	job := &cron.RecurringJob{
		JobType:                  j.JobType,
		SleepAfterEachRunSeconds: j.SleepAfterEachRunSeconds,
		EndDate:                  *j.EndDate,
	}
	if j.TournamentId != nil {
		job.TournamentId = *j.TournamentId
	}
	if (j.JobType == repository.PublishResults || j.JobType == repository.ConsumeResults) && job.TournamentId == 0 {
		return nil, fmt.Errorf("job type %s needs a tournament id", j.JobType)
	}
	return job, nil
}

var jobList = []repository.JobType{
	repository.SyncSchedule,
	repository.PublishResults,
	repository.ConsumeResults,
	repository.StartDueDrafts,
	repository.FinalizePools,
}

func NewRecurringJobsController() *RecurringJobsController {
	controller := &RecurringJobsController{
		recurringJobService: cron.NewRecurringJobService(),
	}
	if err := controller.recurringJobService.InitializeJobs(); err != nil {
		logrus.WithError(err).Error("Failed to initialize recurring jobs")
	}
	return controller
}

func setupRecurringJobsController() []RouteInfo {
	e := NewRecurringJobsController()
	basePath := "/jobs"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getJobsHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "POST", Path: "", HandlerFunc: e.startJobHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "DELETE", Path: "/:job_type", HandlerFunc: e.stopJobHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id GetJobs
// @Description Fetches the recurring jobs that are currently running
// @Tags jobs
// @Produce json
// @Success 200 {array} cron.RecurringJob
// @Security BearerAuth
// @Router /jobs [get]
func (e *RecurringJobsController) getJobsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs := make([]*cron.RecurringJob, 0)
		for _, jobType := range jobList {
			if job, ok := e.recurringJobService.Jobs[jobType]; ok {
				jobs = append(jobs, job)
			}
		}
		c.JSON(200, jobs)
	}
}

// @id StartJob
// @Description Starts a recurring job, replacing a running one of the same type
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body JobCreate true "Job to create"
// @Success 201 {object} cron.RecurringJob
// @Security BearerAuth
// @Router /jobs [post]
func (e *RecurringJobsController) startJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var jobCreate JobCreate
		if err := c.BindJSON(&jobCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		job, err := jobCreate.toJob()
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.recurringJobService.StartJob(job); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(201, job)
	}
}

// @id StopJob
// @Description Stops a recurring job and drops its persisted schedule
// @Tags jobs
// @Produce json
// @Param job_type path string true "Job Type"
// @Success 204
// @Security BearerAuth
// @Router /jobs/{job_type} [delete]
func (e *RecurringJobsController) stopJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobType := repository.JobType(c.Param("job_type"))
		if !utils.Contains(jobList, jobType) {
			c.JSON(400, gin.H{"error": "job type does not exist"})
			return
		}
		e.recurringJobService.StopJob(jobType)
		c.JSON(204, nil)
	}
}
