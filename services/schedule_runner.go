package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"batch-scorer-server/models"
	"batch-scorer-server/scoring"
)

type ScheduleRunner struct {
	scheduleService *ScheduleService
	scoringService  *ScoringService
	interval        time.Duration
	batchSize       int
	stopCh          chan struct{}
	wg              sync.WaitGroup
}

func NewScheduleRunner(scheduleService *ScheduleService, scoringService *ScoringService) *ScheduleRunner {
	return &ScheduleRunner{
		scheduleService: scheduleService,
		scoringService:  scoringService,
		interval:        time.Second,
		batchSize:       20,
		stopCh:          make(chan struct{}),
	}
}

func (r *ScheduleRunner) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.processDueSchedules()
			case <-r.stopCh:
				return
			}
		}
	}()
}

func (r *ScheduleRunner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
}

func (r *ScheduleRunner) processDueSchedules() {
	ctx := context.Background()
	schedules, err := r.scheduleService.ClaimDueSchedules(ctx, r.batchSize)
	if err != nil {
		log.Printf("scheduler: failed to claim scheduled runs: %v", err)
		return
	}
	for _, sched := range schedules {
		go r.executeSchedule(ctx, sched)
	}
}

func (r *ScheduleRunner) executeSchedule(ctx context.Context, sched models.ScheduledRun) {
	request := sched.Request
	if request == nil {
		request = scoring.Request{}
	}
	submittedBy := fmt.Sprintf("schedule:%d", sched.ID)
	job, err := r.scoringService.SubmitJob(ctx, sched.ServiceID, request, submittedBy)
	if err != nil {
		r.scheduleService.MarkExecuted(ctx, sched.ID, models.StatusFailed, err.Error())
		return
	}

	// Poll for result (max 60 seconds)
	maxRetries := 120 // 120 * 0.5s = 60s
	for i := 0; i < maxRetries; i++ {
		time.Sleep(500 * time.Millisecond)

		result, err := r.scoringService.GetJobResult(ctx, job.ID)
		if err != nil {
			log.Printf("scheduler: failed to get job result: %v", err)
			continue
		}

		if result.Status != models.StatusPending && result.Status != models.StatusRunning {
			// Execution completed
			errMsg := ""
			if result.Status == models.StatusFailed {
				errMsg = result.ErrorMessage
			}
			r.scheduleService.MarkExecuted(ctx, sched.ID, result.Status, errMsg)
			return
		}
	}

	// The batch job may still complete; the schedule just stops tracking it
	r.scheduleService.MarkExecuted(ctx, sched.ID, models.StatusFailed, "gave up polling after 60 seconds")
}
