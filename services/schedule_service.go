package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"batch-scorer-server/models"
	"batch-scorer-server/scoring"
)

type ScheduleService struct {
	db *DBService
}

func NewScheduleService(db *DBService) *ScheduleService {
	return &ScheduleService{
		db: db,
	}
}

// CreateSchedule registers a new one-time scheduled scoring run for a service
func (s *ScheduleService) CreateSchedule(ctx context.Context, serviceID int64, req *models.CreateScheduleRequest) (*models.ScheduledRun, error) {
	if req.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("scheduled_at is required")
	}

	// Validate scheduled_at is in the future
	now := time.Now().UTC()
	if req.ScheduledAt.Before(now) {
		return nil, fmt.Errorf("scheduled_at must be in the future")
	}

	request := req.Request
	if request == nil {
		request = scoring.Request{}
	}

	return s.db.CreateSchedule(ctx, &models.ScheduledRun{
		ServiceID:   serviceID,
		ScheduledAt: req.ScheduledAt,
		Request:     request,
		Executed:    false,
	})
}

// ListSchedules returns the scheduled runs for a service
func (s *ScheduleService) ListSchedules(ctx context.Context, serviceID int64) ([]models.ScheduledRun, error) {
	return s.db.ListSchedules(ctx, serviceID)
}

// DeleteSchedule removes a scheduled run
func (s *ScheduleService) DeleteSchedule(ctx context.Context, serviceID, scheduleID int64) error {
	return s.db.DeleteSchedule(ctx, serviceID, scheduleID)
}

// ClaimDueSchedules locks due scheduled runs and returns them for execution
func (s *ScheduleService) ClaimDueSchedules(ctx context.Context, limit int) ([]models.ScheduledRun, error) {
	if limit <= 0 {
		limit = 10
	}

	tx, err := s.db.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	rows, err := tx.QueryContext(ctx, `
		SELECT id, service_id, scheduled_at, request, executed, executed_at, status, error_message, created_at, updated_at
		FROM scheduled_runs
		WHERE executed = FALSE AND scheduled_at <= $1
		ORDER BY scheduled_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []models.ScheduledRun
	var scheduleIDs []int64
	for rows.Next() {
		var sched models.ScheduledRun
		var requestJSON []byte
		var executedAt sql.NullTime
		var status, errorMsg sql.NullString
		if err := rows.Scan(&sched.ID, &sched.ServiceID, &sched.ScheduledAt, &requestJSON, &sched.Executed, &executedAt, &status, &errorMsg, &sched.CreatedAt, &sched.UpdatedAt); err != nil {
			return nil, err
		}
		if requestJSON != nil {
			json.Unmarshal(requestJSON, &sched.Request)
		}
		if executedAt.Valid {
			sched.ExecutedAt = &executedAt.Time
		}
		if status.Valid {
			sched.Status = status.String
		}
		if errorMsg.Valid {
			sched.ErrorMessage = errorMsg.String
		}
		schedules = append(schedules, sched)
		scheduleIDs = append(scheduleIDs, sched.ID)
	}

	// Mark as executed immediately to prevent duplicate execution
	if len(scheduleIDs) > 0 {
		// Create placeholder string for IN clause
		placeholders := ""
		for i := range scheduleIDs {
			if i > 0 {
				placeholders += ","
			}
			placeholders += fmt.Sprintf("$%d", i+1)
		}

		query := fmt.Sprintf(`
			UPDATE scheduled_runs
			SET executed = TRUE, executed_at = now(), updated_at = now()
			WHERE id IN (%s)
		`, placeholders)

		args := make([]interface{}, len(scheduleIDs))
		for i, id := range scheduleIDs {
			args[i] = id
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// MarkExecuted marks a scheduled run as executed with result
func (s *ScheduleService) MarkExecuted(ctx context.Context, scheduleID int64, status, errMsg string) {
	_ = s.db.MarkScheduleExecuted(ctx, scheduleID, status, errMsg)
}
