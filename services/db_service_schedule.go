package services

import (
	"context"
	"database/sql"
	"encoding/json"

	"batch-scorer-server/models"
)

// CreateSchedule inserts a new scheduled scoring run
func (s *DBService) CreateSchedule(ctx context.Context, sched *models.ScheduledRun) (*models.ScheduledRun, error) {
	requestJSON, _ := json.Marshal(sched.Request)
	var created models.ScheduledRun
	var executedAt sql.NullTime
	var status, errorMsg sql.NullString
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO scheduled_runs (service_id, scheduled_at, request, executed)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, service_id, scheduled_at, request, executed, executed_at, status, error_message, created_at, updated_at
	`, sched.ServiceID, sched.ScheduledAt, requestJSON).
		Scan(&created.ID, &created.ServiceID, &created.ScheduledAt, &requestJSON, &created.Executed, &executedAt, &status, &errorMsg, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if executedAt.Valid {
		created.ExecutedAt = &executedAt.Time
	}
	if status.Valid {
		created.Status = status.String
	}
	if errorMsg.Valid {
		created.ErrorMessage = errorMsg.String
	}
	if requestJSON != nil {
		json.Unmarshal(requestJSON, &created.Request)
	}

	return &created, nil
}

// ListSchedules returns scheduled runs for a service
func (s *DBService) ListSchedules(ctx context.Context, serviceID int64) ([]models.ScheduledRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, service_id, scheduled_at, request, executed, executed_at, status, error_message, created_at, updated_at
		FROM scheduled_runs
		WHERE service_id = $1
		ORDER BY scheduled_at DESC
	`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []models.ScheduledRun{}
	for rows.Next() {
		var sched models.ScheduledRun
		var requestJSON []byte
		var executedAt sql.NullTime
		var status, errorMsg sql.NullString
		if err := rows.Scan(&sched.ID, &sched.ServiceID, &sched.ScheduledAt, &requestJSON, &sched.Executed, &executedAt, &status, &errorMsg, &sched.CreatedAt, &sched.UpdatedAt); err != nil {
			return nil, err
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
		if requestJSON != nil {
			json.Unmarshal(requestJSON, &sched.Request)
		}
		schedules = append(schedules, sched)
	}

	return schedules, nil
}

// DeleteSchedule removes a scheduled run
func (s *DBService) DeleteSchedule(ctx context.Context, serviceID, scheduleID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM scheduled_runs WHERE id = $1 AND service_id = $2
	`, scheduleID, serviceID)
	return err
}

// MarkScheduleExecuted marks a scheduled run as executed with result
func (s *DBService) MarkScheduleExecuted(ctx context.Context, scheduleID int64, status, errMsg string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE scheduled_runs
		SET executed = TRUE, executed_at = now(), status = $2, error_message = $3, updated_at = now()
		WHERE id = $1
	`, scheduleID, status, errMsg)
	return err
}
