package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/redis/go-redis/v9"

	"batch-scorer-server/models"
)

const (
	ScoringQueueKey   = "scoring_queue:batch"
	ResultKeyPrefix   = "result:"
	ResultTTL         = 10 * time.Minute
	TelemetryKey      = "telemetry:events"
	TelemetryMaxItems = 1000
)

type RedisService struct {
	client *redis.Client
}

func NewRedisService(host string, port int) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", host, port),
	})
	return &RedisService{client: client}
}

// PushJob pushes a scoring job to the execution queue
func (r *RedisService) PushJob(ctx context.Context, req *models.ExecutionRequest) error {
	var err error
	xray.Capture(ctx, "Redis.LPush", func(ctx1 context.Context) error {
		jsonData, marshalErr := json.Marshal(req)
		if marshalErr != nil {
			err = marshalErr
			return marshalErr
		}
		err = r.client.LPush(ctx, ScoringQueueKey, string(jsonData)).Err()

		// Add metadata to subsegment
		if seg := xray.GetSegment(ctx1); seg != nil {
			seg.AddMetadata("redis.queue_key", ScoringQueueKey)
			seg.AddMetadata("redis.operation", "LPUSH")
			seg.AddMetadata("redis.job_uuid", req.JobUUID)
		}

		return err
	})
	return err
}

// GetResult retrieves the execution result for a job ID
func (r *RedisService) GetResult(ctx context.Context, jobID int64) (*models.ExecutionResult, error) {
	var result *models.ExecutionResult
	var finalErr error

	xray.Capture(ctx, "Redis.Get", func(ctx1 context.Context) error {
		key := fmt.Sprintf("%s%d", ResultKeyPrefix, jobID)
		jsonData, err := r.client.Get(ctx, key).Result()
		if err == redis.Nil {
			result = nil
			finalErr = nil
			return nil
		}
		if err != nil {
			finalErr = err
			return err
		}

		var execResult models.ExecutionResult
		if err := json.Unmarshal([]byte(jsonData), &execResult); err != nil {
			finalErr = err
			return err
		}
		result = &execResult
		finalErr = nil

		// Add metadata to subsegment
		if seg := xray.GetSegment(ctx1); seg != nil {
			seg.AddMetadata("redis.key", key)
			seg.AddMetadata("redis.operation", "GET")
			seg.AddMetadata("redis.job_id", jobID)
		}

		return nil
	})

	return result, finalErr
}

// PublishEvent forwards a structured telemetry event to the collector
// list. The list is capped; the external collector drains it.
func (r *RedisService) PublishEvent(ctx context.Context, event *models.TelemetryEvent) error {
	var err error
	xray.Capture(ctx, "Redis.Telemetry", func(ctx1 context.Context) error {
		jsonData, marshalErr := json.Marshal(event)
		if marshalErr != nil {
			err = marshalErr
			return marshalErr
		}

		pipe := r.client.Pipeline()
		pipe.LPush(ctx, TelemetryKey, string(jsonData))
		pipe.LTrim(ctx, TelemetryKey, 0, TelemetryMaxItems-1)
		_, err = pipe.Exec(ctx)

		if seg := xray.GetSegment(ctx1); seg != nil {
			seg.AddMetadata("redis.key", TelemetryKey)
			seg.AddMetadata("telemetry.service", event.Service)
			seg.AddMetadata("telemetry.outcome", event.Outcome)
		}

		return err
	})
	return err
}

// Ping checks Redis connection
func (r *RedisService) Ping(ctx context.Context) error {
	var err error
	xray.Capture(ctx, "Redis.Ping", func(ctx1 context.Context) error {
		err = r.client.Ping(ctx).Err()

		if seg := xray.GetSegment(ctx1); seg != nil {
			seg.AddMetadata("redis.operation", "PING")
		}

		return err
	})
	return err
}
