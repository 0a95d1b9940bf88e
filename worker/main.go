package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"batch-scorer-server/models"
	"batch-scorer-server/services"
)

func main() {
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}
	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}

	storageType := os.Getenv("STORAGE_TYPE")
	if storageType == "" {
		storageType = "local"
	}
	storagePath := os.Getenv("STORAGE_PATH")
	if storagePath == "" {
		storagePath = "/data/artifacts"
	}

	blobs, err := services.NewBlobStore(storageType, storagePath)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	registry := NewRegistry()
	if err := registerBuiltins(registry); err != nil {
		log.Fatalf("Failed to register built-in scorers: %v", err)
	}
	log.Printf("Registered scoring services: %v", registry.Names())

	redisAddr := fmt.Sprintf("%s:%s", redisHost, redisPort)
	log.Printf("Scoring worker started. Connecting to Redis at %s", redisAddr)

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   0,
	})

	ctx := context.Background()

	// Test connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis successfully")

	for {
		// Block and wait for job from queue
		popped, err := rdb.BRPop(ctx, 5*time.Second, services.ScoringQueueKey).Result()
		if err != nil {
			if err == redis.Nil {
				continue // Timeout, no job available
			}
			log.Printf("Error reading from queue: %v", err)
			continue
		}

		// popped[0] is the queue key, popped[1] is the data
		rawData := popped[1]

		var req models.ExecutionRequest
		if err := json.Unmarshal([]byte(rawData), &req); err != nil {
			log.Printf("Error parsing request JSON: %v", err)
			continue
		}

		log.Printf("Processing job %d (%s) for service %q", req.JobID, req.JobUUID, req.ServiceName)

		result := RunJob(ctx, registry, blobs, &req)

		resultJSON, err := json.Marshal(result)
		if err != nil {
			log.Printf("Error marshaling result: %v", err)
			continue
		}

		resultKey := services.ResultKeyPrefix + strconv.FormatInt(req.JobID, 10)
		if err := rdb.Set(ctx, resultKey, resultJSON, services.ResultTTL).Err(); err != nil {
			log.Printf("Error storing result: %v", err)
			continue
		}

		log.Printf("Finished job %d - %s", req.JobID, result.Status)
	}
}
