package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const mailQueueName = "mail:jobs"

// QueueService defines the interface for queue operations
type QueueService interface {
	PublishMailJob(ctx context.Context, job MailJob) error
	ConsumeMailJob(ctx context.Context) (*MailJob, error)
}

type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

// MailJob is a queued outgoing notification. Delivery is best-effort;
// the worker logs and drops jobs that fail to send.
type MailJob struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

// PublishMailJob pushes an outgoing mail onto the Redis queue
func (q *RedisQueue) PublishMailJob(ctx context.Context, job MailJob) error {
	jobData, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.client.LPush(ctx, mailQueueName, jobData).Err(); err != nil {
		return fmt.Errorf("failed to push job to queue: %w", err)
	}

	return nil
}

// ConsumeMailJob pops the next mail job from the Redis queue (for worker)
func (q *RedisQueue) ConsumeMailJob(ctx context.Context) (*MailJob, error) {
	// Use shorter timeout (5 seconds) instead of blocking forever
	// This allows the context cancellation to be checked more frequently
	result, err := q.client.BRPop(ctx, 5*time.Second, mailQueueName).Result()
	if err != nil {
		// Check if it's just a timeout (no job available)
		if err == redis.Nil {
			return nil, nil // No job available, return nil
		}
		// Check if context was cancelled
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to pop job from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, fmt.Errorf("invalid queue response")
	}

	jobData := result[1]
	var job MailJob
	if err := json.Unmarshal([]byte(jobData), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}
