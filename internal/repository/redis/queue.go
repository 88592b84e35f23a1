package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bazaarIntel/domain"

	"github.com/redis/go-redis/v9"
)

// EventQueue is a FIFO queue of analytics events backed by a Redis list.
// Producers RPUSH, the processor LPOPs.
type EventQueue struct {
	client *redis.Client
	key    string
}

func NewEventQueue(client *redis.Client, key string) *EventQueue {
	return &EventQueue{
		client: client,
		key:    key,
	}
}

func (q *EventQueue) Push(ctx context.Context, event domain.AnalyticsEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = q.client.RPush(ctx, q.key, jsonData).Err()
	if err != nil {
		return fmt.Errorf("failed to push event to Redis: %w", err)
	}

	return nil
}

// Pop returns (nil, nil) when the queue is empty.
func (q *EventQueue) Pop(ctx context.Context) (*domain.AnalyticsEvent, error) {
	jsonData, err := q.client.LPop(ctx, q.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop event from Redis: %w", err)
	}

	var event domain.AnalyticsEvent
	if err := json.Unmarshal(jsonData, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}

func (q *EventQueue) Length(ctx context.Context) (int64, error) {
	length, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue length: %w", err)
	}

	return length, nil
}
