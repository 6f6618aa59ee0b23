package state

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// StateManager checkpoints import progress per source file so an interrupted
// run can resume instead of re-scanning everything. Creations are idempotent
// on the remote side (found by code/slug), so resuming is a convenience, not
// a correctness requirement.
type StateManager interface {
	GetLastProcessedRow(ctx context.Context, sourceName string) (int, error)
	SetLastProcessedRow(ctx context.Context, sourceName string, rowNumber int) error
	ClearProgress(ctx context.Context, sourceName string) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   "importer:progress:row:",
	}
}

func (s *redisStateManager) GetLastProcessedRow(ctx context.Context, sourceName string) (int, error) {
	key := s.keyPrefix + sourceName
	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil // No progress saved yet
		}
		return 0, fmt.Errorf("failed to get last processed row for %s: %w", sourceName, err)
	}

	row, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("failed to parse row number for %s: %w", sourceName, err)
	}

	return row, nil
}

func (s *redisStateManager) SetLastProcessedRow(ctx context.Context, sourceName string, rowNumber int) error {
	key := s.keyPrefix + sourceName
	if err := s.redisClient.Set(ctx, key, rowNumber, 0).Err(); err != nil {
		return fmt.Errorf("failed to set last processed row for %s: %w", sourceName, err)
	}
	return nil
}

func (s *redisStateManager) ClearProgress(ctx context.Context, sourceName string) error {
	if err := s.redisClient.Del(ctx, s.keyPrefix+sourceName).Err(); err != nil {
		return fmt.Errorf("failed to clear progress for %s: %w", sourceName, err)
	}
	return nil
}
