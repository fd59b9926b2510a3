package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/confbot/boardbot/internal/common/clock"
	"github.com/confbot/boardbot/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for individual slot records
	slotKeyPrefix = "board:slot:"

	// Index set holding the record key of every occupied cell
	slotIndexKey = "board:slots"
)

// ErrSlotNotFound is returned when a (room, slot) cell is unset
var ErrSlotNotFound = errors.New("slot not found")

// Config holds configuration for the Redis board repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Clock stamps UpdatedAt on every write
	Clock clock.Clock
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	clock  clock.Clock
}

// NewRedis creates a new Redis-backed board repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		clock:  cfg.Clock,
	}, nil
}

// recordKey maps a SlotKey to its Redis key
func recordKey(key models.SlotKey) string {
	return fmt.Sprintf("%s%s:%s", slotKeyPrefix, key.Room, key.Slot)
}

// GetSlot retrieves the record for one (room, slot) key
func (r *redisRepository) GetSlot(ctx context.Context, input *GetSlotInput) (*models.SessionRecord, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	recordJSON, err := r.client.Get(ctx, recordKey(input.Key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to get slot %s: %w", input.Key, err)
	}

	var record models.SessionRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slot %s: %w", input.Key, err)
	}

	return &record, nil
}

// SetSlot overwrites the record for one (room, slot) key. The record
// write and the index update happen in a single MULTI/EXEC block, so
// the cell is either fully written or not written at all.
func (r *redisRepository) SetSlot(ctx context.Context, input *SetSlotInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	if input.SessionName == "" {
		return errors.New("session name cannot be empty")
	}

	record := &models.SessionRecord{
		Key:         input.Key,
		SessionName: input.SessionName,
		UpdatedBy:   input.UpdatedBy,
		UpdatedAt:   r.clock.Now(),
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal slot %s: %w", input.Key, err)
	}

	key := recordKey(input.Key)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, recordJSON, 0)
		pipe.SAdd(ctx, slotIndexKey, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set slot %s: %w", input.Key, err)
	}

	return nil
}

// Wipe removes every record on the board
func (r *redisRepository) Wipe(ctx context.Context) error {
	keys, err := r.client.SMembers(ctx, slotIndexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list board slots: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		pipe.Del(ctx, slotIndexKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to wipe board: %w", err)
	}

	return nil
}

// Snapshot returns a consistent copy of the full board
func (r *redisRepository) Snapshot(ctx context.Context) (*SnapshotOutput, error) {
	keys, err := r.client.SMembers(ctx, slotIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list board slots: %w", err)
	}

	if len(keys) == 0 {
		return &SnapshotOutput{
			Records: []*models.SessionRecord{},
		}, nil
	}

	// Fetch all records in one round trip
	pipe := r.client.Pipeline()
	recordCmds := make(map[string]*redis.StringCmd, len(keys))
	for _, key := range keys {
		recordCmds[key] = pipe.Get(ctx, key)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get board records: %w", err)
	}

	records := make([]*models.SessionRecord, 0, len(keys))
	for key, cmd := range recordCmds {
		recordJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Record removed between the index read and the fetch
				continue
			}
			return nil, fmt.Errorf("failed to get record %s: %w", key, err)
		}

		var record models.SessionRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record %s: %w", key, err)
		}

		records = append(records, &record)
	}

	return &SnapshotOutput{
		Records: records,
	}, nil
}
