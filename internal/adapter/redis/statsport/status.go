package statsport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/core/ports/secondary"
	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

var _ secondary.StatusRepository = (*StatusRepository)(nil)

const (
	minerKeyPrefix   = "miner:"
	sessionIndexKey  = "miner:sessions"
	DefaultRecordTTL = 2 * time.Minute
)

// Commands is the subset of *redis.Client the repository uses
type Commands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
}

var _ Commands = (*redis.Client)(nil)

// StatusRepository implements the StatusRepository interface with Redis
type StatusRepository struct {
	redisClient Commands
	ttl         time.Duration
	logger      primary.Logger
}

// NewStatusRepository creates a Redis heartbeat repository. Records expire
// after ttl unless refreshed.
func NewStatusRepository(redisClient Commands, ttl time.Duration, logger primary.Logger) *StatusRepository {
	if ttl <= 0 {
		ttl = DefaultRecordTTL
	}
	return &StatusRepository{
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

func minerKey(sessionID string) string {
	return minerKeyPrefix + sessionID
}

// SaveStatus saves the miner status with expiration and indexes the session
func (r *StatusRepository) SaveStatus(ctx context.Context, status domain.MinerStatus) error {
	if status.SessionID == "" {
		return fmt.Errorf("status has no session id")
	}
	statusJSON, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal miner status: %w", err)
	}

	if err := r.redisClient.Set(ctx, minerKey(status.SessionID), statusJSON, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save miner status", "session", status.SessionID, "error", err)
		return fmt.Errorf("failed to save miner status: %w", err)
	}

	if err := r.redisClient.SAdd(ctx, sessionIndexKey, status.SessionID).Err(); err != nil {
		r.logger.Error("Failed to add session to index", "session", status.SessionID, "error", err)
		return fmt.Errorf("failed to add session to index: %w", err)
	}

	return nil
}

// GetStatus retrieves the status record of a session
func (r *StatusRepository) GetStatus(ctx context.Context, sessionID string) (*domain.MinerStatus, error) {
	statusJSON, err := r.redisClient.Get(ctx, minerKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get miner status: %w", err)
	}

	var status domain.MinerStatus
	if err := json.Unmarshal(statusJSON, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal miner status: %w", err)
	}
	return &status, nil
}

// RemoveStaleSessions drops index entries whose record has expired or was
// last reported before cutoff
func (r *StatusRepository) RemoveStaleSessions(ctx context.Context, cutoff time.Time) error {
	sessionIDs, err := r.redisClient.SMembers(ctx, sessionIndexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get session index: %w", err)
	}

	for _, sessionID := range sessionIDs {
		status, err := r.GetStatus(ctx, sessionID)
		if err != nil {
			r.logger.Error("Failed to check session", "session", sessionID, "error", err)
			continue
		}
		if status != nil && !status.ReportedAt.Before(cutoff) {
			continue
		}
		if err := r.redisClient.SRem(ctx, sessionIndexKey, sessionID).Err(); err != nil {
			r.logger.Error("Failed to remove session from index", "session", sessionID, "error", err)
			continue
		}
		r.logger.Debug("Removed stale session", "session", sessionID)
	}

	return nil
}
