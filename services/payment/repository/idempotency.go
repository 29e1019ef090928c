package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/piresc/paygate/internal/pkg/constants"
	"github.com/piresc/paygate/internal/pkg/database"
	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/piresc/paygate/services/payment"
)

// IdempotencyRepo implements payment.IdempotencyStore on Redis
type IdempotencyRepo struct {
	redisClient   *database.RedisClient
	inProgressTTL time.Duration
	completedTTL  time.Duration
}

// NewIdempotencyRepo creates a new idempotency repository
func NewIdempotencyRepo(redisClient *database.RedisClient, cfg models.IdempotencyConfig) *IdempotencyRepo {
	return &IdempotencyRepo{
		redisClient:   redisClient,
		inProgressTTL: cfg.InProgressTTL,
		completedTTL:  cfg.CompletedTTL,
	}
}

func idempotencyKey(provider models.Provider, key string) string {
	return fmt.Sprintf(constants.KeyIdempotency, provider, key)
}

// Claim reserves key for the caller or reports what an earlier request left behind
func (r *IdempotencyRepo) Claim(ctx context.Context, provider models.Provider, key string) (*models.OrchestrationResult, error) {
	redisKey := idempotencyKey(provider, key)

	ok, err := r.redisClient.SetNX(ctx, redisKey, constants.IdempotencyInProgress, r.inProgressTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if ok {
		return nil, nil
	}

	stored, err := r.redisClient.Get(ctx, redisKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET; let the caller retry
			return nil, payment.ErrDuplicateRequest
		}
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	switch stored {
	case constants.IdempotencyInProgress:
		return nil, payment.ErrDuplicateRequest
	case constants.IdempotencyAbandoned:
		return nil, payment.ErrIdempotencyKeyAbandoned
	}

	var result models.OrchestrationResult
	if err := json.Unmarshal([]byte(stored), &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored result: %w", err)
	}
	return &result, nil
}

// Complete stores the result so retries with the same key replay it
func (r *IdempotencyRepo) Complete(ctx context.Context, provider models.Provider, key string, result *models.OrchestrationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := r.redisClient.Set(ctx, idempotencyKey(provider, key), data, r.completedTTL); err != nil {
		return fmt.Errorf("failed to store idempotency result: %w", err)
	}
	return nil
}

// Release drops a claim so the request can be retried
func (r *IdempotencyRepo) Release(ctx context.Context, provider models.Provider, key string) error {
	if err := r.redisClient.Delete(ctx, idempotencyKey(provider, key)); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// Abandon keeps the key blocked so a retry cannot charge the provider twice
func (r *IdempotencyRepo) Abandon(ctx context.Context, provider models.Provider, key string) error {
	if err := r.redisClient.Set(ctx, idempotencyKey(provider, key), constants.IdempotencyAbandoned, r.completedTTL); err != nil {
		return fmt.Errorf("failed to abandon idempotency key: %w", err)
	}
	return nil
}
