package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReviewStateRepository stores in-flight review joins in redis, for
// deployments running more than one coordinator instance against the
// same session table. Same contract, same TTL discipline as the
// in-memory store.
type ReviewStateRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewReviewStateRepository(rdb *redis.Client, ttl time.Duration) contract.ReviewStateRepository {
	return &ReviewStateRepository{rdb: rdb, ttl: ttl}
}

func key(sessionID uuid.UUID) string {
	return "workshop:review_state:" + sessionID.String()
}

func (r *ReviewStateRepository) Get(ctx context.Context, sessionID uuid.UUID) (*entity.ReviewState, bool, error) {
	data, err := r.rdb.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get review state: %w", err)
	}

	var state entity.ReviewState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false, fmt.Errorf("decode review state: %w", err)
	}
	return &state, true, nil
}

func (r *ReviewStateRepository) Save(ctx context.Context, state *entity.ReviewState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode review state: %w", err)
	}
	if err := r.rdb.Set(ctx, key(state.SessionId), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save review state: %w", err)
	}
	return nil
}

func (r *ReviewStateRepository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if err := r.rdb.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete review state: %w", err)
	}
	return nil
}
