package memory

import (
	"context"
	"time"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ReviewStateRepository keeps in-flight review joins in process memory.
// Entries expire with the session TTL so an abandoned join cannot leak.
type ReviewStateRepository struct {
	cache *cache.Cache
}

func NewReviewStateRepository(ttl time.Duration) contract.ReviewStateRepository {
	return &ReviewStateRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *ReviewStateRepository) Get(_ context.Context, sessionID uuid.UUID) (*entity.ReviewState, bool, error) {
	if x, found := r.cache.Get(sessionID.String()); found {
		return x.(*entity.ReviewState), true, nil
	}
	return nil, false, nil
}

func (r *ReviewStateRepository) Save(_ context.Context, state *entity.ReviewState) error {
	r.cache.Set(state.SessionId.String(), state, cache.DefaultExpiration)
	return nil
}

func (r *ReviewStateRepository) Delete(_ context.Context, sessionID uuid.UUID) error {
	r.cache.Delete(sessionID.String())
	return nil
}
