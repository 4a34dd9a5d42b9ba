package contract

import (
	"context"

	"creation-workshop-be/internal/entity"

	"github.com/google/uuid"
)

// ReviewStateRepository is the non-durable keyed store for in-flight
// review joins. Implementations may lose state on restart; the
// aggregator reconstructs from empty on the next reviewer arrival.
type ReviewStateRepository interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*entity.ReviewState, bool, error)
	Save(ctx context.Context, state *entity.ReviewState) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
}
