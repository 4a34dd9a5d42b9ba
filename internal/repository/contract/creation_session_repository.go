package contract

import (
	"context"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CreationSessionRepository interface {
	Create(ctx context.Context, session *entity.CreationSession) error
	// Update persists the full session row in one write.
	Update(ctx context.Context, session *entity.CreationSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteWhere hard-deletes every row matching the specifications and
	// returns the number of rows removed. Used by the expiry sweep.
	DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreationSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreationSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
