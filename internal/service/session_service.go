package service

import (
	"context"
	"time"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/pkg/logger"
	"creation-workshop-be/internal/repository/contract"
	"creation-workshop-be/internal/repository/specification"
	"creation-workshop-be/internal/workflow"

	"github.com/google/uuid"
)

type ISessionService interface {
	// GetOrCreate returns the user's single active session, creating an
	// idle one when none survives.
	GetOrCreate(ctx context.Context, userId string) (*entity.CreationSession, error)
	GetById(ctx context.Context, id uuid.UUID) (*entity.CreationSession, error)
	// Update persists the full session row. The expiry deadline is fixed
	// at creation and never extended.
	Update(ctx context.Context, session *entity.CreationSession) error
	// Reset clears all in-progress work and returns the session to idle.
	Reset(ctx context.Context, session *entity.CreationSession) error
	// PendingSessions lists unexpired sessions stuck in a busy stage,
	// for recovery diagnostics after a restart.
	PendingSessions(ctx context.Context) ([]*entity.CreationSession, error)
	History(ctx context.Context, userId string, limit int) ([]*entity.CreationSession, error)
	// CleanupExpired removes every session past its expiry and returns
	// how many rows went away.
	CleanupExpired(ctx context.Context) (int64, error)
	// StartCleanupLoop sweeps expired sessions on the interval until the
	// context is cancelled.
	StartCleanupLoop(ctx context.Context, interval time.Duration)
}

type sessionService struct {
	sessionRepo contract.CreationSessionRepository
	ttl         time.Duration
	logger      logger.ILogger
}

func NewSessionService(
	sessionRepo contract.CreationSessionRepository,
	ttl time.Duration,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		ttl:         ttl,
		logger:      log,
	}
}

func (s *sessionService) GetOrCreate(ctx context.Context, userId string) (*entity.CreationSession, error) {
	now := time.Now()

	existing, err := s.sessionRepo.FindOne(ctx,
		specification.OwnedBy{UserID: userId},
		specification.NonTerminal{},
		specification.NotExpired{Now: now},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	session := &entity.CreationSession{
		Id:        uuid.New(),
		UserId:    userId,
		Stage:     workflow.StageIdle,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("session", "Created new session", map[string]interface{}{
		"session_id": session.Id.String(),
		"user_id":    userId,
	})
	return session, nil
}

func (s *sessionService) GetById(ctx context.Context, id uuid.UUID) (*entity.CreationSession, error) {
	return s.sessionRepo.FindOne(ctx, specification.ByID{ID: id})
}

func (s *sessionService) Update(ctx context.Context, session *entity.CreationSession) error {
	session.UpdatedAt = time.Now()
	return s.sessionRepo.Update(ctx, session)
}

func (s *sessionService) Reset(ctx context.Context, session *entity.CreationSession) error {
	session.ClearWork()
	return s.Update(ctx, session)
}

// pendingStages are the stages where a session waits on a worker; only
// these matter when checking what a restart may have orphaned.
var pendingStages = []workflow.Stage{
	workflow.StageGeneratingOutlines,
	workflow.StageWriting,
	workflow.StageReviewing,
	workflow.StageOptimizing,
}

const defaultHistoryLimit = 10

func (s *sessionService) PendingSessions(ctx context.Context) ([]*entity.CreationSession, error) {
	return s.sessionRepo.FindAll(ctx,
		specification.InStages{Stages: pendingStages},
		specification.NotExpired{Now: time.Now()},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
}

func (s *sessionService) History(ctx context.Context, userId string, limit int) ([]*entity.CreationSession, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.sessionRepo.FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
}

func (s *sessionService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteWhere(ctx, specification.Expired{Now: time.Now()})
}

func (s *sessionService) StartCleanupLoop(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.CleanupExpired(ctx)
				if err != nil {
					s.logger.Error("session", "Expiry sweep failed", map[string]interface{}{"error": err.Error()})
					continue
				}
				if removed > 0 {
					s.logger.Info("session", "Expiry sweep removed sessions", map[string]interface{}{"count": removed})
				}
			}
		}
	}()
}
