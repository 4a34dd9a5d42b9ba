package service

import (
	"context"
	"testing"
	"time"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/repository/specification"
	"creation-workshop-be/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessionRepo records the specifications each query was built from
// so tests can assert what the service asked the store for.
type fakeSessionRepo struct {
	rows         map[uuid.UUID]*entity.CreationSession
	findAllSpecs []specification.Specification
	findOneSpecs []specification.Specification
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: make(map[uuid.UUID]*entity.CreationSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.CreationSession) error {
	r.rows[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.CreationSession) error {
	r.rows[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *fakeSessionRepo) DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreationSession, error) {
	r.findOneSpecs = specs
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreationSession, error) {
	r.findAllSpecs = specs
	return nil, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func TestUpdateKeepsExpiryDeadline(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, 2*time.Hour, nopLogger{})

	session, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	deadline := session.ExpiresAt

	session.Stage = workflow.StageWriting
	require.NoError(t, svc.Update(ctx, session))

	assert.Equal(t, deadline, session.ExpiresAt, "expiry is fixed at creation")
	assert.False(t, session.UpdatedAt.Before(session.CreatedAt))
}

func TestPendingSessionsQueriesBusyStagesOnly(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, 2*time.Hour, nopLogger{})

	_, err := svc.PendingSessions(context.Background())
	require.NoError(t, err)

	var inStages *specification.InStages
	var notExpired bool
	for _, spec := range repo.findAllSpecs {
		switch s := spec.(type) {
		case specification.InStages:
			inStages = &s
		case specification.NotExpired:
			notExpired = true
		}
	}
	require.NotNil(t, inStages, "pending listing must filter by stage")
	assert.ElementsMatch(t, []workflow.Stage{
		workflow.StageGeneratingOutlines,
		workflow.StageWriting,
		workflow.StageReviewing,
		workflow.StageOptimizing,
	}, inStages.Stages)
	assert.True(t, notExpired, "pending listing must exclude expired sessions")
}

func TestHistoryLimitsAndOrdersByActivity(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, 2*time.Hour, nopLogger{})

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "explicit limit", limit: 3, wantLimit: 3},
		{name: "zero limit falls back to default", limit: 0, wantLimit: 10},
		{name: "negative limit falls back to default", limit: -5, wantLimit: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.History(context.Background(), "user-1", tt.limit)
			require.NoError(t, err)

			var page *specification.Pagination
			var order *specification.OrderBy
			for _, spec := range repo.findAllSpecs {
				switch s := spec.(type) {
				case specification.Pagination:
					page = &s
				case specification.OrderBy:
					order = &s
				}
			}
			require.NotNil(t, page, "history must be bounded")
			assert.Equal(t, tt.wantLimit, page.Limit)
			require.NotNil(t, order)
			assert.Equal(t, "updated_at", order.Field)
			assert.True(t, order.Desc)
		})
	}
}
