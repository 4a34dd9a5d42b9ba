package service

import (
	"context"
	"sync"
	"time"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/workflow"
	"creation-workshop-be/pkg/events"
	"creation-workshop-be/pkg/intent"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{}) {}
func (nopLogger) Warn(module, message string, details map[string]interface{}) {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error {
	return nil
}

// fakeSessions is an in-memory ISessionService for coordinator tests.
type fakeSessions struct {
	mu     sync.Mutex
	byId   map[uuid.UUID]*entity.CreationSession
	byUser map[string]uuid.UUID
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		byId:   make(map[uuid.UUID]*entity.CreationSession),
		byUser: make(map[string]uuid.UUID),
	}
}

func (f *fakeSessions) GetOrCreate(ctx context.Context, userId string) (*entity.CreationSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byUser[userId]; ok {
		if s := f.byId[id]; s != nil && !s.Stage.IsTerminal() {
			return s, nil
		}
	}
	now := time.Now()
	s := &entity.CreationSession{
		Id:        uuid.New(),
		UserId:    userId,
		Stage:     workflow.StageIdle,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(2 * time.Hour),
	}
	f.byId[s.Id] = s
	f.byUser[userId] = s.Id
	return s, nil
}

func (f *fakeSessions) GetById(ctx context.Context, id uuid.UUID) (*entity.CreationSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byId[id], nil
}

func (f *fakeSessions) Update(ctx context.Context, session *entity.CreationSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session.UpdatedAt = time.Now()
	f.byId[session.Id] = session
	return nil
}

func (f *fakeSessions) Reset(ctx context.Context, session *entity.CreationSession) error {
	session.ClearWork()
	return f.Update(ctx, session)
}

func (f *fakeSessions) PendingSessions(ctx context.Context) ([]*entity.CreationSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.CreationSession
	for _, s := range f.byId {
		if !s.Stage.IsTerminal() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessions) History(ctx context.Context, userId string, limit int) ([]*entity.CreationSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.CreationSession
	for _, s := range f.byId {
		if s.UserId == userId {
			out = append(out, s)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSessions) CleanupExpired(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeSessions) StartCleanupLoop(ctx context.Context, interval time.Duration) {}

// capturePublisher records emitted work requests.
type capturePublisher struct {
	mu       sync.Mutex
	payloads []events.Payload
}

func (p *capturePublisher) Publish(ctx context.Context, payload events.Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturePublisher) last() events.Payload {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.payloads) == 0 {
		return nil
	}
	return p.payloads[len(p.payloads)-1]
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

// capturePoster records chat replies.
type capturePoster struct {
	mu    sync.Mutex
	posts []string
}

func (p *capturePoster) Post(ctx context.Context, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, text)
	return nil
}

func (p *capturePoster) last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.posts) == 0 {
		return ""
	}
	return p.posts[len(p.posts)-1]
}

func (p *capturePoster) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.posts)
}

// stubClassifier returns canned results in order.
type stubClassifier struct {
	mu      sync.Mutex
	results []intent.Result
	err     error
}

func (s *stubClassifier) Classify(ctx context.Context, text string, stage workflow.Stage, sctx intent.Context) (intent.Result, error) {
	if s.err != nil {
		return intent.Result{}, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.results) == 0 {
		return intent.Unknown("stub exhausted"), nil
	}
	res := s.results[0]
	s.results = s.results[1:]
	return res, nil
}
