package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/pkg/logger"
	"creation-workshop-be/internal/repository/contract"
	"creation-workshop-be/pkg/events"

	"github.com/google/uuid"
)

// ReviewOutcome is the settled summary of one review round.
type ReviewOutcome struct {
	Complete     bool // all reviewer kinds reported
	Results      map[string]entity.ReviewResult
	AverageScore float64
	Suggestions  []string
	FullReviews  map[string]json.RawMessage
	DraftTitle   string
}

type IAggregatorService interface {
	// StartRound seeds an empty accumulator when the draft enters
	// review, so the draft title survives reviewers that omit it and
	// the join timer covers reviewers that never report at all.
	StartRound(ctx context.Context, sessionID uuid.UUID, draftTitle string) error
	// Record registers one reviewer's verdict. It returns a non-nil
	// outcome only when the round settles on this arrival.
	Record(ctx context.Context, ev *events.ReviewCompleted) (*ReviewOutcome, error)
	// Settle forces the round closed with whatever arrived, for the
	// join-timeout path. Returns nil when no round is in flight.
	Settle(ctx context.Context, sessionID uuid.UUID) (*ReviewOutcome, error)
	// Discard drops any in-flight round for the session.
	Discard(ctx context.Context, sessionID uuid.UUID) error
	// SetTimeoutHandler installs the callback invoked when a round's
	// join timeout elapses. Must be set before the first Record.
	SetTimeoutHandler(fn func(sessionID uuid.UUID))
}

type aggregatorService struct {
	stateRepo     contract.ReviewStateRepository
	joinTimeout   time.Duration // 0 waits indefinitely
	suggestionCap int
	logger        logger.ILogger

	mu        sync.Mutex
	timers    map[uuid.UUID]*time.Timer
	onTimeout func(sessionID uuid.UUID)
}

func NewAggregatorService(
	stateRepo contract.ReviewStateRepository,
	joinTimeout time.Duration,
	suggestionCap int,
	log logger.ILogger,
) IAggregatorService {
	return &aggregatorService{
		stateRepo:     stateRepo,
		joinTimeout:   joinTimeout,
		suggestionCap: suggestionCap,
		logger:        log,
		timers:        make(map[uuid.UUID]*time.Timer),
	}
}

func (a *aggregatorService) SetTimeoutHandler(fn func(sessionID uuid.UUID)) {
	a.mu.Lock()
	a.onTimeout = fn
	a.mu.Unlock()
}

func (a *aggregatorService) StartRound(ctx context.Context, sessionID uuid.UUID, draftTitle string) error {
	state, found, err := a.stateRepo.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if found {
		// A stale accumulator from a discarded round; reset it.
		a.logger.Warn("aggregator", "Review round restarted with reviews already recorded", map[string]interface{}{
			"session_id": sessionID.String(),
			"recorded":   state.DistinctKinds(),
		})
	}
	state = entity.NewReviewState(sessionID, draftTitle, time.Now())
	if err := a.stateRepo.Save(ctx, state); err != nil {
		return err
	}
	a.startTimer(sessionID)
	return nil
}

func (a *aggregatorService) Record(ctx context.Context, ev *events.ReviewCompleted) (*ReviewOutcome, error) {
	state, found, err := a.stateRepo.Get(ctx, ev.SessionId)
	if err != nil {
		return nil, err
	}
	if !found {
		state = entity.NewReviewState(ev.SessionId, ev.DraftTitle, time.Now())
		a.startTimer(ev.SessionId)
	}

	if _, dup := state.Results[ev.ReviewType]; dup {
		a.logger.Warn("aggregator", "Duplicate review kind, keeping latest", map[string]interface{}{
			"session_id":  ev.SessionId.String(),
			"review_type": ev.ReviewType,
		})
	}
	state.Record(ev.ReviewType, entity.ReviewResult{
		Score:   ev.OverallScore,
		Verdict: ev.Verdict,
	}, ev.Suggestions, ev.FullReview)
	if state.DraftTitle == "" {
		state.DraftTitle = ev.DraftTitle
	}

	if state.DistinctKinds() < len(events.ReviewKinds) {
		if err := a.stateRepo.Save(ctx, state); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return a.settleState(ctx, state, true)
}

func (a *aggregatorService) Settle(ctx context.Context, sessionID uuid.UUID) (*ReviewOutcome, error) {
	state, found, err := a.stateRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found || state.DistinctKinds() == 0 {
		return nil, nil
	}
	return a.settleState(ctx, state, state.DistinctKinds() >= len(events.ReviewKinds))
}

func (a *aggregatorService) settleState(ctx context.Context, state *entity.ReviewState, complete bool) (*ReviewOutcome, error) {
	a.stopTimer(state.SessionId)
	if err := a.stateRepo.Delete(ctx, state.SessionId); err != nil {
		return nil, err
	}

	suggestions := state.Suggestions
	if a.suggestionCap > 0 && len(suggestions) > a.suggestionCap {
		suggestions = suggestions[:a.suggestionCap]
	}

	return &ReviewOutcome{
		Complete:     complete,
		Results:      state.Results,
		AverageScore: state.AverageScore(),
		Suggestions:  suggestions,
		FullReviews:  state.FullReviews,
		DraftTitle:   state.DraftTitle,
	}, nil
}

func (a *aggregatorService) Discard(ctx context.Context, sessionID uuid.UUID) error {
	a.stopTimer(sessionID)
	return a.stateRepo.Delete(ctx, sessionID)
}

func (a *aggregatorService) startTimer(sessionID uuid.UUID) {
	if a.joinTimeout <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.timers[sessionID]; exists {
		return
	}
	a.timers[sessionID] = time.AfterFunc(a.joinTimeout, func() {
		a.mu.Lock()
		delete(a.timers, sessionID)
		fn := a.onTimeout
		a.mu.Unlock()

		a.logger.Warn("aggregator", "Review join timed out, settling partial round", map[string]interface{}{
			"session_id": sessionID.String(),
		})
		if fn != nil {
			fn(sessionID)
		}
	})
}

func (a *aggregatorService) stopTimer(sessionID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t, ok := a.timers[sessionID]; ok {
		t.Stop()
		delete(a.timers, sessionID)
	}
}
