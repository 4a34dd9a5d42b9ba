package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"creation-workshop-be/internal/repository/memory"
	"creation-workshop-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestAggregator(joinTimeout time.Duration) IAggregatorService {
	return NewAggregatorService(memory.NewReviewStateRepository(time.Hour), joinTimeout, 5, nopLogger{})
}

func reviewEvent(id uuid.UUID, kind string, score float64, suggestions ...string) *events.ReviewCompleted {
	return &events.ReviewCompleted{
		SessionId:    id,
		ReviewType:   kind,
		OverallScore: score,
		Verdict:      kind + " verdict",
		Suggestions:  suggestions,
		FullReview:   json.RawMessage(`{"kind":"` + kind + `"}`),
	}
}

func TestAggregatorCompletesAtThreeKinds(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(0)
	id := uuid.New()

	out, err := agg.Record(ctx, reviewEvent(id, "sensitive", 9, "tone it down"))
	assert.NoError(t, err)
	assert.Nil(t, out)

	out, err = agg.Record(ctx, reviewEvent(id, "public_opinion", 5, "add sources"))
	assert.NoError(t, err)
	assert.Nil(t, out)

	out, err = agg.Record(ctx, reviewEvent(id, "ai_flavor", 7))
	assert.NoError(t, err)
	if assert.NotNil(t, out) {
		assert.True(t, out.Complete)
		assert.InDelta(t, 7.0, out.AverageScore, 1e-9)
		assert.Len(t, out.Results, 3)
		assert.Equal(t, []string{"tone it down", "add sources"}, out.Suggestions)
		assert.Len(t, out.FullReviews, 3)
	}

	// The round is consumed; a stray late event starts a fresh one.
	out, err = agg.Record(ctx, reviewEvent(id, "sensitive", 1))
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestAggregatorStartRoundSeedsDraftTitle(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(0)
	id := uuid.New()

	assert.NoError(t, agg.StartRound(ctx, id, "City Birds"))

	// None of the reviewers echo the title back.
	_, err := agg.Record(ctx, reviewEvent(id, "sensitive", 9))
	assert.NoError(t, err)
	_, err = agg.Record(ctx, reviewEvent(id, "ai_flavor", 7))
	assert.NoError(t, err)
	out, err := agg.Record(ctx, reviewEvent(id, "public_opinion", 5))
	assert.NoError(t, err)
	if assert.NotNil(t, out) {
		assert.Equal(t, "City Birds", out.DraftTitle)
	}
}

func TestAggregatorStartRoundResetsStaleState(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(0)
	id := uuid.New()

	_, err := agg.Record(ctx, reviewEvent(id, "sensitive", 2, "stale suggestion"))
	assert.NoError(t, err)

	assert.NoError(t, agg.StartRound(ctx, id, "Fresh Draft"))

	_, err = agg.Record(ctx, reviewEvent(id, "sensitive", 9))
	assert.NoError(t, err)
	_, err = agg.Record(ctx, reviewEvent(id, "ai_flavor", 7))
	assert.NoError(t, err)
	out, err := agg.Record(ctx, reviewEvent(id, "public_opinion", 5))
	assert.NoError(t, err)
	if assert.NotNil(t, out) {
		assert.InDelta(t, 7.0, out.AverageScore, 1e-9)
		assert.Empty(t, out.Suggestions, "stale round must not leak into the new one")
	}
}

func TestAggregatorOrderIndependent(t *testing.T) {
	ctx := context.Background()
	orders := [][]string{
		{"sensitive", "ai_flavor", "public_opinion"},
		{"public_opinion", "sensitive", "ai_flavor"},
		{"ai_flavor", "public_opinion", "sensitive"},
	}
	for _, order := range orders {
		agg := newTestAggregator(0)
		id := uuid.New()
		var out *ReviewOutcome
		var err error
		for _, kind := range order {
			out, err = agg.Record(ctx, reviewEvent(id, kind, 6))
			assert.NoError(t, err)
		}
		if assert.NotNil(t, out, "order %v", order) {
			assert.True(t, out.Complete)
			assert.InDelta(t, 6.0, out.AverageScore, 1e-9)
		}
	}
}

func TestAggregatorDuplicateKindDoesNotComplete(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(0)
	id := uuid.New()

	for i := 0; i < 3; i++ {
		out, err := agg.Record(ctx, reviewEvent(id, "sensitive", float64(i+1)))
		assert.NoError(t, err)
		assert.Nil(t, out, "duplicate kinds must not satisfy the join")
	}
}

func TestAggregatorZeroScoresExcludedFromAverage(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(0)
	id := uuid.New()

	agg.Record(ctx, reviewEvent(id, "sensitive", 0))
	agg.Record(ctx, reviewEvent(id, "ai_flavor", 8))
	out, err := agg.Record(ctx, reviewEvent(id, "public_opinion", 4))
	assert.NoError(t, err)
	if assert.NotNil(t, out) {
		assert.InDelta(t, 6.0, out.AverageScore, 1e-9)
	}
}

func TestAggregatorSuggestionCap(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(0)
	id := uuid.New()

	agg.Record(ctx, reviewEvent(id, "sensitive", 5, "a", "b", "c"))
	agg.Record(ctx, reviewEvent(id, "ai_flavor", 5, "d", "e", "f"))
	out, err := agg.Record(ctx, reviewEvent(id, "public_opinion", 5, "g"))
	assert.NoError(t, err)
	if assert.NotNil(t, out) {
		assert.Len(t, out.Suggestions, 5)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, out.Suggestions)
	}
}

func TestAggregatorDiscard(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(0)
	id := uuid.New()

	agg.Record(ctx, reviewEvent(id, "sensitive", 5))
	assert.NoError(t, agg.Discard(ctx, id))

	out, err := agg.Settle(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, out, "discarded round must not settle")
}

func TestAggregatorJoinTimeoutSettlesPartial(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(30 * time.Millisecond)
	id := uuid.New()

	var mu sync.Mutex
	var fired []uuid.UUID
	done := make(chan struct{})
	agg.SetTimeoutHandler(func(sessionID uuid.UUID) {
		mu.Lock()
		fired = append(fired, sessionID)
		mu.Unlock()
		close(done)
	})

	out, err := agg.Record(ctx, reviewEvent(id, "sensitive", 9, "s1"))
	assert.NoError(t, err)
	assert.Nil(t, out)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout handler never fired")
	}

	mu.Lock()
	assert.Equal(t, []uuid.UUID{id}, fired)
	mu.Unlock()

	out, err = agg.Settle(ctx, id)
	assert.NoError(t, err)
	if assert.NotNil(t, out) {
		assert.False(t, out.Complete)
		assert.InDelta(t, 9.0, out.AverageScore, 1e-9)
		assert.Equal(t, []string{"s1"}, out.Suggestions)
	}
}

func TestAggregatorCompletionStopsTimer(t *testing.T) {
	ctx := context.Background()
	agg := newTestAggregator(40 * time.Millisecond)
	id := uuid.New()

	fired := make(chan uuid.UUID, 1)
	agg.SetTimeoutHandler(func(sessionID uuid.UUID) { fired <- sessionID })

	agg.Record(ctx, reviewEvent(id, "sensitive", 5))
	agg.Record(ctx, reviewEvent(id, "ai_flavor", 5))
	out, err := agg.Record(ctx, reviewEvent(id, "public_opinion", 5))
	assert.NoError(t, err)
	assert.NotNil(t, out)

	select {
	case <-fired:
		t.Fatal("timer must be stopped once the join completes")
	case <-time.After(120 * time.Millisecond):
	}
}
