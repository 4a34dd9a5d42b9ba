package service

import (
	"context"
	"fmt"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/workflow"
	"creation-workshop-be/pkg/events"

	"github.com/google/uuid"
)

// HandleWorkerEvent applies one worker-completion event. These are pure
// data-arrival transitions: no intent classification, each handler
// guards on the stage it expects so a late or duplicate event is logged
// and dropped instead of corrupting the session.
func (c *coordinatorService) HandleWorkerEvent(ctx context.Context, payload events.Payload) (err error) {
	defer c.recoverToChat(ctx, "worker event", &err)

	switch ev := payload.(type) {
	case *events.MaterialsFound:
		return c.withSession(ctx, ev.SessionId, ev.EventKind(), func(session *entity.CreationSession) error {
			return c.onMaterialsFound(ctx, session, ev)
		})
	case *events.OutlinesReady:
		return c.withSession(ctx, ev.SessionId, ev.EventKind(), func(session *entity.CreationSession) error {
			return c.onOutlinesReady(ctx, session, ev)
		})
	case *events.OutlineModified:
		return c.withSession(ctx, ev.SessionId, ev.EventKind(), func(session *entity.CreationSession) error {
			return c.onOutlineModified(ctx, session, ev)
		})
	case *events.WritingProgress:
		return c.withSession(ctx, ev.SessionId, ev.EventKind(), func(session *entity.CreationSession) error {
			return c.onWritingProgress(ctx, session, ev)
		})
	case *events.DraftReady:
		return c.withSession(ctx, ev.SessionId, ev.EventKind(), func(session *entity.CreationSession) error {
			return c.onDraftReady(ctx, session, ev)
		})
	case *events.ReviewCompleted:
		return c.onReviewCompleted(ctx, ev)
	case *events.OptimizationDone:
		return c.withSession(ctx, ev.SessionId, ev.EventKind(), func(session *entity.CreationSession) error {
			return c.onOptimizationDone(ctx, session, ev)
		})
	case *events.WorkerFailed:
		return c.withSession(ctx, ev.SessionId, ev.EventKind(), func(session *entity.CreationSession) error {
			return c.onWorkerFailed(ctx, session, ev)
		})
	default:
		c.logger.Warn("coordinator", "Unhandled worker event kind", map[string]interface{}{
			"kind": payload.EventKind(),
		})
		return nil
	}
}

// withSession serializes on the session lock, loads the row and runs fn.
// A missing session is logged and dropped per the worker-event contract.
func (c *coordinatorService) withSession(ctx context.Context, id uuid.UUID, kind string, fn func(*entity.CreationSession) error) error {
	c.locks.Lock(sessionKey(id))
	defer c.locks.Unlock(sessionKey(id))

	session, err := c.sessions.GetById(ctx, id)
	if err != nil {
		return fmt.Errorf("load session %s for %s: %w", id, kind, err)
	}
	if session == nil {
		c.logger.Warn("coordinator", "Worker event for unknown session, dropping", map[string]interface{}{
			"session_id": id.String(),
			"kind":       kind,
		})
		return nil
	}
	return fn(session)
}

func (c *coordinatorService) dropOutOfStage(session *entity.CreationSession, kind string) error {
	c.logger.Warn("coordinator", "Worker event out of stage, dropping", map[string]interface{}{
		"session_id": session.Id.String(),
		"stage":      string(session.Stage),
		"kind":       kind,
	})
	return nil
}

func (c *coordinatorService) onMaterialsFound(ctx context.Context, session *entity.CreationSession, ev *events.MaterialsFound) error {
	if session.Stage != workflow.StageConfirmingMaterials {
		return c.dropOutOfStage(session, ev.EventKind())
	}

	if len(ev.Materials) == 0 {
		// Nothing to confirm; go straight to outline generation.
		session.MaterialIds = nil
		session.ConfirmedMaterialIds = nil
		session.Stage = workflow.StageGeneratingOutlines
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		if err := c.publisher.Publish(ctx, &events.RequestOutlines{
			SessionId: session.Id,
			UserId:    session.UserId,
			Topic:     session.Topic,
		}); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyNoMaterials())
	}

	ids := make([]string, 0, len(ev.Materials))
	for _, m := range ev.Materials {
		ids = append(ids, m.Id)
	}
	session.MaterialIds = ids
	if err := c.sessions.Update(ctx, session); err != nil {
		return err
	}
	return c.poster.Post(ctx, replyMaterialsFound(ev.Materials))
}

func (c *coordinatorService) onOutlinesReady(ctx context.Context, session *entity.CreationSession, ev *events.OutlinesReady) error {
	if session.Stage != workflow.StageGeneratingOutlines {
		return c.dropOutOfStage(session, ev.EventKind())
	}

	session.OutlineIds = ev.OutlineIds
	session.SelectedOutlineId = ""
	session.Stage = workflow.StageWaitingSelection
	if err := c.sessions.Update(ctx, session); err != nil {
		return err
	}
	return c.poster.Post(ctx, replyOutlinesReady(len(ev.OutlineIds)))
}

func (c *coordinatorService) onOutlineModified(ctx context.Context, session *entity.CreationSession, ev *events.OutlineModified) error {
	if session.Stage != workflow.StageEditingOutline {
		return c.dropOutOfStage(session, ev.EventKind())
	}

	if session.OriginalOutline == nil {
		session.OriginalOutline = session.SelectedOutline
	}
	if ev.OutlineId != "" {
		session.SelectedOutlineId = ev.OutlineId
	}
	session.SelectedOutline = ev.Outline
	if err := c.sessions.Update(ctx, session); err != nil {
		return err
	}
	return c.poster.Post(ctx, replyOutlineModified())
}

func (c *coordinatorService) onWritingProgress(ctx context.Context, session *entity.CreationSession, ev *events.WritingProgress) error {
	if session.Stage != workflow.StageWriting {
		return c.dropOutOfStage(session, ev.EventKind())
	}

	session.CurrentSectionIndex = ev.SectionIndex
	session.TotalSections = ev.TotalSections

	// Step-by-step mode pauses after every finished section except the
	// last; the draft-ready event closes out the final one.
	paused := ev.Status == events.WritingStatusCompleted &&
		session.WritingMode == entity.WritingModeStepByStep &&
		ev.SectionIndex < ev.TotalSections
	if paused {
		session.Stage = workflow.StagePausedWriting
	}
	if err := c.sessions.Update(ctx, session); err != nil {
		return err
	}
	if paused {
		return c.poster.Post(ctx, replyPaused(ev))
	}
	return c.poster.Post(ctx, replyWritingProgress(ev))
}

func (c *coordinatorService) onDraftReady(ctx context.Context, session *entity.CreationSession, ev *events.DraftReady) error {
	if session.Stage != workflow.StageWriting {
		return c.dropOutOfStage(session, ev.EventKind())
	}

	session.DraftId = ev.DraftId
	session.Stage = workflow.StageReviewing
	if err := c.sessions.Update(ctx, session); err != nil {
		return err
	}
	if err := c.aggregator.StartRound(ctx, session.Id, ev.Draft.Title); err != nil {
		return err
	}
	return c.poster.Post(ctx, replyDraftReady(ev.Draft))
}

// onReviewCompleted records the verdict unconditionally (reviewers may
// race ahead of the draft-ready transition) and settles the session
// only when the join completes while the session is still reviewing.
func (c *coordinatorService) onReviewCompleted(ctx context.Context, ev *events.ReviewCompleted) error {
	c.locks.Lock(sessionKey(ev.SessionId))
	defer c.locks.Unlock(sessionKey(ev.SessionId))

	outcome, err := c.aggregator.Record(ctx, ev)
	if err != nil {
		return fmt.Errorf("record review for session %s: %w", ev.SessionId, err)
	}
	if outcome == nil {
		c.logger.Info("coordinator", "Review recorded, waiting for remaining reviewers", map[string]interface{}{
			"session_id":  ev.SessionId.String(),
			"review_type": ev.ReviewType,
		})
		return nil
	}
	return c.settleReviews(ctx, ev.SessionId, outcome)
}

func (c *coordinatorService) settleReviews(ctx context.Context, sessionID uuid.UUID, outcome *ReviewOutcome) error {
	session, err := c.sessions.GetById(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session %s for review settle: %w", sessionID, err)
	}
	if session == nil {
		c.logger.Warn("coordinator", "Review round settled for unknown session, dropping", map[string]interface{}{
			"session_id": sessionID.String(),
		})
		return nil
	}
	if session.Stage != workflow.StageReviewing {
		return c.dropOutOfStage(session, events.KindReviewCompleted)
	}

	session.ReviewResults = outcome.Results
	session.AverageScore = outcome.AverageScore
	session.ReviewSuggestions = outcome.Suggestions
	session.FullReviews = outcome.FullReviews
	session.Stage = workflow.StageWaitingOptimization
	if err := c.sessions.Update(ctx, session); err != nil {
		return err
	}
	return c.poster.Post(ctx, replyReviewSummary(outcome, session.OptimizationCount))
}

// handleReviewTimeout runs off the aggregator's join timer. It closes
// the round with whatever arrived so a silent reviewer cannot stall the
// session forever.
func (c *coordinatorService) handleReviewTimeout(sessionID uuid.UUID) {
	ctx := context.Background()

	c.locks.Lock(sessionKey(sessionID))
	defer c.locks.Unlock(sessionKey(sessionID))

	outcome, err := c.aggregator.Settle(ctx, sessionID)
	if err != nil {
		c.logger.Error("coordinator", "Settling timed-out review round failed", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
		return
	}
	if outcome == nil {
		return
	}
	if err := c.settleReviews(ctx, sessionID, outcome); err != nil {
		c.logger.Error("coordinator", "Applying timed-out review round failed", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}
}

// The optimized draft closes the session out; the review scores already
// guided the revision and another round would need a fresh topic.
func (c *coordinatorService) onOptimizationDone(ctx context.Context, session *entity.CreationSession, ev *events.OptimizationDone) error {
	if session.Stage != workflow.StageOptimizing {
		return c.dropOutOfStage(session, ev.EventKind())
	}

	session.Stage = workflow.StageCompleted
	if err := c.sessions.Update(ctx, session); err != nil {
		return err
	}
	return c.poster.Post(ctx, replyOptimizationDone(ev.Improvements))
}

// onWorkerFailed rolls the session back to the last interactive stage
// for the failed request so the user can retry or cancel instead of
// being stuck in a busy stage that will never hear a completion.
func (c *coordinatorService) onWorkerFailed(ctx context.Context, session *entity.CreationSession, ev *events.WorkerFailed) error {
	if fr, ok := failureRevert[ev.RequestKind]; ok && session.Stage == fr.awaiting {
		session.Stage = fr.revertTo
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
	}
	c.logger.Error("coordinator", "Worker reported failure", map[string]interface{}{
		"session_id":   session.Id.String(),
		"request_kind": ev.RequestKind,
		"reason":       ev.Reason,
	})
	return c.poster.Post(ctx, replyWorkerFailed(ev.Reason))
}

// failureRevert maps a failed request kind to the stage that was
// awaiting it and the interactive stage to fall back to. Kinds absent
// here (modify_outline, rewrite_section) already leave the session in an
// interactive stage.
var failureRevert = map[string]struct {
	awaiting workflow.Stage
	revertTo workflow.Stage
}{
	events.KindSearchMaterials: {workflow.StageConfirmingMaterials, workflow.StageIdle},
	events.KindRequestOutlines: {workflow.StageGeneratingOutlines, workflow.StageConfirmingMaterials},
	events.KindStartWriting:    {workflow.StageWriting, workflow.StageConfirmingStart},
	events.KindContinueWriting: {workflow.StageWriting, workflow.StagePausedWriting},
	events.KindOptimizeDraft:   {workflow.StageOptimizing, workflow.StageWaitingOptimization},
}
