package service

import (
	"context"
	"fmt"
	"strings"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/pkg/keyedmutex"
	"creation-workshop-be/internal/pkg/logger"
	"creation-workshop-be/internal/workflow"
	"creation-workshop-be/pkg/chat"
	"creation-workshop-be/pkg/events"
	"creation-workshop-be/pkg/intent"

	"github.com/google/uuid"
)

// WorkPublisher emits work requests to the generation workers.
type WorkPublisher interface {
	Publish(ctx context.Context, payload events.Payload) error
}

type ICoordinatorService interface {
	// HandleChatMessage drives the user-intent side of the workflow.
	HandleChatMessage(ctx context.Context, msg chat.Message) error
	// HandleWorkerEvent drives the data-arrival side of the workflow.
	HandleWorkerEvent(ctx context.Context, payload events.Payload) error
}

type coordinatorService struct {
	sessions   ISessionService
	aggregator IAggregatorService
	classifier intent.Classifier
	publisher  WorkPublisher
	poster     chat.Poster
	locks      *keyedmutex.KeyedMutex
	logger     logger.ILogger

	channel          string
	workerSources    map[string]bool
	reviewerMentions []string
}

func NewCoordinatorService(
	sessions ISessionService,
	aggregator IAggregatorService,
	classifier intent.Classifier,
	publisher WorkPublisher,
	poster chat.Poster,
	log logger.ILogger,
	channel string,
	workerSources []string,
	reviewerMentions []string,
) ICoordinatorService {
	sources := map[string]bool{chat.CoordinatorSource: true}
	for _, s := range workerSources {
		sources[s] = true
	}
	c := &coordinatorService{
		sessions:         sessions,
		aggregator:       aggregator,
		classifier:       classifier,
		publisher:        publisher,
		poster:           poster,
		locks:            keyedmutex.New(),
		logger:           log,
		channel:          channel,
		workerSources:    sources,
		reviewerMentions: reviewerMentions,
	}
	aggregator.SetTimeoutHandler(c.handleReviewTimeout)
	return c
}

func userKey(userId string) string   { return "user:" + userId }
func sessionKey(id uuid.UUID) string { return "session:" + id.String() }

// HandleChatMessage classifies one user message and applies the
// resulting workflow decision. Lock order is user then session; worker
// events take only the session lock, so the two sides serialize on the
// same session without deadlocking.
func (c *coordinatorService) HandleChatMessage(ctx context.Context, msg chat.Message) (err error) {
	if msg.Channel != c.channel {
		return nil
	}
	if c.workerSources[msg.SourceId] {
		return nil
	}
	if c.mentionsReviewer(msg.Text) {
		// Direct reviewer mentions are the reviewer's own conversation,
		// not workflow input.
		return nil
	}

	defer c.recoverToChat(ctx, "chat message", &err)

	c.locks.Lock(userKey(msg.SourceId))
	defer c.locks.Unlock(userKey(msg.SourceId))

	session, err := c.sessions.GetOrCreate(ctx, msg.SourceId)
	if err != nil {
		return fmt.Errorf("load session for user %s: %w", msg.SourceId, err)
	}

	c.locks.Lock(sessionKey(session.Id))
	defer c.locks.Unlock(sessionKey(session.Id))

	if !session.Stage.IsValid() {
		c.logger.Error("coordinator", "Session has an unknown stage, forcing reset", map[string]interface{}{
			"session_id": session.Id.String(),
			"stage":      string(session.Stage),
		})
		if err := c.sessions.Reset(ctx, session); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyForcedReset())
	}

	res := c.classify(ctx, msg.Text, session)

	decision := workflow.Resolve(session.Stage, res.Intent, res.Fields.Number(1), len(session.OutlineIds))
	c.logger.Debug("coordinator", "Resolved intent", map[string]interface{}{
		"session_id": session.Id.String(),
		"stage":      string(session.Stage),
		"intent":     string(res.Intent),
		"action":     string(decision.Action),
		"confidence": res.Confidence,
	})

	return c.applyDecision(ctx, session, msg, res, decision)
}

func (c *coordinatorService) classify(ctx context.Context, text string, session *entity.CreationSession) intent.Result {
	res, err := c.classifier.Classify(ctx, text, session.Stage, intent.Context{
		Topic:        session.Topic,
		OutlineCount: len(session.OutlineIds),
	})
	if err != nil {
		c.logger.Warn("coordinator", "Classifier failed, treating as unknown", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
		return intent.Unknown("classifier unavailable")
	}
	return res
}

func (c *coordinatorService) applyDecision(
	ctx context.Context,
	session *entity.CreationSession,
	msg chat.Message,
	res intent.Result,
	decision workflow.Decision,
) error {
	switch decision.Action {
	case workflow.ActionReset:
		if err := c.aggregator.Discard(ctx, session.Id); err != nil {
			c.logger.Warn("coordinator", "Discarding review state failed", map[string]interface{}{
				"session_id": session.Id.String(), "error": err.Error(),
			})
		}
		if err := c.sessions.Reset(ctx, session); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyReset())

	case workflow.ActionSearchMaterials:
		topic := res.Fields.Text("topic", strings.TrimSpace(msg.Text))
		return c.startSearch(ctx, session, topic, replySearchStarted(topic))

	case workflow.ActionImplicitRestart:
		if err := c.aggregator.Discard(ctx, session.Id); err != nil {
			c.logger.Warn("coordinator", "Discarding review state failed", map[string]interface{}{
				"session_id": session.Id.String(), "error": err.Error(),
			})
		}
		session.ClearWork()
		topic := res.Fields.Text("topic", strings.TrimSpace(msg.Text))
		return c.startSearch(ctx, session, topic, replyImplicitRestart(topic))

	case workflow.ActionBusyNotice:
		return c.poster.Post(ctx, replyBusy(session))

	case workflow.ActionConfirmMaterials:
		session.ConfirmedMaterialIds = append([]string(nil), session.MaterialIds...)
		return c.startOutlines(ctx, session, true)

	case workflow.ActionDeclineMaterials:
		session.ConfirmedMaterialIds = nil
		return c.startOutlines(ctx, session, false)

	case workflow.ActionSelectOutline:
		session.SelectedOutlineId = session.OutlineIds[decision.Selection-1]
		session.Stage = decision.Next
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyOutlineSelected(decision.Selection))

	case workflow.ActionSelectionOutOfRange:
		return c.poster.Post(ctx, replySelectionOutOfRange(len(session.OutlineIds)))

	case workflow.ActionEnterEditing:
		session.SelectedOutlineId = session.OutlineIds[decision.Selection-1]
		session.Stage = decision.Next
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyEnterEditing(decision.Selection))

	case workflow.ActionEmitModify:
		instruction := res.Fields.Text("instruction", strings.TrimSpace(msg.Text))
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		if err := c.publisher.Publish(ctx, &events.ModifyOutline{
			SessionId:    session.Id,
			OutlineId:    session.SelectedOutlineId,
			Modification: instruction,
		}); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyModifyRequested())

	case workflow.ActionFinishEditing:
		session.Stage = decision.Next
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyFinishEditing())

	case workflow.ActionStartWriting:
		session.WritingMode = res.Fields.Text("writing_mode", entity.WritingModeAuto)
		session.Stage = decision.Next
		session.CurrentSectionIndex = 0
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		if err := c.publisher.Publish(ctx, &events.StartWriting{
			SessionId:   session.Id,
			OutlineId:   session.SelectedOutlineId,
			Topic:       session.Topic,
			WritingMode: session.WritingMode,
		}); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyStartWriting())

	case workflow.ActionReselect:
		session.Stage = decision.Next
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyReselect())

	case workflow.ActionContinueWriting:
		session.Stage = decision.Next
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		if err := c.publisher.Publish(ctx, &events.ContinueWriting{
			SessionId:    session.Id,
			SectionIndex: session.CurrentSectionIndex + 1,
		}); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyContinueWriting(session.CurrentSectionIndex+1))

	case workflow.ActionRewriteSection:
		instruction := res.Fields.Text("instruction", strings.TrimSpace(msg.Text))
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		if err := c.publisher.Publish(ctx, &events.RewriteSection{
			SessionId:    session.Id,
			SectionIndex: session.CurrentSectionIndex,
			Instruction:  instruction,
		}); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyRewriteRequested())

	case workflow.ActionStopWriting:
		session.Stage = decision.Next
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyStopped())

	case workflow.ActionOptimize:
		session.OptimizationCount++
		session.Stage = decision.Next
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		if err := c.publisher.Publish(ctx, &events.OptimizeDraft{
			SessionId:   session.Id,
			DraftId:     session.DraftId,
			Suggestions: session.ReviewSuggestions,
		}); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyOptimizeStarted(session.OptimizationCount))

	case workflow.ActionFinishCreation:
		session.Stage = decision.Next
		if err := c.sessions.Update(ctx, session); err != nil {
			return err
		}
		return c.poster.Post(ctx, replyFinished(session))

	case workflow.ActionDetailReport:
		if len(session.FullReviews) == 0 {
			return c.poster.Post(ctx, replyNoDetailReport())
		}
		for _, kind := range events.ReviewKinds {
			raw, ok := session.FullReviews[kind]
			if !ok {
				continue
			}
			if err := c.poster.Post(ctx, replyDetailReportSection(kind, raw)); err != nil {
				return err
			}
		}
		return c.poster.Post(ctx, replyDetailReportPrompt())

	default:
		return c.poster.Post(ctx, replyReprompt(session.Stage))
	}
}

func (c *coordinatorService) startSearch(ctx context.Context, session *entity.CreationSession, topic, reply string) error {
	session.Topic = topic
	session.Stage = workflow.StageConfirmingMaterials
	if err := c.sessions.Update(ctx, session); err != nil {
		return err
	}
	if err := c.publisher.Publish(ctx, &events.SearchMaterials{
		SessionId: session.Id,
		UserId:    session.UserId,
		Topic:     topic,
	}); err != nil {
		return err
	}
	return c.poster.Post(ctx, reply)
}

func (c *coordinatorService) startOutlines(ctx context.Context, session *entity.CreationSession, withMaterials bool) error {
	session.Stage = workflow.StageGeneratingOutlines
	if err := c.sessions.Update(ctx, session); err != nil {
		return err
	}
	if err := c.publisher.Publish(ctx, &events.RequestOutlines{
		SessionId:   session.Id,
		UserId:      session.UserId,
		Topic:       session.Topic,
		MaterialIds: session.ConfirmedMaterialIds,
	}); err != nil {
		return err
	}
	return c.poster.Post(ctx, replyGeneratingOutlines(withMaterials))
}

func (c *coordinatorService) mentionsReviewer(text string) bool {
	lowered := strings.ToLower(text)
	for _, m := range c.reviewerMentions {
		if m != "" && strings.Contains(lowered, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// recoverToChat converts a handler panic into a logged error plus a
// short failure notice in the channel. The orchestrator loop must
// survive any single bad event.
func (c *coordinatorService) recoverToChat(ctx context.Context, scope string, err *error) {
	if r := recover(); r != nil {
		c.logger.Error("coordinator", "Recovered from panic", map[string]interface{}{
			"scope": scope,
			"panic": fmt.Sprint(r),
		})
		_ = c.poster.Post(ctx, replyInternalError())
		*err = fmt.Errorf("panic while handling %s: %v", scope, r)
	}
}
