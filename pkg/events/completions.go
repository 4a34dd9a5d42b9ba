package events

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MaterialsFound reports the material search result. An empty list is
// valid and skips the confirmation step.
type MaterialsFound struct {
	SessionId uuid.UUID  `json:"session_id"`
	Materials []Material `json:"materials"`
}

func (p *MaterialsFound) EventKind() string { return KindMaterialsFound }

func (p *MaterialsFound) Validate() error {
	return requireSession(p.SessionId)
}

// OutlinesReady delivers the generated outline candidates. OutlineIds
// order defines the option numbering presented to the user.
type OutlinesReady struct {
	SessionId  uuid.UUID         `json:"session_id"`
	OutlineIds []string          `json:"outline_ids"`
	Outlines   []json.RawMessage `json:"outlines"`
}

func (p *OutlinesReady) EventKind() string { return KindOutlinesReady }

func (p *OutlinesReady) Validate() error {
	if err := requireSession(p.SessionId); err != nil {
		return err
	}
	if len(p.OutlineIds) == 0 {
		return fmt.Errorf("outline_ids is required")
	}
	return nil
}

// OutlineModified returns the reworked outline after an edit
// instruction round-trips through the outline worker.
type OutlineModified struct {
	SessionId uuid.UUID       `json:"session_id"`
	OutlineId string          `json:"outline_id"`
	Outline   json.RawMessage `json:"outline"`
}

func (p *OutlineModified) EventKind() string { return KindOutlineModified }

func (p *OutlineModified) Validate() error {
	return requireSession(p.SessionId)
}

// WritingProgress is emitted as the writer starts and finishes each
// section.
type WritingProgress struct {
	SessionId     uuid.UUID `json:"session_id"`
	SectionIndex  int       `json:"section_index"`
	TotalSections int       `json:"total_sections"`
	SectionTitle  string    `json:"section_title"`
	Status        string    `json:"status"`
}

func (p *WritingProgress) EventKind() string { return KindWritingProgress }

func (p *WritingProgress) Validate() error {
	if err := requireSession(p.SessionId); err != nil {
		return err
	}
	if p.Status != WritingStatusStarted && p.Status != WritingStatusCompleted {
		return fmt.Errorf("status must be %q or %q", WritingStatusStarted, WritingStatusCompleted)
	}
	return nil
}

// DraftReady announces the finished first draft and triggers the
// review fan-out.
type DraftReady struct {
	SessionId uuid.UUID `json:"session_id"`
	DraftId   string    `json:"draft_id"`
	Draft     Draft     `json:"draft"`
}

func (p *DraftReady) EventKind() string { return KindDraftReady }

func (p *DraftReady) Validate() error {
	if err := requireSession(p.SessionId); err != nil {
		return err
	}
	if p.DraftId == "" {
		return fmt.Errorf("draft_id is required")
	}
	return nil
}

// ReviewCompleted carries one reviewer's verdict. Arrival order across
// the three kinds is unconstrained.
type ReviewCompleted struct {
	SessionId    uuid.UUID       `json:"session_id"`
	ReviewType   string          `json:"review_type"`
	OverallScore float64         `json:"overall_score"`
	Verdict      string          `json:"verdict"`
	Suggestions  []string        `json:"suggestions"`
	FullReview   json.RawMessage `json:"full_review"`
	DraftTitle   string          `json:"draft_title,omitempty"`
}

func (p *ReviewCompleted) EventKind() string { return KindReviewCompleted }

func (p *ReviewCompleted) Validate() error {
	if err := requireSession(p.SessionId); err != nil {
		return err
	}
	if !ValidReviewKind(p.ReviewType) {
		return fmt.Errorf("unknown review_type %q", p.ReviewType)
	}
	return nil
}

// OptimizationDone delivers the optimized draft.
type OptimizationDone struct {
	SessionId    uuid.UUID `json:"session_id"`
	Draft        Draft     `json:"draft"`
	Improvements []string  `json:"improvements"`
}

func (p *OptimizationDone) EventKind() string { return KindOptimizationDone }

func (p *OptimizationDone) Validate() error {
	return requireSession(p.SessionId)
}

// WorkerFailed is the error variant for any outstanding work request.
// The session stays in its pre-request stage so the user can retry or
// cancel.
type WorkerFailed struct {
	SessionId   uuid.UUID `json:"session_id"`
	RequestKind string    `json:"request_kind"`
	Reason      string    `json:"reason"`
}

func (p *WorkerFailed) EventKind() string { return KindWorkerFailed }

func (p *WorkerFailed) Validate() error {
	return requireSession(p.SessionId)
}
