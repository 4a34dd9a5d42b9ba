package events

import (
	"fmt"

	"github.com/google/uuid"
)

// SearchMaterials asks the material worker to search the knowledge base
// for entries related to the topic.
type SearchMaterials struct {
	SessionId uuid.UUID `json:"session_id"`
	UserId    string    `json:"user_id"`
	Topic     string    `json:"topic"`
}

func (p *SearchMaterials) EventKind() string { return KindSearchMaterials }

func (p *SearchMaterials) Validate() error {
	if err := requireSession(p.SessionId); err != nil {
		return err
	}
	if p.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	return nil
}

// RequestOutlines asks the outline worker for outline candidates.
type RequestOutlines struct {
	SessionId   uuid.UUID `json:"session_id"`
	UserId      string    `json:"user_id"`
	Topic       string    `json:"topic"`
	MaterialIds []string  `json:"material_ids"`
}

func (p *RequestOutlines) EventKind() string { return KindRequestOutlines }

func (p *RequestOutlines) Validate() error {
	if err := requireSession(p.SessionId); err != nil {
		return err
	}
	if p.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	return nil
}

// ModifyOutline asks the outline worker to rework one outline per a
// free-text instruction.
type ModifyOutline struct {
	SessionId    uuid.UUID `json:"session_id"`
	OutlineId    string    `json:"outline_id"`
	Modification string    `json:"modification"`
}

func (p *ModifyOutline) EventKind() string { return KindModifyOutline }

func (p *ModifyOutline) Validate() error {
	if err := requireSession(p.SessionId); err != nil {
		return err
	}
	if p.OutlineId == "" {
		return fmt.Errorf("outline_id is required")
	}
	if p.Modification == "" {
		return fmt.Errorf("modification is required")
	}
	return nil
}

// StartWriting kicks off the writer against the selected outline.
type StartWriting struct {
	SessionId   uuid.UUID `json:"session_id"`
	OutlineId   string    `json:"outline_id"`
	Topic       string    `json:"topic"`
	WritingMode string    `json:"writing_mode"`
}

func (p *StartWriting) EventKind() string { return KindStartWriting }

func (p *StartWriting) Validate() error {
	if err := requireSession(p.SessionId); err != nil {
		return err
	}
	if p.OutlineId == "" {
		return fmt.Errorf("outline_id is required")
	}
	return nil
}

// ContinueWriting resumes a paused draft at the given section.
type ContinueWriting struct {
	SessionId    uuid.UUID `json:"session_id"`
	SectionIndex int       `json:"section_index"`
}

func (p *ContinueWriting) EventKind() string { return KindContinueWriting }

func (p *ContinueWriting) Validate() error {
	return requireSession(p.SessionId)
}

// RewriteSection asks the writer to redo the current section.
type RewriteSection struct {
	SessionId    uuid.UUID `json:"session_id"`
	SectionIndex int       `json:"section_index"`
	Instruction  string    `json:"instruction"`
}

func (p *RewriteSection) EventKind() string { return KindRewriteSection }

func (p *RewriteSection) Validate() error {
	return requireSession(p.SessionId)
}

// OptimizeDraft asks the writer to revise the draft per the review
// suggestions.
type OptimizeDraft struct {
	SessionId   uuid.UUID `json:"session_id"`
	DraftId     string    `json:"draft_id"`
	Suggestions []string  `json:"suggestions"`
}

func (p *OptimizeDraft) EventKind() string { return KindOptimizeDraft }

func (p *OptimizeDraft) Validate() error {
	if err := requireSession(p.SessionId); err != nil {
		return err
	}
	if p.DraftId == "" {
		return fmt.Errorf("draft_id is required")
	}
	return nil
}
