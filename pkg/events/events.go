// Package events defines the typed contracts between the coordinator
// and the generation/review workers. Each event kind carries its own
// payload struct; no untyped maps cross the coordinator boundary.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Payload is implemented by every event payload, outbound and inbound.
type Payload interface {
	EventKind() string
	Validate() error
}

// Event kinds emitted by the coordinator (work requests).
const (
	KindSearchMaterials = "search_materials"
	KindRequestOutlines = "request_outlines"
	KindModifyOutline   = "modify_outline"
	KindStartWriting    = "start_writing"
	KindContinueWriting = "continue_writing"
	KindRewriteSection  = "rewrite_section"
	KindOptimizeDraft   = "optimize_draft"
)

// Event kinds consumed by the coordinator (worker completions).
const (
	KindMaterialsFound   = "materials_found"
	KindOutlinesReady    = "outlines_ready"
	KindOutlineModified  = "outline_modified"
	KindWritingProgress  = "writing_progress"
	KindDraftReady       = "draft_ready"
	KindReviewCompleted  = "review_completed"
	KindOptimizationDone = "optimization_done"
	KindWorkerFailed     = "worker_failed"
)

// Review kinds, the fixed fan-out width of the review stage.
const (
	ReviewKindSensitive     = "sensitive"
	ReviewKindAIFlavor      = "ai_flavor"
	ReviewKindPublicOpinion = "public_opinion"
)

// ReviewKinds lists the fixed reviewer set; the fan-in join completes
// when all of them have reported.
var ReviewKinds = []string{ReviewKindSensitive, ReviewKindAIFlavor, ReviewKindPublicOpinion}

// ValidReviewKind reports whether kind is one of the three reviewers.
func ValidReviewKind(kind string) bool {
	for _, k := range ReviewKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// WritingStatus values carried by WritingProgress.
const (
	WritingStatusStarted   = "started"
	WritingStatusCompleted = "completed"
)

// Material is one discovered knowledge-base entry.
type Material struct {
	Id      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

// Draft is a produced article version.
type Draft struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
}

func requireSession(id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("session_id is required")
	}
	return nil
}

// decoders maps event kind to a constructor for subscriber-side
// dispatch. Unknown kinds are rejected before any handler runs.
var decoders = map[string]func() Payload{
	KindSearchMaterials:  func() Payload { return &SearchMaterials{} },
	KindRequestOutlines:  func() Payload { return &RequestOutlines{} },
	KindModifyOutline:    func() Payload { return &ModifyOutline{} },
	KindStartWriting:     func() Payload { return &StartWriting{} },
	KindContinueWriting:  func() Payload { return &ContinueWriting{} },
	KindRewriteSection:   func() Payload { return &RewriteSection{} },
	KindOptimizeDraft:    func() Payload { return &OptimizeDraft{} },
	KindMaterialsFound:   func() Payload { return &MaterialsFound{} },
	KindOutlinesReady:    func() Payload { return &OutlinesReady{} },
	KindOutlineModified:  func() Payload { return &OutlineModified{} },
	KindWritingProgress:  func() Payload { return &WritingProgress{} },
	KindDraftReady:       func() Payload { return &DraftReady{} },
	KindReviewCompleted:  func() Payload { return &ReviewCompleted{} },
	KindOptimizationDone: func() Payload { return &OptimizationDone{} },
	KindWorkerFailed:     func() Payload { return &WorkerFailed{} },
}

// Decode unmarshals data into the payload type registered for kind and
// validates it.
func Decode(kind string, data []byte) (Payload, error) {
	newPayload, ok := decoders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
	p := newPayload()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", kind, err)
	}
	return p, nil
}
