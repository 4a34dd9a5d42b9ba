package entity

import (
	"encoding/json"
	"strconv"
	"time"

	"creation-workshop-be/internal/workflow"

	"github.com/google/uuid"
)

// ReviewResult is the settled outcome of one reviewer kind.
type ReviewResult struct {
	Score   float64 `json:"score"`
	Verdict string  `json:"verdict"`
}

// CreationSession is the per-user workshop session. A user has at most
// one active session at a time; terminal sessions stay queryable by id
// until the expiry sweep removes them.
type CreationSession struct {
	Id     uuid.UUID
	UserId string
	Topic  string
	Stage  workflow.Stage

	// Materials discovered by search and the subset the user confirmed.
	MaterialIds          []string
	ConfirmedMaterialIds []string

	// Outline order fixes the option 1/2/3 numbering shown to the user.
	OutlineIds        []string
	SelectedOutlineId string
	// SelectedOutline holds user-edited outline content; the stored
	// original is never mutated until a modify request round-trips
	// through the outline worker.
	SelectedOutline json.RawMessage
	OriginalOutline json.RawMessage

	DraftId             string
	CurrentSectionIndex int
	TotalSections       int
	SectionContents     map[int]string
	WritingMode         string

	// Settled review summary, written once the fan-in join completes.
	ReviewResults     map[string]ReviewResult
	AverageScore      float64
	ReviewSuggestions []string
	OptimizationCount int
	FullReviews       map[string]json.RawMessage

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// Active reports whether the session still accepts workflow input.
func (s *CreationSession) Active(now time.Time) bool {
	return !s.Stage.IsTerminal() && now.Before(s.ExpiresAt)
}

// ProgressInfo describes how far a busy stage has come.
func (s *CreationSession) ProgressInfo() string {
	switch s.Stage {
	case workflow.StageWriting:
		if s.TotalSections > 0 {
			return "writing section " + strconv.Itoa(s.CurrentSectionIndex) + "/" + strconv.Itoa(s.TotalSections)
		}
		return "writing"
	case workflow.StageReviewing:
		return "collecting reviews " + strconv.Itoa(len(s.ReviewResults)) + "/3"
	}
	return s.Stage.DisplayName()
}

// ClearWork drops every in-progress field, keeping identity and
// timestamps. Used by Cancel and the implicit restart.
func (s *CreationSession) ClearWork() {
	s.Topic = ""
	s.Stage = workflow.StageIdle
	s.MaterialIds = nil
	s.ConfirmedMaterialIds = nil
	s.OutlineIds = nil
	s.SelectedOutlineId = ""
	s.SelectedOutline = nil
	s.OriginalOutline = nil
	s.DraftId = ""
	s.CurrentSectionIndex = 0
	s.TotalSections = 0
	s.SectionContents = nil
	s.WritingMode = WritingModeAuto
	s.ReviewResults = nil
	s.AverageScore = 0
	s.ReviewSuggestions = nil
	s.OptimizationCount = 0
	s.FullReviews = nil
}

const (
	WritingModeAuto       = "auto"
	WritingModeStepByStep = "step_by_step"
)
