package dto

import (
	"time"

	"creation-workshop-be/internal/entity"

	"github.com/google/uuid"
)

type PostChatMessageRequest struct {
	SourceId string `json:"source_id" validate:"required"`
	Text     string `json:"text" validate:"required"`
}

type ReviewResultResponse struct {
	Score   float64 `json:"score"`
	Verdict string  `json:"verdict"`
}

type SessionResponse struct {
	Id                   uuid.UUID                       `json:"id"`
	UserId               string                          `json:"user_id"`
	Topic                string                          `json:"topic"`
	Stage                string                          `json:"stage"`
	StageDisplay         string                          `json:"stage_display"`
	MaterialIds          []string                        `json:"material_ids,omitempty"`
	ConfirmedMaterialIds []string                        `json:"confirmed_material_ids,omitempty"`
	OutlineIds           []string                        `json:"outline_ids,omitempty"`
	SelectedOutlineId    string                          `json:"selected_outline_id,omitempty"`
	DraftId              string                          `json:"draft_id,omitempty"`
	CurrentSectionIndex  int                             `json:"current_section_index"`
	TotalSections        int                             `json:"total_sections"`
	WritingMode          string                          `json:"writing_mode,omitempty"`
	ReviewResults        map[string]ReviewResultResponse `json:"review_results,omitempty"`
	AverageScore         float64                         `json:"average_score"`
	ReviewSuggestions    []string                        `json:"review_suggestions,omitempty"`
	OptimizationCount    int                             `json:"optimization_count"`
	CreatedAt            time.Time                       `json:"created_at"`
	UpdatedAt            time.Time                       `json:"updated_at"`
	ExpiresAt            time.Time                       `json:"expires_at"`
}

type SessionSummaryResponse struct {
	Id           uuid.UUID `json:"id"`
	UserId       string    `json:"user_id"`
	Topic        string    `json:"topic"`
	Stage        string    `json:"stage"`
	StageDisplay string    `json:"stage_display"`
	Progress     string    `json:"progress"`
	UpdatedAt    time.Time `json:"updated_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func NewSessionResponse(s *entity.CreationSession) *SessionResponse {
	var results map[string]ReviewResultResponse
	if len(s.ReviewResults) > 0 {
		results = make(map[string]ReviewResultResponse, len(s.ReviewResults))
		for kind, r := range s.ReviewResults {
			results[kind] = ReviewResultResponse{Score: r.Score, Verdict: r.Verdict}
		}
	}
	return &SessionResponse{
		Id:                   s.Id,
		UserId:               s.UserId,
		Topic:                s.Topic,
		Stage:                string(s.Stage),
		StageDisplay:         s.Stage.DisplayName(),
		MaterialIds:          s.MaterialIds,
		ConfirmedMaterialIds: s.ConfirmedMaterialIds,
		OutlineIds:           s.OutlineIds,
		SelectedOutlineId:    s.SelectedOutlineId,
		DraftId:              s.DraftId,
		CurrentSectionIndex:  s.CurrentSectionIndex,
		TotalSections:        s.TotalSections,
		WritingMode:          s.WritingMode,
		ReviewResults:        results,
		AverageScore:         s.AverageScore,
		ReviewSuggestions:    s.ReviewSuggestions,
		OptimizationCount:    s.OptimizationCount,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
		ExpiresAt:            s.ExpiresAt,
	}
}

func NewSessionSummaryResponse(s *entity.CreationSession) *SessionSummaryResponse {
	return &SessionSummaryResponse{
		Id:           s.Id,
		UserId:       s.UserId,
		Topic:        s.Topic,
		Stage:        string(s.Stage),
		StageDisplay: s.Stage.DisplayName(),
		Progress:     s.ProgressInfo(),
		UpdatedAt:    s.UpdatedAt,
		ExpiresAt:    s.ExpiresAt,
	}
}
