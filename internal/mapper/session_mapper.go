package mapper

import (
	"encoding/json"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/model"
	"creation-workshop-be/internal/workflow"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.CreationSession) *entity.CreationSession {
	if s == nil {
		return nil
	}

	e := &entity.CreationSession{
		Id:                   s.Id,
		UserId:               s.UserId,
		Topic:                s.Topic,
		Stage:                workflow.Stage(s.State),
		MaterialIds:          s.MaterialIds,
		ConfirmedMaterialIds: s.ConfirmedMaterialIds,
		OutlineIds:           s.OutlineIds,
		SelectedOutlineId:    s.SelectedOutlineId,
		SelectedOutline:      json.RawMessage(s.SelectedOutline),
		OriginalOutline:      json.RawMessage(s.OriginalOutline),
		DraftId:              s.DraftId,
		CurrentSectionIndex:  s.CurrentSectionIndex,
		TotalSections:        s.TotalSections,
		WritingMode:          s.WritingMode,
		AverageScore:         s.AverageScore,
		ReviewSuggestions:    s.ReviewSuggestions,
		OptimizationCount:    s.OptimizationCount,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
		ExpiresAt:            s.ExpiresAt,
	}

	// Corrupt jsonb content degrades to the zero value rather than
	// failing the load; the caller validates the stage separately.
	if len(s.SectionContents) > 0 {
		_ = json.Unmarshal(s.SectionContents, &e.SectionContents)
	}
	if len(s.ReviewResults) > 0 {
		_ = json.Unmarshal(s.ReviewResults, &e.ReviewResults)
	}
	if len(s.FullReviews) > 0 {
		_ = json.Unmarshal(s.FullReviews, &e.FullReviews)
	}

	return e
}

func (m *SessionMapper) ToModel(e *entity.CreationSession) *model.CreationSession {
	if e == nil {
		return nil
	}

	return &model.CreationSession{
		Id:                   e.Id,
		UserId:               e.UserId,
		Topic:                e.Topic,
		State:                string(e.Stage),
		MaterialIds:          datatypes.NewJSONSlice(e.MaterialIds),
		ConfirmedMaterialIds: datatypes.NewJSONSlice(e.ConfirmedMaterialIds),
		OutlineIds:           datatypes.NewJSONSlice(e.OutlineIds),
		SelectedOutlineId:    e.SelectedOutlineId,
		SelectedOutline:      datatypes.JSON(e.SelectedOutline),
		OriginalOutline:      datatypes.JSON(e.OriginalOutline),
		DraftId:              e.DraftId,
		CurrentSectionIndex:  e.CurrentSectionIndex,
		TotalSections:        e.TotalSections,
		SectionContents:      marshalJSON(e.SectionContents),
		WritingMode:          e.WritingMode,
		ReviewResults:        marshalJSON(e.ReviewResults),
		AverageScore:         e.AverageScore,
		ReviewSuggestions:    datatypes.NewJSONSlice(e.ReviewSuggestions),
		OptimizationCount:    e.OptimizationCount,
		FullReviews:          marshalJSON(e.FullReviews),
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
		ExpiresAt:            e.ExpiresAt,
	}
}

func marshalJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
