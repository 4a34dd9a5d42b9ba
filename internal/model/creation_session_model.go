package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CreationSession is the persisted session row. Structured fields are
// stored as jsonb so a transition persists the full row in one write.
type CreationSession struct {
	Id     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId string    `gorm:"type:varchar(100);not null;index:idx_creation_sessions_user"`
	Topic  string    `gorm:"type:text"`
	State  string    `gorm:"type:varchar(30);default:'idle';index:idx_creation_sessions_state"`

	MaterialIds          datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	ConfirmedMaterialIds datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	OutlineIds        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	SelectedOutlineId string                      `gorm:"type:varchar(100)"`
	SelectedOutline   datatypes.JSON              `gorm:"type:jsonb"`
	OriginalOutline   datatypes.JSON              `gorm:"type:jsonb"`

	DraftId             string         `gorm:"type:varchar(100)"`
	CurrentSectionIndex int            `gorm:"default:0"`
	TotalSections       int            `gorm:"default:0"`
	SectionContents     datatypes.JSON `gorm:"type:jsonb"`
	WritingMode         string         `gorm:"type:varchar(20);default:'auto'"`

	ReviewResults     datatypes.JSON              `gorm:"type:jsonb"`
	AverageScore      float64                     `gorm:"default:0"`
	ReviewSuggestions datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	OptimizationCount int                         `gorm:"default:0"`
	FullReviews       datatypes.JSON              `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
	ExpiresAt time.Time `gorm:"index:idx_creation_sessions_expires"`
}

func (CreationSession) TableName() string {
	return "creation_sessions"
}
