package specification

import (
	"creation-workshop-be/internal/workflow"

	"gorm.io/gorm"
)

// OwnedBy filters sessions by the chat user they belong to.
type OwnedBy struct {
	UserID string
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// NonTerminal excludes completed and errored sessions; combined with
// NotExpired and OrderBy(updated_at DESC) it yields the single active
// session for a user.
type NonTerminal struct{}

func (s NonTerminal) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("state NOT IN ?", []string{
		string(workflow.StageCompleted),
		string(workflow.StageError),
	})
}

// InStages keeps sessions in any of the given stages.
type InStages struct {
	Stages []workflow.Stage
}

func (s InStages) Apply(db *gorm.DB) *gorm.DB {
	states := make([]string, len(s.Stages))
	for i, st := range s.Stages {
		states[i] = string(st)
	}
	return db.Where("state IN ?", states)
}
