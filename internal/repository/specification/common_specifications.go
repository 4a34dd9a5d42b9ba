package specification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by primary key.
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// OrderBy applies ordering.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Pagination limits result size.
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

// NotExpired keeps rows whose absolute deadline is still in the future.
type NotExpired struct {
	Now time.Time
}

func (s NotExpired) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at > ?", s.Now)
}

// Expired keeps rows past their deadline, for the sweep.
type Expired struct {
	Now time.Time
}

func (s Expired) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at <= ?", s.Now)
}
