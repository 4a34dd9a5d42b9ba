package specification

import "gorm.io/gorm"

// Specification is one composable query predicate. Repositories chain
// them onto a base query instead of growing per-filter methods.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
