package specification

import "gorm.io/gorm"

// Specification narrows a GORM query. Repositories apply any number of
// specifications before executing the statement.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
