package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ByIDs filters by a list of IDs
type ByIDs struct {
	IDs []uuid.UUID
}

func (s ByIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.IDs)
}

// OrderBy applies ordering
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

// InsertionOrder sorts by creation time with id as tie-break. Ids are time-ordered,
// so rows written in one batch come back in the order they were written.
type InsertionOrder struct {
	TimeField string
	Desc      bool
}

func (s InsertionOrder) Apply(db *gorm.DB) *gorm.DB {
	field := s.TimeField
	if field == "" {
		field = "created_at"
	}
	db = OrderBy{Field: field, Desc: s.Desc}.Apply(db)
	return OrderBy{Field: "id", Desc: s.Desc}.Apply(db)
}

// Pagination
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

// Limit caps the result size without an offset.
func Limit(n int) Specification {
	return Pagination{Limit: n}
}

// FilterBy Generic Filter
type FilterBy struct {
	Field string
	Value interface{}
}

func (s FilterBy) Apply(db *gorm.DB) *gorm.DB {
	query := fmt.Sprintf("%s = ?", s.Field)
	return db.Where(query, s.Value)
}

func Filter(field string, value interface{}) Specification {
	return FilterBy{Field: field, Value: value}
}

// FilterIn matches any of the given values.
type FilterIn struct {
	Field  string
	Values interface{}
}

func (s FilterIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(fmt.Sprintf("%s IN ?", s.Field), s.Values)
}
