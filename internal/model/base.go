package model

import (
	"github.com/google/uuid"
)

// newId returns a time-ordered identifier so rows created in one batch sort in insertion order.
func newId() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// All returns every model managed by migrations, in creation order.
func All() []interface{} {
	return []interface{}{
		&CodeMatrixEntry{},
		&ExcelMapping{},
		&PdfFile{},
		&ChatSession{},
		&ChatMessage{},
	}
}
