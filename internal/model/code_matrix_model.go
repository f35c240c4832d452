package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CodeMatrixEntry struct {
	Id            uuid.UUID                   `gorm:"type:varchar(36);primaryKey"`
	CodeBlock     *string                     `gorm:"size:255"`
	Filename      string                      `gorm:"size:512;not null"`
	WorksheetName *string                     `gorm:"size:512"`
	ToolName      *string                     `gorm:"size:512"`
	Phase         *string                     `gorm:"size:255"`
	CanvasType    *string                     `gorm:"size:255"`
	Sublevel      *string                     `gorm:"size:255"`
	Description   *string
	Keywords      datatypes.JSONSlice[string]
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (CodeMatrixEntry) TableName() string {
	return "code_matrix"
}

func (e *CodeMatrixEntry) BeforeCreate(tx *gorm.DB) error {
	if e.Id == uuid.Nil {
		e.Id = newId()
	}
	return nil
}
