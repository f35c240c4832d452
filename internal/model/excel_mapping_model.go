package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExcelMapping struct {
	Id          uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	QueryTerm   string    `gorm:"size:512;not null"`
	PdfFilename string    `gorm:"size:512;not null;index"`
	Category    *string   `gorm:"size:255"`
	Description *string
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (ExcelMapping) TableName() string {
	return "excel_mappings"
}

func (m *ExcelMapping) BeforeCreate(tx *gorm.DB) error {
	if m.Id == uuid.Nil {
		m.Id = newId()
	}
	return nil
}
