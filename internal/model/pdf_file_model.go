package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PdfFile struct {
	Id          uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	Filename    string    `gorm:"size:512;not null;index"`
	FilePath    string    `gorm:"size:2048;not null"` // storage key, or the source URL for scraped pages
	FileSize    int64
	ContentText *string
	Metadata    datatypes.JSONMap
	UploadedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (PdfFile) TableName() string {
	return "pdf_files"
}

func (p *PdfFile) BeforeCreate(tx *gorm.DB) error {
	if p.Id == uuid.Nil {
		p.Id = newId()
	}
	return nil
}
