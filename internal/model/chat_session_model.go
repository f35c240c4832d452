package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatSession is owned by the user id taken from the caller's token. Deleting it removes its log.
type ChatSession struct {
	Id        uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	UserId    uuid.UUID `gorm:"type:varchar(36);not null;index"`
	Title     string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.Id == uuid.Nil {
		s.Id = newId()
	}
	return nil
}
