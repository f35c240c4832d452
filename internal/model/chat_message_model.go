package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MessageFile is a file surfaced with an assistant answer. Stored inline as JSON.
type MessageFile struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	Available   bool   `json:"available"`
	Snippet     string `json:"snippet,omitempty"`
}

type ChatMessage struct {
	Id            uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	ChatSessionId uuid.UUID `gorm:"type:varchar(36);not null;index"`
	Role          string    `gorm:"size:50;not null"`
	Content       string    `gorm:"not null"`
	Files         datatypes.JSONSlice[MessageFile]
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.Id == uuid.Nil {
		m.Id = newId()
	}
	return nil
}

