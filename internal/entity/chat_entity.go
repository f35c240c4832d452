package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionSummary is what a session list shows without loading the log.
type SessionSummary struct {
	MessageCount int64
	LastMessage  *ChatMessage
}

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type MessageFile struct {
	Filename    string
	DownloadURL string
	Available   bool
	Snippet     string
}

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	Files         []MessageFile
	CreatedAt     time.Time
}
