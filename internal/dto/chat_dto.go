package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type RelevantFileDTO struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	Available   bool   `json:"available"`
	Snippet     string `json:"snippet,omitempty"`
	Source      string `json:"source,omitempty"`
}

type ChatResponse struct {
	Answer              string            `json:"answer"`
	RelevantFiles       []RelevantFileDTO `json:"relevant_files"`
	MatchedAnyKnowledge bool              `json:"matched_any_knowledge"`
	Outcome             string            `json:"outcome"`
	Suggestions         []string          `json:"suggestions,omitempty"`
	Route               string            `json:"route,omitempty"`
}

type CreateSessionRequest struct {
	Title string `json:"title" validate:"max=200"`
}

type CreateSessionResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type SessionResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	MessageCount int64     `json:"message_count"`
	LastMessage  string    `json:"last_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID         `json:"id"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Files     []RelevantFileDTO `json:"files,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type SendSessionChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type SendSessionChatResponse struct {
	ChatSessionId    uuid.UUID            `json:"chat_session_id"`
	ChatSessionTitle string               `json:"title"`
	Sent             *ChatMessageResponse `json:"sent"`
	Reply            *ChatMessageResponse `json:"reply"`
	Outcome          string               `json:"outcome"`
	Suggestions      []string             `json:"suggestions,omitempty"`
}
