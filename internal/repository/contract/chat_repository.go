package contract

import (
	"context"

	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	// Touch renames the session and bumps its updated_at; nothing else is written.
	Touch(ctx context.Context, id uuid.UUID, title string) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
}

// ChatMessageRepository is append-only.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	// Summaries has an entry only for sessions with at least one message.
	Summaries(ctx context.Context, sessionIds []uuid.UUID) (map[uuid.UUID]entity.SessionSummary, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
