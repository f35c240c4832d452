package implementation

import (
	"context"

	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/mapper"
	"code-concierge-be/internal/model"
	"code-concierge-be/internal/repository/contract"
	"code-concierge-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ChatMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ChatMessageToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	messages := make([]*entity.ChatMessage, len(models))
	for i, m := range models {
		messages[i] = r.mapper.ChatMessageToEntity(m)
	}
	return messages, nil
}

type sessionTally struct {
	ChatSessionId uuid.UUID
	Total         int64
	LastId        uuid.UUID
}

// Summaries runs two queries regardless of how many sessions are asked for.
// Message ids are UUIDv7 strings, so MAX(id) is the newest message.
func (r *ChatMessageRepositoryImpl) Summaries(ctx context.Context, sessionIds []uuid.UUID) (map[uuid.UUID]entity.SessionSummary, error) {
	out := make(map[uuid.UUID]entity.SessionSummary, len(sessionIds))
	if len(sessionIds) == 0 {
		return out, nil
	}

	var tallies []sessionTally
	err := r.db.WithContext(ctx).Model(&model.ChatMessage{}).
		Select("chat_session_id, COUNT(*) AS total, MAX(id) AS last_id").
		Where("chat_session_id IN ?", sessionIds).
		Group("chat_session_id").
		Scan(&tallies).Error
	if err != nil {
		return nil, err
	}
	if len(tallies) == 0 {
		return out, nil
	}

	lastIds := make([]uuid.UUID, len(tallies))
	for i, t := range tallies {
		lastIds[i] = t.LastId
	}
	var last []*model.ChatMessage
	if err := r.db.WithContext(ctx).Where("id IN ?", lastIds).Find(&last).Error; err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*model.ChatMessage, len(last))
	for _, m := range last {
		byId[m.Id] = m
	}

	for _, t := range tallies {
		out[t.ChatSessionId] = entity.SessionSummary{
			MessageCount: t.Total,
			LastMessage:  r.mapper.ChatMessageToEntity(byId[t.LastId]),
		}
	}
	return out, nil
}

func (r *ChatMessageRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("chat_session_id = ?", sessionId).Delete(&model.ChatMessage{}).Error
}
