package service

import (
	"context"
	"errors"
	"strings"

	"code-concierge-be/internal/dto"
	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/internal/repository/specification"
	"code-concierge-be/internal/repository/unitofwork"
	"code-concierge-be/pkg/rag/prompt"
	"code-concierge-be/pkg/rag/response"
	"code-concierge-be/pkg/rag/search"
	"code-concierge-be/pkg/utils"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("chat session not found")

const (
	defaultSessionTitle = "New Chat"
	sessionTitleLength  = 50
	lastMessagePreview  = 100
)

// Answerer makes the single completion call for a matched question.
type Answerer interface {
	Answer(ctx context.Context, message string, knowledge prompt.Knowledge) *response.AnswerResult
}

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SendSessionChatRequest) (*dto.SendSessionChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	retriever  Retriever
	answerer   Answerer
	locator    search.LocatorFunc
	logger     logger.ILogger
}

// NewChatService wires retrieval to the answer bridge. locator re-signs download links when
// history is read back.
func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	retriever Retriever,
	answerer Answerer,
	locator search.LocatorFunc,
	logger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		retriever:  retriever,
		answerer:   answerer,
		locator:    locator,
		logger:     logger,
	}
}

// Chat answers one stateless question. The completion service is called only when retrieval matched.
func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyQuery
	}

	outcome, err := s.retriever.Search(ctx, message)
	if err != nil {
		return nil, err
	}

	res := &dto.ChatResponse{
		Outcome:       string(outcome.Kind),
		RelevantFiles: []dto.RelevantFileDTO{},
	}

	switch outcome.Kind {
	case search.OutcomeEmptyKnowledgeBase:
		res.Answer = outcome.Message
		return res, nil

	case search.OutcomeSuggestions:
		res.Answer = outcome.Message
		res.Suggestions = outcome.Suggestions
		res.Route = outcome.Route
		return res, nil
	}

	result := s.answerer.Answer(ctx, message, knowledgeFromOutcome(outcome))
	res.Answer = result.Answer
	res.MatchedAnyKnowledge = true
	res.Route = outcome.Route
	res.RelevantFiles = toRelevantFileDTOs(outcome.Files)
	return res, nil
}

func knowledgeFromOutcome(outcome *search.Outcome) prompt.Knowledge {
	files := make([]prompt.FileContext, 0, len(outcome.Files))
	for _, f := range outcome.Files {
		files = append(files, prompt.FileContext{
			Filename:    f.Filename,
			Snippet:     f.Snippet,
			DownloadURL: f.DownloadURL,
			Available:   f.Available,
		})
	}
	return prompt.Knowledge{
		PdfContent:       outcome.PdfContent(),
		FrameworkContext: outcome.Context,
		Files:            files,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultSessionTitle
	}

	session := &entity.ChatSession{UserId: userId, Title: title}
	if err := s.uowFactory.NewUnitOfWork(ctx).ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{Id: session.Id, Title: session.Title}, nil
}

// GetAllSessions lists the most recently active sessions first.
func (s *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.InsertionOrder{TimeField: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(sessions))
	for i, session := range sessions {
		ids[i] = session.Id
	}
	summaries, err := uow.ChatMessageRepository().Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		item := &dto.SessionResponse{
			Id:        session.Id,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		}
		if summary, ok := summaries[session.Id]; ok {
			item.MessageCount = summary.MessageCount
			if summary.LastMessage != nil {
				item.LastMessage = utils.TruncateWithMarker(summary.LastMessage.Content, lastMessagePreview, "...")
			}
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *chatService) findSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.InsertionOrder{},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, s.toMessageResponse(m))
	}
	return res, nil
}

// SendChat answers inside a session and appends both turns to its log.
// Retrieval only ever sees the current message.
func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SendSessionChatRequest) (*dto.SendSessionChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.findSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	answer, err := s.Chat(ctx, &dto.ChatRequest{Message: req.Message})
	if err != nil {
		return nil, err
	}

	sent := &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          entity.ChatRoleUser,
		Content:       strings.TrimSpace(req.Message),
	}
	files := make([]entity.MessageFile, 0, len(answer.RelevantFiles))
	for _, f := range answer.RelevantFiles {
		files = append(files, entity.MessageFile{
			Filename:    f.Filename,
			DownloadURL: f.DownloadURL,
			Available:   f.Available,
			Snippet:     f.Snippet,
		})
	}
	reply := &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          entity.ChatRoleAssistant,
		Content:       answer.Answer,
		Files:         files,
	}

	title := session.Title
	if title == defaultSessionTitle {
		title = utils.TruncateWithMarker(sent.Content, sessionTitleLength, "...")
	}

	// Both turns land or neither does.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, sent); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, reply); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, session.Id, title); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.SendSessionChatResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: title,
		Sent:             s.toMessageResponse(sent),
		Reply:            s.toMessageResponse(reply),
		Outcome:          answer.Outcome,
		Suggestions:      answer.Suggestions,
	}, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findSession(ctx, uow, userId, sessionId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *chatService) toMessageResponse(m *entity.ChatMessage) *dto.ChatMessageResponse {
	res := &dto.ChatMessageResponse{
		Id:        m.Id,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	for _, f := range m.Files {
		url := f.DownloadURL
		if s.locator != nil {
			url = s.locator(f.Filename)
		}
		res.Files = append(res.Files, dto.RelevantFileDTO{
			Filename:    f.Filename,
			DownloadURL: url,
			Available:   f.Available,
			Snippet:     f.Snippet,
		})
	}
	return res
}
