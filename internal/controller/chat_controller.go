package controller

import (
	"code-concierge-be/internal/dto"
	"code-concierge-be/internal/pkg/serverutils"
	"code-concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatController struct {
	service   service.IChatService
	jwtSecret string
}

func NewChatController(service service.IChatService, jwtSecret string) IChatController {
	return &chatController{service: service, jwtSecret: jwtSecret}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Chat)

	sessions := h.Group("/sessions")
	sessions.Use(serverutils.JwtMiddleware(c.jwtSecret))
	sessions.Get("", c.GetAllSessions)
	sessions.Post("", c.CreateSession)
	sessions.Get("/:id/messages", c.GetChatHistory)
	sessions.Post("/:id/messages", c.SendChat)
	sessions.Delete("/:id", c.DeleteSession)
}

func userID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, serverutils.Unauthorized("Invalid user id in token")
	}
	return id, nil
}

func sessionID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.BadRequest("Invalid session id")
	}
	return id, nil
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.UserContext(), &req)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	userId, err := userID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return serverutils.BadRequest("Invalid request body")
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateSession(ctx.UserContext(), userId, &req)
	if err != nil {
		return mapError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create chat session", res))
}

func (c *chatController) GetAllSessions(ctx *fiber.Ctx) error {
	userId, err := userID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetAllSessions(ctx.UserContext(), userId)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all chat sessions", res))
}

func (c *chatController) GetChatHistory(ctx *fiber.Ctx) error {
	userId, err := userID(ctx)
	if err != nil {
		return err
	}
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetChatHistory(ctx.UserContext(), userId, id)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	userId, err := userID(ctx)
	if err != nil {
		return err
	}
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	var req dto.SendSessionChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.UserContext(), userId, id, &req)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	userId, err := userID(ctx)
	if err != nil {
		return err
	}
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.DeleteSession(ctx.UserContext(), userId, id); err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete chat session", nil))
}
