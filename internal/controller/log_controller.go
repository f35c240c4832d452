package controller

import (
	"time"

	"code-concierge-be/internal/dto"
	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// zap's ISO8601 encoder layout
const logTimeLayout = "2006-01-02T15:04:05.000Z0700"

type LogReader interface {
	GetLogs(filter logger.LogFilter) ([]logger.LogEntry, error)
}

type ILogController interface {
	RegisterRoutes(r fiber.Router)
	GetLogs(ctx *fiber.Ctx) error
}

type logController struct {
	reader    LogReader
	jwtSecret string
}

func NewLogController(reader LogReader, jwtSecret string) ILogController {
	return &logController{reader: reader, jwtSecret: jwtSecret}
}

func (c *logController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1/logs")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret), serverutils.AdminOnly)
	h.Get("", c.GetLogs)
}

func (c *logController) GetLogs(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	entries, err := c.reader.GetLogs(logger.LogFilter{
		Level:  ctx.Query("level"),
		Module: ctx.Query("module"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return err
	}

	res := make([]dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		createdAt, _ := time.Parse(logTimeLayout, e.Timestamp)
		res = append(res, dto.LogListResponse{
			Id:        e.Id,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			Details:   e.Details,
			CreatedAt: createdAt,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", res))
}
