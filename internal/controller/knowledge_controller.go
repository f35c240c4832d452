package controller

import (
	"fmt"

	"code-concierge-be/internal/dto"
	"code-concierge-be/internal/pkg/serverutils"
	"code-concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	ImportWorkbooks(ctx *fiber.Ctx) error
	ImportArchives(ctx *fiber.Ctx) error
	ImportPdfs(ctx *fiber.Ctx) error
	ScrapeUrls(ctx *fiber.Ctx) error
	ClearTable(ctx *fiber.Ctx) error
	GetStats(ctx *fiber.Ctx) error
	GetOverview(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	service   service.IKnowledgeService
	jwtSecret string
}

func NewKnowledgeController(service service.IKnowledgeService, jwtSecret string) IKnowledgeController {
	return &knowledgeController{service: service, jwtSecret: jwtSecret}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1/knowledge")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret), serverutils.AdminOnly)
	h.Post("/workbooks", c.ImportWorkbooks)
	h.Post("/archives", c.ImportArchives)
	h.Post("/pdfs", c.ImportPdfs)
	h.Post("/urls", c.ScrapeUrls)
	h.Get("/stats", c.GetStats)
	h.Get("/overview", c.GetOverview)
	h.Get("/export", c.Export)
	h.Delete("/:table", c.ClearTable)
}

func batchMessage(res *dto.BatchResult) string {
	return fmt.Sprintf("Imported %d item(s), %d failed", res.Succeeded, res.Failed)
}

func (c *knowledgeController) ImportWorkbooks(ctx *fiber.Ctx) error {
	files, err := readUploads(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ImportWorkbooks(ctx.UserContext(), files, ctx.FormValue("mode"))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse(batchMessage(res), res))
}

func (c *knowledgeController) ImportArchives(ctx *fiber.Ctx) error {
	files, err := readUploads(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ImportArchives(ctx.UserContext(), files, ctx.FormValue("mode"))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse(batchMessage(res), res))
}

func (c *knowledgeController) ImportPdfs(ctx *fiber.Ctx) error {
	files, err := readUploads(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ImportPdfs(ctx.UserContext(), files)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse(batchMessage(res), res))
}

func (c *knowledgeController) ScrapeUrls(ctx *fiber.Ctx) error {
	var req dto.ScrapeUrlsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ScrapeUrls(ctx.UserContext(), req.Urls)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse(batchMessage(res), res))
}

func (c *knowledgeController) ClearTable(ctx *fiber.Ctx) error {
	res, err := c.service.ClearTable(ctx.UserContext(), ctx.Params("table"))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Table cleared", res))
}

func (c *knowledgeController) GetStats(ctx *fiber.Ctx) error {
	res, err := c.service.GetStats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Knowledge stats", res))
}

func (c *knowledgeController) GetOverview(ctx *fiber.Ctx) error {
	res, err := c.service.GetOverview(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Knowledge overview", res))
}

// Export streams the file as an attachment rather than the JSON envelope.
func (c *knowledgeController) Export(ctx *fiber.Ctx) error {
	file, err := c.service.Export(ctx.UserContext(), ctx.Query("table", service.TableAll), ctx.Query("format", "json"))
	if err != nil {
		return mapError(err)
	}

	ctx.Set(fiber.HeaderContentType, file.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return ctx.Send(file.Data)
}
