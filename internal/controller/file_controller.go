package controller

import (
	"net/url"

	"code-concierge-be/internal/pkg/serverutils"
	"code-concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Download(ctx *fiber.Ctx) error
	Link(ctx *fiber.Ctx) error
}

type fileController struct {
	service service.IFileService
}

func NewFileController(service service.IFileService) IFileController {
	return &fileController{service: service}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/files/v1")
	h.Get("/download", c.Download)
	h.Get("/:filename/link", c.Link)
}

// Download is reached through signed locators, so it carries no auth middleware.
func (c *fileController) Download(ctx *fiber.Ctx) error {
	token := ctx.Query("token")
	if token == "" {
		return serverutils.BadRequest("Missing token")
	}

	dl, err := c.service.Resolve(ctx.UserContext(), token)
	if err != nil {
		return mapError(err)
	}

	if dl.RedirectURL != "" {
		return ctx.Redirect(dl.RedirectURL, fiber.StatusFound)
	}
	return ctx.Download(dl.LocalPath, dl.Filename)
}

func (c *fileController) Link(ctx *fiber.Ctx) error {
	filename, err := url.PathUnescape(ctx.Params("filename"))
	if err != nil {
		return serverutils.BadRequest("Invalid filename")
	}

	res, err := c.service.Link(ctx.UserContext(), filename)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Download link", res))
}
