package controller

import (
	"code-concierge-be/internal/dto"
	"code-concierge-be/internal/pkg/serverutils"
	"code-concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
}

type searchController struct {
	service service.ISearchService
}

func NewSearchController(service service.ISearchService) ISearchController {
	return &searchController{service: service}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Post("", c.Search)
	h.Get("", c.Search)
}

// Search accepts {"query": ...} or ?q= for simple links.
func (c *searchController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if ctx.Method() == fiber.MethodGet {
		req.Query = ctx.Query("q")
	} else if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.UserContext(), &req)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}
