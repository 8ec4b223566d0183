package controller

import (
	"io"

	"chat-archivist-be/internal/dto"
	"chat-archivist-be/internal/pkg/serverutils"
	"chat-archivist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IArchiveController interface {
	RegisterRoutes(r fiber.Router)
	Import(ctx *fiber.Ctx) error
	ListImports(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	CreateAlias(ctx *fiber.Ctx) error
	ListAliases(ctx *fiber.Ctx) error
	DeleteAlias(ctx *fiber.Ctx) error
}

type archiveController struct {
	ingestService service.IIngestService
}

func NewArchiveController(ingestService service.IIngestService) IArchiveController {
	return &archiveController{
		ingestService: ingestService,
	}
}

func (c *archiveController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/archive/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("imports", c.Import)
	h.Get("imports", c.ListImports)
	h.Get("stats", c.Stats)
	h.Post("aliases", c.CreateAlias)
	h.Get("aliases", c.ListAliases)
	h.Delete("aliases/:alias", c.DeleteAlias)
}

// Import accepts the export file either as a multipart upload under the
// "file" field or as the raw request body.
func (c *archiveController) Import(ctx *fiber.Ctx) error {
	raw := ctx.Body()

	if file, err := ctx.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
		}
		defer f.Close()

		buf, err := io.ReadAll(f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
		}
		raw = buf
	}

	if len(raw) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty export file")
	}

	res, err := c.ingestService.ImportExport(ctx.Context(), raw)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success import export", res))
}

func (c *archiveController) ListImports(ctx *fiber.Ctx) error {
	res, err := c.ingestService.ListImports(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list imports", res))
}

func (c *archiveController) Stats(ctx *fiber.Ctx) error {
	res, err := c.ingestService.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get archive stats", res))
}

func (c *archiveController) CreateAlias(ctx *fiber.Ctx) error {
	var req dto.CreateAliasRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestService.CreateAlias(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create alias", res))
}

func (c *archiveController) ListAliases(ctx *fiber.Ctx) error {
	res, err := c.ingestService.ListAliases(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list aliases", res))
}

func (c *archiveController) DeleteAlias(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")
	if err := c.ingestService.DeleteAlias(ctx.Context(), alias); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete alias", nil))
}
