package controller

import (
	"context"
	"encoding/json"

	"chat-archivist-be/internal/dto"
	"chat-archivist-be/internal/pkg/logger"
	"chat-archivist-be/internal/pkg/serverutils"
	"chat-archivist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Flips(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
	logger        logger.ILogger
}

func NewSearchController(searchService service.ISearchService, log logger.ILogger) ISearchController {
	return &searchController{
		searchService: searchService,
		logger:        log,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Post("ask", serverutils.JwtMiddleware, c.Ask)
	h.Post("flips", serverutils.JwtMiddleware, c.Flips)

	// Browsers cannot set the Authorization header on a websocket
	// upgrade, so the stream route skips the JWT middleware.
	h.Use("ask/stream", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	h.Get("ask/stream", websocket.New(c.askStream))
}

func (c *searchController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}

// Flips checks whether one speaker changed their position on a topic.
func (c *searchController) Flips(ctx *fiber.Ctx) error {
	var req dto.FlipRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.DetectFlip(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success flip analysis", res))
}

type streamFrame struct {
	Type     string           `json:"type"` // "chunk" | "done" | "error"
	Content  string           `json:"content,omitempty"`
	Response *dto.AskResponse `json:"response,omitempty"`
}

// askStream answers one question per websocket connection: the client
// sends an AskRequest, the server streams chunk frames and finishes
// with a done frame carrying the full response.
func (c *searchController) askStream(conn *websocket.Conn) {
	defer conn.Close()

	var req dto.AskRequest
	if err := conn.ReadJSON(&req); err != nil {
		c.writeFrame(conn, streamFrame{Type: "error", Content: "invalid request"})
		return
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		c.writeFrame(conn, streamFrame{Type: "error", Content: err.Error()})
		return
	}

	res, err := c.searchService.AskStream(context.Background(), &req, func(chunk string) {
		c.writeFrame(conn, streamFrame{Type: "chunk", Content: chunk})
	})
	if err != nil {
		c.logger.Error("search_controller", "Stream failed", map[string]interface{}{
			"error": err.Error(),
		})
		c.writeFrame(conn, streamFrame{Type: "error", Content: "search failed"})
		return
	}

	c.writeFrame(conn, streamFrame{Type: "done", Response: res})
}

func (c *searchController) writeFrame(conn *websocket.Conn, frame streamFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.Warn("search_controller", "Websocket write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
