package controller

import (
	"time"

	"creation-workshop-be/internal/dto"
	"creation-workshop-be/internal/pkg/serverutils"
	"creation-workshop-be/internal/service"
	"creation-workshop-be/pkg/chat"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWorkshopController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	PostChatMessage(ctx *fiber.Ctx) error
	PendingSessions(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	UserHistory(ctx *fiber.Ctx) error
}

type workshopController struct {
	sessions service.ISessionService
	bus      *chat.Bus
}

func NewWorkshopController(sessions service.ISessionService, bus *chat.Bus) IWorkshopController {
	return &workshopController{sessions: sessions, bus: bus}
}

func (c *workshopController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Post("/chat/messages", c.PostChatMessage)
	r.Get("/sessions/pending", c.PendingSessions)
	r.Get("/sessions/:id", c.ShowSession)
	r.Get("/users/:id/history", c.UserHistory)
}

func (c *workshopController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{
		"channel": c.bus.Channel(),
		"time":    time.Now().Format(time.RFC3339),
	}))
}

// PostChatMessage is the HTTP way into the workshop channel, equivalent
// to typing into the chat.
func (c *workshopController) PostChatMessage(ctx *fiber.Ctx) error {
	var req dto.PostChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	msg := chat.Message{
		Channel:  c.bus.Channel(),
		Text:     req.Text,
		SourceId: req.SourceId,
		SentAt:   time.Now(),
	}
	if err := c.bus.PublishInbound(ctx.Context(), msg); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("Message accepted", nil))
}

func (c *workshopController) PendingSessions(ctx *fiber.Ctx) error {
	sessions, err := c.sessions.PendingSessions(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	res := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	for _, s := range sessions {
		res = append(res, dto.NewSessionSummaryResponse(s))
	}
	return ctx.JSON(serverutils.SuccessResponse("Pending sessions", res))
}

func (c *workshopController) ShowSession(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid session id"))
	}

	session, err := c.sessions.GetById(ctx.Context(), id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if session == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "session not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session detail", dto.NewSessionResponse(session)))
}

func (c *workshopController) UserHistory(ctx *fiber.Ctx) error {
	userId := ctx.Params("id")
	if userId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "user id is required"))
	}

	sessions, err := c.sessions.History(ctx.Context(), userId, ctx.QueryInt("limit"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	res := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	for _, s := range sessions {
		res = append(res, dto.NewSessionSummaryResponse(s))
	}
	return ctx.JSON(serverutils.SuccessResponse("User session history", res))
}
