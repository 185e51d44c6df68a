package controller

import (
	"activity-tracker-be/internal/dto"
	"activity-tracker-be/internal/pkg/serverutils"
	"activity-tracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMonitorController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Status(ctx *fiber.Ctx) error
	Start(ctx *fiber.Ctx) error
	Stop(ctx *fiber.Ctx) error
	ForceEnd(ctx *fiber.Ctx) error
	UpdateConfig(ctx *fiber.Ctx) error
	Sessions(ctx *fiber.Ctx) error
	Categorize(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
}

type monitorController struct {
	monitorService    service.IMonitorService
	classifierService service.IClassifierService
}

func NewMonitorController(ms service.IMonitorService, cs service.IClassifierService) IMonitorController {
	return &monitorController{
		monitorService:    ms,
		classifierService: cs,
	}
}

func (c *monitorController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/tracker/v1")
	h.Get("status", c.Status)
	h.Get("sessions", c.Sessions)
	h.Post("categorize", c.Categorize)
	h.Post("start", auth, c.Start)
	h.Post("stop", auth, c.Stop)
	h.Post("force-end", auth, c.ForceEnd)
	h.Put("config", auth, c.UpdateConfig)
	h.Post("feedback", auth, c.Feedback)
}

func (c *monitorController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Tracker status", c.monitorService.Status()))
}

func (c *monitorController) Start(ctx *fiber.Ctx) error {
	if err := c.monitorService.Start(); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tracker started", nil))
}

func (c *monitorController) Stop(ctx *fiber.Ctx) error {
	if err := c.monitorService.Stop(ctx.Context()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tracker stopped", nil))
}

func (c *monitorController) ForceEnd(ctx *fiber.Ctx) error {
	ended := c.monitorService.ForceEndCurrentSession(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Force end processed", dto.ForceEndResponse{Ended: ended}))
}

func (c *monitorController) UpdateConfig(ctx *fiber.Ctx) error {
	var req dto.UpdateConfigRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	cfg, err := c.monitorService.UpdateConfig(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Config updated", cfg))
}

func (c *monitorController) Sessions(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	sessions, err := c.monitorService.RecentSessions(ctx.Context(), limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Recent sessions", sessions))
}

func (c *monitorController) Categorize(ctx *fiber.Ctx) error {
	var req dto.CategorizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	result := c.classifierService.Categorize(req.AppName, req.WindowTitle)
	return ctx.JSON(serverutils.SuccessResponse("Categorization", result))
}

func (c *monitorController) Feedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.classifierService.AddFeedback(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Feedback recorded", nil))
}
