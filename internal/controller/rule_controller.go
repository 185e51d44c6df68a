package controller

import (
	"activity-tracker-be/internal/dto"
	"activity-tracker-be/internal/pkg/serverutils"
	"activity-tracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRuleController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Toggle(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Import(ctx *fiber.Ctx) error
}

type ruleController struct {
	classifierService service.IClassifierService
}

func NewRuleController(cs service.IClassifierService) IRuleController {
	return &ruleController{classifierService: cs}
}

func (c *ruleController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/rules/v1")
	h.Get("", c.List)
	h.Get("export", c.Export)
	h.Post("", auth, c.Create)
	h.Post("import", auth, c.Import)
	h.Put(":id", auth, c.Update)
	h.Delete(":id", auth, c.Delete)
	h.Patch(":id/toggle", auth, c.Toggle)
}

func (c *ruleController) List(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Rules", c.classifierService.ListRules()))
}

func (c *ruleController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateRuleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	rule, err := c.classifierService.CreateRule(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Rule created", rule))
}

func (c *ruleController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid rule id")
	}

	var req dto.UpdateRuleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	rule, err := c.classifierService.UpdateRule(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Rule updated", rule))
}

func (c *ruleController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid rule id")
	}
	if err := c.classifierService.DeleteRule(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Rule deleted", nil))
}

func (c *ruleController) Toggle(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid rule id")
	}

	var req dto.ToggleRuleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := c.classifierService.ToggleRule(ctx.Context(), id, req.Enabled); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Rule toggled", nil))
}

func (c *ruleController) Export(ctx *fiber.Ctx) error {
	data, err := c.classifierService.ExportCatalog()
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return ctx.Send(data)
}

func (c *ruleController) Import(ctx *fiber.Ctx) error {
	if err := c.classifierService.ImportCatalog(ctx.Context(), ctx.Body()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Catalog imported", nil))
}
